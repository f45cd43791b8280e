package main

import (
	"context"
	"flag"

	"vmxsphere/cmd/controller/wire"
	"vmxsphere/pkg/config"
	"vmxsphere/pkg/log"

	"go.uber.org/zap"
)

func main() {
	var envConf = flag.String("conf", "config/local.yml", "config path, eg: -conf ./config/local.yml")
	flag.Parse()
	conf := config.NewConfig(*envConf)

	logger := log.NewLog(conf)

	app, cleanup, err := wire.NewWire(conf, logger)
	defer cleanup()
	if err != nil {
		panic(err)
	}
	logger.Info("controller start", zap.String("vmrun", conf.GetString("host.vmrun_bin")))
	if err = app.Run(context.Background()); err != nil {
		panic(err)
	}
}
