package app

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"vmxsphere/pkg/server"
)

type App struct {
	name    string
	servers []server.Server
}

type Option func(a *App)

func NewApp(opts ...Option) *App {
	a := &App{}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

func WithServer(servers ...server.Server) Option {
	return func(a *App) {
		a.servers = servers
	}
}

func WithName(name string) Option {
	return func(a *App) {
		a.name = name
	}
}

func (a *App) Name() string {
	return a.name
}

func (a *App) Run(ctx context.Context) error {
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)

	// 启动所有服务器
	for _, srv := range a.servers {
		go func(srv server.Server) {
			err := srv.Start(ctx)
			if err != nil {
				log.Fatalf("Server start err: %v", err)
			}
		}(srv)
	}

	// 等待中断信号
	select {
	case <-signals:
		// 收到中断信号，开始优雅关闭
		log.Println("Received termination signal")
	case <-ctx.Done():
		log.Println("Context canceled")
	}

	// 给每个服务器一定时间进行优雅关闭
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	for _, srv := range a.servers {
		err := srv.Stop(shutdownCtx)
		if err != nil {
			log.Printf("Server stop err: %v", err)
		}
	}

	return nil
}
