package server

import (
	"context"
	"vmxsphere/internal/controller"
	"vmxsphere/pkg/log"
)

type ControllerServer struct {
	controller *controller.HostController
	log        *log.Logger
}

func NewControllerServer(
	log *log.Logger,
	hostController *controller.HostController,
) *ControllerServer {
	return &ControllerServer{
		controller: hostController,
		log:        log,
	}
}

func (s *ControllerServer) Start(ctx context.Context) error {
	s.log.Info("starting controller server")
	return s.controller.Start(ctx)
}

func (s *ControllerServer) Stop(ctx context.Context) error {
	s.log.Info("stopping controller server")
	return s.controller.Stop(ctx)
}
