package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"evocpi/internal"
	"evocpi/internal/config"
	"evocpi/utility"
)

// Server owns the partner facing HTTP listener
type Server struct {
	conf       *config.Config
	httpServer *http.Server
	logger     internal.LogHandler
}

func NewServer(conf *config.Config, handler http.Handler, logger internal.LogHandler) *Server {
	return &Server{
		conf:   conf,
		logger: logger,
		httpServer: &http.Server{
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
		},
	}
}

// Start blocks while serving; a regular shutdown is not an error
func (s *Server) Start() error {
	if s.conf == nil {
		return utility.Err("configuration not loaded")
	}
	serverAddress := fmt.Sprintf("%s:%s", s.conf.Listen.BindIP, s.conf.Listen.Port)
	s.logger.Debug(fmt.Sprintf("starting server on %s", serverAddress))
	listener, err := net.Listen("tcp", serverAddress)
	if err != nil {
		return err
	}
	if s.conf.Listen.TLS {
		s.logger.Debug("starting https TLS server")
		err = s.httpServer.ServeTLS(listener, s.conf.Listen.CertFile, s.conf.Listen.KeyFile)
	} else {
		s.logger.Debug("starting http server")
		err = s.httpServer.Serve(listener)
	}
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
