package server

import (
	"context"
	"errors"
	"net"
	"net/http"

	"github.com/rubbishit/backend/internal/config"
)

const maxHeaderBytes = 1 << 20

type Server struct {
	httpServer *http.Server
}

func NewServer(cfg *config.Config, handler http.Handler) *Server {
	return &Server{
		httpServer: &http.Server{
			Addr:              ":" + cfg.HttpServer.Port,
			Handler:           handler,
			ReadTimeout:       cfg.HttpServer.Timeout,
			ReadHeaderTimeout: cfg.HttpServer.Timeout,
			WriteTimeout:      cfg.HttpServer.Timeout,
			IdleTimeout:       cfg.HttpServer.IdleTimeout,
			MaxHeaderBytes:    maxHeaderBytes,
		},
	}
}

// Run blocks until the server stops. It returns http.ErrServerClosed after Stop.
func (s *Server) Run() error {
	return s.httpServer.ListenAndServe()
}

// Serve is Run on an existing listener.
func (s *Server) Serve(l net.Listener) error {
	if l == nil {
		return errors.New("nil listener")
	}
	return s.httpServer.Serve(l)
}

func (s *Server) Stop(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
