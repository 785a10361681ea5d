// Package server exposes captures and captured files over HTTP so handles
// can be opened by other processes and machines.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/gin-gonic/gin"

	"github.com/devpospicha/logcap/internal/utils"
)

const shutdownTimeout = 10 * time.Second

// Server wraps the HTTP server for graceful lifecycle.
type Server struct {
	Engine   *gin.Engine
	Addr     string
	CertFile string
	KeyFile  string
	CAFile   string // optional, enables client certificate checks
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	if s.Engine == nil {
		return errors.New("engine not configured")
	}
	srv := &http.Server{
		Addr:              s.Addr,
		Handler:           s.Engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	tlsEnabled := s.CertFile != "" && s.KeyFile != ""
	if tlsEnabled {
		tlsCfg, err := utils.LoadServerTLSConfig(s.CertFile, s.KeyFile, s.CAFile)
		if err != nil {
			return err
		}
		srv.TLSConfig = tlsCfg
	}

	errCh := make(chan error, 1)
	go func() {
		if tlsEnabled {
			errCh <- srv.ListenAndServeTLS("", "")
			return
		}
		errCh <- srv.ListenAndServe()
	}()
	utils.Info("HTTP server listening on %s (tls=%t)", s.Addr, tlsEnabled)

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return errors.Wrap(err, "shutdown http server")
		}
		utils.Info("HTTP server stopped")
		return nil
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return errors.Wrapf(err, "listen on %s", s.Addr)
		}
		return nil
	}
}
