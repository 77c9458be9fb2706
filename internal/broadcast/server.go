package broadcast

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"
)

// FramesPath is where clients connect.
const FramesPath = "/frames"

// Serve listens on addr and serves the hub at FramesPath until ctx is
// canceled. It returns the bound address once listening so callers can
// report it; serving continues in the background.
func Serve(ctx context.Context, hub *Hub, addr string) (net.Addr, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("failed to listen on %s: %w", addr, err)
	}

	mux := http.NewServeMux()
	mux.Handle(FramesPath, hub.Handler())
	srv := &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			hub.logger.Error("frame server stopped", "error", err)
		}
	}()
	go func() {
		<-ctx.Done()
		hub.Close()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	hub.logger.Info("serving presentation frames", "addr", ln.Addr().String(), "path", FramesPath)
	return ln.Addr(), nil
}
