package server

import (
	"context"
	"errors"
	"log/slog"
)

// Shutdown stops accepting requests and then shuts the modules down in
// reverse boot order.
func (s *Server) Shutdown(ctx context.Context) error {
	slog.Info("Shutting down server")
	errs := []error{s.E.Shutdown(ctx)}
	for idx := len(s.modules) - 1; idx >= 0; idx-- {
		if err := s.modules[idx].Shutdown(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
