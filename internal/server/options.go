package server

import (
	"log"
	"time"

	"github.com/agbru/fourcalc/internal/logging"
	"github.com/agbru/fourcalc/internal/service"
)

// Option configures a Server at construction time. Options run in order
// after the defaults are in place, so a later option wins.
type Option func(*Server)

// WithLogger replaces the zerolog-backed default logger. A nil logger is
// ignored.
func WithLogger(logger logging.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithStdLogger is WithLogger for a *log.Logger.
func WithStdLogger(logger *log.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logging.NewStdLoggerAdapter(logger)
		}
	}
}

// WithService swaps the coefficient service behind /coefficient. Tests use
// it to inject failures without running a quadrature rule.
func WithService(svc service.Service) Option {
	return func(s *Server) {
		if svc != nil {
			s.service = svc
		}
	}
}

// WithTimeouts overrides the server timeouts. A zero field keeps the value
// already set, usually the one from DefaultServerTimeouts.
func WithTimeouts(timeouts Timeouts) Option {
	return func(s *Server) {
		s.timeouts = timeouts.orElse(s.timeouts)
	}
}

// Timeouts bounds every phase of a request. RequestTimeout caps the
// evaluation of one coefficient and is enforced through the request
// context; the other fields go straight to http.Server.
type Timeouts struct {
	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
}

// DefaultServerTimeouts returns the timeouts used when none are configured.
// WriteTimeout exceeds RequestTimeout so that a timed-out evaluation can
// still report its error.
func DefaultServerTimeouts() Timeouts {
	return Timeouts{
		RequestTimeout:  30 * time.Second,
		ShutdownTimeout: 30 * time.Second,
		ReadTimeout:     10 * time.Second,
		WriteTimeout:    time.Minute,
		IdleTimeout:     2 * time.Minute,
	}
}

// orElse fills the zero fields of t from fallback.
func (t Timeouts) orElse(fallback Timeouts) Timeouts {
	pick := func(d, def time.Duration) time.Duration {
		if d > 0 {
			return d
		}
		return def
	}
	return Timeouts{
		RequestTimeout:  pick(t.RequestTimeout, fallback.RequestTimeout),
		ShutdownTimeout: pick(t.ShutdownTimeout, fallback.ShutdownTimeout),
		ReadTimeout:     pick(t.ReadTimeout, fallback.ReadTimeout),
		WriteTimeout:    pick(t.WriteTimeout, fallback.WriteTimeout),
		IdleTimeout:     pick(t.IdleTimeout, fallback.IdleTimeout),
	}
}
