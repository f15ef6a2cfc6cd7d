package api

import (
	"net/http"

	"github.com/okian/optiwork/pkg/logger"
)

// Option applies a configuration option to the Server.
type Option func(*Server)

// WithVersion sets the version reported by GET /.
func WithVersion(version string) Option {
	return func(s *Server) {
		if version != "" {
			s.version = version
		}
	}
}

// WithCORSOrigins sets the browser origins allowed to call the API.
func WithCORSOrigins(origins []string) Option {
	return func(s *Server) {
		s.corsOrigins = append([]string(nil), origins...)
	}
}

// WithLiveFeed mounts h at GET /ws.
func WithLiveFeed(h http.Handler) Option {
	return func(s *Server) {
		s.liveFeed = h
	}
}

// WithLogger sets a custom logger for the server.
func WithLogger(l logger.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}
