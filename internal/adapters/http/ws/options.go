package ws

import (
	"net/http"
	"time"

	"github.com/okian/optiwork/pkg/logger"
)

// Option applies a configuration option to the Hub.
type Option func(*Hub)

// WithPingInterval sets how often clients are pinged. The read deadline is
// derived from it.
func WithPingInterval(d time.Duration) Option {
	return func(h *Hub) {
		if d > 0 {
			h.pingPeriod = d
		}
	}
}

// WithOriginCheck sets the handshake origin policy.
func WithOriginCheck(check func(r *http.Request) bool) Option {
	return func(h *Hub) {
		if check != nil {
			h.upgrader.CheckOrigin = check
		}
	}
}

// WithGreeting sets the payload of the hello message sent on connect.
func WithGreeting(greet func() any) Option {
	return func(h *Hub) {
		if greet != nil {
			h.greet = greet
		}
	}
}

// WithLogger sets a custom logger for the hub.
func WithLogger(l logger.Logger) Option {
	return func(h *Hub) {
		if l != nil {
			h.logger = l
		}
	}
}
