package config

import (
	"net"
	"strings"
	"time"
)

const defaultPort = "5000"

// HTTPConfig contains HTTP server configuration.
type HTTPConfig struct {
	// Port is the TCP port to listen on when Addr is not set.
	Port string `env:"PORT" envDefault:"5000"`

	// Addr is an optional full bind address (e.g. "127.0.0.1:8080") that takes precedence over Port.
	Addr string `env:"HTTP_ADDR"`

	// AllowedOrigins lists the CORS origins permitted to call the API.
	// The default "*" permits every origin.
	AllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envDefault:"*" envSeparator:","`

	ReadTimeout     time.Duration `env:"HTTP_READ_TIMEOUT"     envDefault:"30s"`
	WriteTimeout    time.Duration `env:"HTTP_WRITE_TIMEOUT"    envDefault:"30s"`
	IdleTimeout     time.Duration `env:"HTTP_IDLE_TIMEOUT"     envDefault:"120s"`
	ShutdownTimeout time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT" envDefault:"10s"`
}

// Sanitize applies guardrails to HTTP configuration values.
func (h *HTTPConfig) Sanitize() {
	h.Port = strings.TrimPrefix(strings.TrimSpace(h.Port), ":")
	if h.Port == "" {
		h.Port = defaultPort
	}
	h.Addr = strings.TrimSpace(h.Addr)

	origins := make([]string, 0, len(h.AllowedOrigins))
	for _, o := range h.AllowedOrigins {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	h.AllowedOrigins = origins

	if h.ReadTimeout <= 0 {
		h.ReadTimeout = 30 * time.Second
	}
	if h.WriteTimeout <= 0 {
		h.WriteTimeout = 30 * time.Second
	}
	if h.IdleTimeout <= 0 {
		h.IdleTimeout = 120 * time.Second
	}
	if h.ShutdownTimeout <= 0 {
		h.ShutdownTimeout = 10 * time.Second
	}
}

// Address returns the address the HTTP server binds to.
func (h *HTTPConfig) Address() string {
	if h.Addr != "" {
		return h.Addr
	}
	port := h.Port
	if port == "" {
		port = defaultPort
	}
	return net.JoinHostPort("", port)
}
