package web

import (
	"fmt"
	"net"
	"os"
	"strconv"
)

const (
	EnvListenAddr = "MANDELVIEW_LISTEN"
	EnvDevMode    = "MANDELVIEW_DEV"

	DefaultListenAddr = ":8080"
)

// ServerConfig contains settings for running the HTTP server.
// An empty ListenAddr disables the server.
type ServerConfig struct {
	ListenAddr string
	DevMode    bool
}

func DefaultServerConfigFromEnv(defaultListenAddr string) (ServerConfig, error) {
	listenAddr, ok := os.LookupEnv(EnvListenAddr)
	if !ok {
		listenAddr = defaultListenAddr
	}

	devMode := false
	if raw := os.Getenv(EnvDevMode); raw != "" {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			return ServerConfig{}, fmt.Errorf("%s must be a boolean (got %q): %w", EnvDevMode, raw, err)
		}
		devMode = parsed
	}

	return ServerConfig{ListenAddr: listenAddr, DevMode: devMode}, nil
}

// ControlURL guesses the URL a phone on the same network would open.
// hostIP is used when the listen address has no host part.
func (c ServerConfig) ControlURL(hostIP string) string {
	if c.ListenAddr == "" {
		return ""
	}
	host, port, err := net.SplitHostPort(c.ListenAddr)
	if err != nil {
		return ""
	}
	if host == "" || host == "0.0.0.0" || host == "::" {
		host = hostIP
	}
	if host == "" {
		host = "localhost"
	}
	return "http://" + net.JoinHostPort(host, port) + "/"
}
