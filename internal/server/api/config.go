package api

import "time"

// ServerConfig configures the control API.
type ServerConfig struct {
	Addr           string        `help:"Control API listen address; empty disables the API" default:"" env:"PADLINK_API_ADDR"`
	NoAuth         bool          `help:"Accept connections without the password handshake" env:"PADLINK_API_NO_AUTH"`
	RequestTimeout time.Duration `help:"Time a client has to send its request line" default:"5s" env:"PADLINK_API_REQUEST_TIMEOUT"`
	Password       string        `kong:"-"`
}
