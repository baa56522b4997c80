package common

import (
	"fmt"
	"net"
	"strings"
	"time"
)

// --------------------------------------------------------------------------
// Server configuration
// --------------------------------------------------------------------------

// ServerConfig holds all tunables of the server process. It is filled by
// the serve command from flags and environment variables and passed to
// every component at construction time; nothing reads configuration from
// ambient globals.
type ServerConfig struct {
	// TCPAddr is the listen address of the session protocol endpoint.
	TCPAddr string

	// MulticastAddr and UDPPort address the broadcast notification group.
	MulticastAddr string
	UDPPort       int

	// MetricsAddr is the listen address of the metrics/pprof HTTP
	// endpoint. Empty disables it.
	MetricsAddr string

	// DataDir is the JSON snapshot directory.
	DataDir string

	// RankingPeriod is the interval between ranking recomputation passes.
	RankingPeriod time.Duration

	// PersistencePeriod is the interval between data snapshots.
	PersistencePeriod time.Duration

	// ReviewCooldown is the minimum time between two reviews by the same
	// user for the same hotel.
	ReviewCooldown time.Duration

	// ShutdownMaxDelay bounds how long shutdown waits for in-flight
	// sessions before giving up.
	ShutdownMaxDelay time.Duration

	// TCP socket tuning, applied to every accepted connection.
	TCPNoDelay      bool
	TCPKeepAliveSec int

	// LogLevel is one of debug, info, warn, error.
	LogLevel string

	// LogConsole switches from JSON logs to a human-readable format.
	LogConsole bool
}

// Validate checks the configuration for values that cannot work.
func (c *ServerConfig) Validate() error {
	if c.TCPAddr == "" {
		return fmt.Errorf("tcp listen address must not be empty")
	}
	ip := net.ParseIP(c.MulticastAddr)
	if ip == nil || !ip.IsMulticast() {
		return fmt.Errorf("invalid multicast address %q", c.MulticastAddr)
	}
	if c.UDPPort <= 0 || c.UDPPort > 65535 {
		return fmt.Errorf("invalid udp port %d", c.UDPPort)
	}
	if c.DataDir == "" {
		return fmt.Errorf("data directory must not be empty")
	}
	if c.RankingPeriod <= 0 {
		return fmt.Errorf("ranking period must be positive, got %v", c.RankingPeriod)
	}
	if c.PersistencePeriod <= 0 {
		return fmt.Errorf("persistence period must be positive, got %v", c.PersistencePeriod)
	}
	if c.ReviewCooldown < 0 {
		return fmt.Errorf("review cooldown must not be negative, got %v", c.ReviewCooldown)
	}
	return nil
}

// String returns a multi-line dump of the configuration for startup logs.
func (c *ServerConfig) String() string {
	var sb strings.Builder
	sb.WriteString("ServerConfig:\n")
	sb.WriteString(fmt.Sprintf("  TCPAddr:           %s\n", c.TCPAddr))
	sb.WriteString(fmt.Sprintf("  Multicast:         %s:%d\n", c.MulticastAddr, c.UDPPort))
	sb.WriteString(fmt.Sprintf("  MetricsAddr:       %s\n", c.MetricsAddr))
	sb.WriteString(fmt.Sprintf("  DataDir:           %s\n", c.DataDir))
	sb.WriteString(fmt.Sprintf("  RankingPeriod:     %v\n", c.RankingPeriod))
	sb.WriteString(fmt.Sprintf("  PersistencePeriod: %v\n", c.PersistencePeriod))
	sb.WriteString(fmt.Sprintf("  ReviewCooldown:    %v\n", c.ReviewCooldown))
	sb.WriteString(fmt.Sprintf("  ShutdownMaxDelay:  %v\n", c.ShutdownMaxDelay))
	sb.WriteString(fmt.Sprintf("  LogLevel:          %s", c.LogLevel))
	return sb.String()
}

// --------------------------------------------------------------------------
// Client configuration
// --------------------------------------------------------------------------

// ClientConfig holds the tunables of the interactive client.
type ClientConfig struct {
	// ServerAddr is the address of the server's session endpoint.
	ServerAddr string

	// MulticastAddr and UDPPort address the broadcast notification group
	// the client joins to print notices.
	MulticastAddr string
	UDPPort       int

	// DialTimeout bounds the initial connection attempt.
	DialTimeout time.Duration
}

// Validate checks the client configuration.
func (c *ClientConfig) Validate() error {
	if c.ServerAddr == "" {
		return fmt.Errorf("server address must not be empty")
	}
	ip := net.ParseIP(c.MulticastAddr)
	if ip == nil || !ip.IsMulticast() {
		return fmt.Errorf("invalid multicast address %q", c.MulticastAddr)
	}
	if c.UDPPort <= 0 || c.UDPPort > 65535 {
		return fmt.Errorf("invalid udp port %d", c.UDPPort)
	}
	return nil
}

// String returns a multi-line dump of the configuration.
func (c *ClientConfig) String() string {
	return fmt.Sprintf("ClientConfig:\n  ServerAddr: %s\n  Multicast:  %s:%d",
		c.ServerAddr, c.MulticastAddr, c.UDPPort)
}
