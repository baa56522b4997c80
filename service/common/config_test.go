package common

import (
	"testing"
	"time"
)

func validServerConfig() ServerConfig {
	return ServerConfig{
		TCPAddr:           "0.0.0.0:9999",
		MulticastAddr:     "239.255.32.32",
		UDPPort:           9998,
		DataDir:           "data",
		RankingPeriod:     5 * time.Second,
		PersistencePeriod: 5 * time.Second,
		ReviewCooldown:    10 * time.Second,
		ShutdownMaxDelay:  time.Second,
		LogLevel:          "info",
	}
}

// TestServerConfigValidate exercises the validation rules.
func TestServerConfigValidate(t *testing.T) {
	cfg := validServerConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("valid config rejected: %v", err)
	}

	mutations := map[string]func(*ServerConfig){
		"empty tcp addr":      func(c *ServerConfig) { c.TCPAddr = "" },
		"unicast group":       func(c *ServerConfig) { c.MulticastAddr = "10.0.0.1" },
		"garbage group":       func(c *ServerConfig) { c.MulticastAddr = "not-an-ip" },
		"zero udp port":       func(c *ServerConfig) { c.UDPPort = 0 },
		"huge udp port":       func(c *ServerConfig) { c.UDPPort = 70000 },
		"empty data dir":      func(c *ServerConfig) { c.DataDir = "" },
		"zero ranking period": func(c *ServerConfig) { c.RankingPeriod = 0 },
		"zero persistence":    func(c *ServerConfig) { c.PersistencePeriod = 0 },
		"negative cooldown":   func(c *ServerConfig) { c.ReviewCooldown = -time.Second },
	}
	for name, mutate := range mutations {
		c := validServerConfig()
		mutate(&c)
		if err := c.Validate(); err == nil {
			t.Errorf("%s: expected validation error", name)
		}
	}
}

// TestClientConfigValidate exercises the client-side rules.
func TestClientConfigValidate(t *testing.T) {
	cfg := ClientConfig{
		ServerAddr:    "localhost:9999",
		MulticastAddr: "239.255.32.32",
		UDPPort:       9998,
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("valid config rejected: %v", err)
	}

	cfg.ServerAddr = ""
	if err := cfg.Validate(); err == nil {
		t.Error("empty server address accepted")
	}
}

// TestParseLogLevel pins the accepted level names and the fallback.
func TestParseLogLevel(t *testing.T) {
	cases := map[string]string{
		"debug":   "debug",
		"INFO":    "info",
		"warn":    "warn",
		"warning": "warn",
		"error":   "error",
		"bogus":   "info",
	}
	for input, want := range cases {
		if got := parseLogLevel(input).String(); got != want {
			t.Errorf("parseLogLevel(%q) = %s, want %s", input, got, want)
		}
	}
}
