package beacon

import (
	"os"
	"time"

	"gopkg.in/yaml.v2"
)

type Config struct {
	// Port number reported to the tracker as the peer listen port.
	// Accepting peer connections is not this engine's job; the value comes
	// from whoever owns the listener.
	Port int

	// Time to wait for an announce request to complete.
	HTTPTimeout time.Duration `yaml:"http_timeout"`

	// User agent sent in announce requests.
	UserAgent string `yaml:"user_agent"`

	// Max number of bytes read from an announce response body.
	MaxResponseLength int64 `yaml:"max_response_length"`

	// Time to wait for announcing the stopped event.
	// The stopped event is sent to the tracker when a session is stopped.
	StoppedEventTimeout time.Duration `yaml:"stopped_event_timeout"`

	// Max number of peer addresses kept per session for callers that use
	// the built-in peer list sink.
	MaxPeerAddresses int `yaml:"max_peer_addresses"`

	RPC struct {
		Host string
		Port int
	}
}

var DefaultConfig = Config{
	Port:                6881,
	HTTPTimeout:         30 * time.Second,
	UserAgent:           "beacon/" + Version,
	MaxResponseLength:   2 * 1024 * 1024,
	StoppedEventTimeout: 5 * time.Second,
	MaxPeerAddresses:    2000,
}

func init() {
	DefaultConfig.RPC.Host = "127.0.0.1"
	DefaultConfig.RPC.Port = 7357
}

// LoadConfig reads a YAML config from filename. A missing file is not an
// error; defaults are returned.
func LoadConfig(filename string) (*Config, error) {
	c := DefaultConfig
	b, err := os.ReadFile(filename)
	if os.IsNotExist(err) {
		return &c, nil
	}
	if err != nil {
		return nil, err
	}
	if err = yaml.Unmarshal(b, &c); err != nil {
		return nil, err
	}
	return &c, nil
}
