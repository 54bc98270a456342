package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// File is the optional TOML file with defaults for the command line.
// Values given as flags take precedence.
//
//	[server]
//	buffer_size = 1024
//	max_conns   = 0
//	timeout     = "10s"
//	verbose     = false
//	log_dir     = "logs"
//
//	[http]
//	base_url = "https://httpbin.org"
//	[http.headers]
//	Accept = "application/json"
type File struct {
	Server ServerSection `toml:"server"`
	HTTP   HTTPSection   `toml:"http"`
}

// ServerSection holds server defaults.
type ServerSection struct {
	BufferSize int    `toml:"buffer_size"`
	MaxConns   int    `toml:"max_conns"`
	Timeout    string `toml:"timeout"`
	Verbose    bool   `toml:"verbose"`
	LogDir     string `toml:"log_dir"`
}

// HTTPSection holds defaults of the HTTP client.
type HTTPSection struct {
	BaseURL string            `toml:"base_url"`
	Headers map[string]string `toml:"headers"`
}

// LoadFile decodes the TOML file at path. Unknown keys are an error so typos
// do not go unnoticed.
func LoadFile(path string) (*File, error) {
	var f File
	meta, err := toml.DecodeFile(path, &f)
	if err != nil {
		return nil, fmt.Errorf("toml.DecodeFile(%s): %w", path, err)
	}

	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		return nil, fmt.Errorf("%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}

	if _, err := f.Server.GetTimeout(); err != nil {
		return nil, fmt.Errorf("%s: server.timeout: %w", path, err)
	}

	return &f, nil
}

// GetTimeout parses the timeout string. An empty string is zero.
func (s ServerSection) GetTimeout() (time.Duration, error) {
	if s.Timeout == "" {
		return 0, nil
	}
	return time.ParseDuration(s.Timeout)
}
