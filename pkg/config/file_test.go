package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "aarambhnet.toml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	return path
}

func TestLoadFile(t *testing.T) {
	t.Parallel()

	path := writeFile(t, `
[server]
buffer_size = 2048
max_conns = 5
timeout = "3s"
verbose = true
log_dir = "logs"

[http]
base_url = "https://httpbin.org"

[http.headers]
Accept = "application/json"
X-Trace = "on"
`)

	f, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}

	if f.Server.BufferSize != 2048 || f.Server.MaxConns != 5 || !f.Server.Verbose || f.Server.LogDir != "logs" {
		t.Errorf("server section = %+v", f.Server)
	}
	if d, err := f.Server.GetTimeout(); err != nil || d != 3*time.Second {
		t.Errorf("GetTimeout() = %v, %v; want 3s", d, err)
	}
	if f.HTTP.BaseURL != "https://httpbin.org" {
		t.Errorf("base_url = %q", f.HTTP.BaseURL)
	}
	if f.HTTP.Headers["Accept"] != "application/json" || f.HTTP.Headers["X-Trace"] != "on" {
		t.Errorf("headers = %v", f.HTTP.Headers)
	}
}

func TestLoadFile_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{"unknown key", "[server]\nbufer_size = 1\n", "unknown keys: server.bufer_size"},
		{"bad timeout", "[server]\ntimeout = \"soon\"\n", "server.timeout"},
		{"bad syntax", "[server\n", "toml.DecodeFile"},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			_, err := LoadFile(writeFile(t, tc.content))
			if err == nil || !strings.Contains(err.Error(), tc.wantErr) {
				t.Errorf("LoadFile() error = %v; want containing %q", err, tc.wantErr)
			}
		})
	}
}

func TestLoadFile_Missing(t *testing.T) {
	t.Parallel()

	if _, err := LoadFile(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
		t.Error("LoadFile() of a missing file should fail")
	}
}

func TestServerSection_EmptyTimeout(t *testing.T) {
	t.Parallel()

	if d, err := (ServerSection{}).GetTimeout(); d != 0 || err != nil {
		t.Errorf("GetTimeout() = %v, %v; want 0, nil", d, err)
	}
}
