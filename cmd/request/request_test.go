package request

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"aarambh/aarambhnet/pkg/httpclient"
)

func TestGetCommand(t *testing.T) {
	t.Parallel()

	cmd := GetCommand()
	if cmd.Name != "http" {
		t.Errorf("command name = %q; want %q", cmd.Name, "http")
	}
	if cmd.Action == nil {
		t.Error("command action should not be nil")
	}

	flagNames := make(map[string]bool)
	for _, flag := range getFlags() {
		if names := flag.Names(); len(names) > 0 {
			flagNames[names[0]] = true
		}
	}
	for _, name := range []string{"verbose", "config", "header", "data"} {
		if !flagNames[name] {
			t.Errorf("expected flag %q not found", name)
		}
	}
}

func TestParseArgs(t *testing.T) {
	t.Parallel()

	tests := []struct {
		args        []string
		defaultBase string
		method      string
		base        string
		endpoint    string
		err         bool
	}{
		{args: []string{"get", "https://example.com", "/get"}, method: "GET", base: "https://example.com", endpoint: "/get"},
		{args: []string{"PATCH", "https://example.com", "/x"}, method: "PATCH", base: "https://example.com", endpoint: "/x"},
		{args: []string{"head", "/only"}, defaultBase: "https://cfg.example", method: "HEAD", base: "https://cfg.example", endpoint: "/only"},
		{args: []string{"get", "https://example.com", "/get"}, defaultBase: "https://cfg.example", method: "GET", base: "https://example.com", endpoint: "/get"},

		{args: []string{"get", "/only"}, err: true},
		{args: []string{"get"}, err: true},
		{args: []string{}, err: true},
		{args: []string{"options", "https://example.com", "/"}, err: true},
	}

	for _, tc := range tests {
		method, base, endpoint, err := parseArgs(tc.args, tc.defaultBase)
		if (err != nil) != tc.err {
			t.Errorf("parseArgs(%v) err = %v; want err=%t", tc.args, err, tc.err)
			continue
		}
		if err != nil {
			continue
		}
		if method != tc.method || base != tc.base || endpoint != tc.endpoint {
			t.Errorf("parseArgs(%v) = %s %s %s; want %s %s %s", tc.args, method, base, endpoint, tc.method, tc.base, tc.endpoint)
		}
	}
}

func TestSend_AllMethods(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		w.Header().Set("X-Method", r.Method)
		io.WriteString(w, r.Method+" "+r.URL.Path+" "+string(body)+" "+r.Header.Get("X-Test"))
	}))
	defer srv.Close()

	c, err := httpclient.New(srv.URL, nil)
	if err != nil {
		t.Fatalf("httpclient.New() error = %v", err)
	}

	for _, method := range methods {
		headers := http.Header{}
		headers.Set("X-Test", "yes")

		resp, err := send(context.Background(), c, method, "/path", headers, strings.NewReader("payload"))
		if err != nil {
			t.Fatalf("send(%s) error = %v", method, err)
		}
		got, _ := io.ReadAll(resp.Body)
		resp.Body.Close()

		if resp.Header.Get("X-Method") != method {
			t.Errorf("send(%s) reached server as %s", method, resp.Header.Get("X-Method"))
		}
		if method == http.MethodHead {
			continue
		}

		want := method + " /path "
		switch method {
		case http.MethodPost, http.MethodPut, http.MethodPatch:
			want += "payload"
		}
		want += " yes"
		if string(got) != want {
			t.Errorf("send(%s) body = %q; want %q", method, got, want)
		}
	}
}

func TestPrintResponse(t *testing.T) {
	t.Parallel()

	resp := &http.Response{
		Proto:  "HTTP/1.1",
		Status: "200 OK",
		Header: http.Header{"Content-Type": []string{"text/plain"}},
		Body:   io.NopCloser(strings.NewReader("hello body")),
	}

	var out bytes.Buffer
	if err := printResponse(resp, nil, &out); err != nil {
		t.Fatalf("printResponse() error = %v", err)
	}
	if out.String() != "hello body" {
		t.Errorf("output = %q", out.String())
	}
}
