package shared

import (
	"fmt"
	"net/http"
	"regexp"
	"strconv"
	"strings"

	"aarambh/aarambhnet/pkg/config"
)

var transportRe = regexp.MustCompile(`^(tcp|ws|kcp|udp)://(\[[^\]]*\]|[^:\[\]]*):(\d+)$`)

// ParseTransport parses a transport string in the format "protocol://host:port"
// where protocol is one of tcp, ws, kcp or udp. The host can be empty or "*"
// to bind to all interfaces, IPv6 hosts are written in brackets. Port 0 asks
// for an ephemeral port.
func ParseTransport(s string) (proto config.Protocol, host string, port int, err error) {
	matches := transportRe.FindStringSubmatch(s)
	if len(matches) != 4 {
		err = parsingError(s)
		return
	}

	proto, err = config.ParseProtocol(matches[1])
	if err != nil {
		err = parsingError(s)
		return
	}

	host = strings.TrimSuffix(strings.TrimPrefix(matches[2], "["), "]")
	if host == "*" { // also counts as all interfaces
		host = ""
	}

	port, err = strconv.Atoi(matches[3])
	if err != nil || port < 0 || port > 65535 {
		err = parsingError(s)
		return
	}

	return
}

func parsingError(s string) error {
	return fmt.Errorf("parsing %s: format should be 'protocol://host:port', where protocol = tcp|ws|kcp|udp", s)
}

// ParseHeaders parses "Key: value" strings into a header. Repeated keys keep
// all values in order.
func ParseHeaders(specs []string) (http.Header, error) {
	h := make(http.Header)

	for _, raw := range specs {
		k, v, ok := strings.Cut(raw, ":")
		k = strings.TrimSpace(k)
		if !ok || k == "" || strings.ContainsAny(k, " \t") {
			return nil, fmt.Errorf("parsing header %q: format should be 'Key: value'", raw)
		}
		h.Add(k, strings.TrimSpace(v))
	}

	return h, nil
}
