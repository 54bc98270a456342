// Package format renders addresses and payloads for logs and dialing.
package format

import (
	"net"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Addr joins host and port, bracketing IPv6 hosts.
func Addr(host string, port int) string {
	return net.JoinHostPort(host, strconv.Itoa(port))
}

// maxPayloadRunes bounds how much of a payload ends up in a log line.
const maxPayloadRunes = 64

// Payload renders b as text for logging. Invalid UTF-8 is replaced with
// U+FFFD and long payloads are cut after maxPayloadRunes runes.
func Payload(b []byte) string {
	s := strings.ToValidUTF8(string(b), "�")
	if utf8.RuneCountInString(s) <= maxPayloadRunes {
		return s
	}

	runes := []rune(s)
	return string(runes[:maxPayloadRunes]) + "..."
}
