package tcp

import (
	"net"

	"aarambh/aarambhnet/pkg/config"
	"aarambh/aarambhnet/pkg/neterr"
)

// Listen opens a TCP listener on addr. The address is resolved first so
// malformed addresses fail before any socket exists.
// The deps parameter is optional and can be nil to use default implementations.
func Listen(addr string, deps *config.Dependencies) (net.Listener, error) {
	tcpAddr, err := net.ResolveTCPAddr("tcp", addr)
	if err != nil {
		return nil, neterr.InvalidAddress("tcp", addr, err)
	}

	listenerFn := config.GetTCPListenerFunc(deps)
	nl, err := listenerFn("tcp", tcpAddr)
	if err != nil {
		return nil, neterr.NewBindError("tcp", addr, err)
	}

	return nl, nil
}
