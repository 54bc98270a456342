//go:build windows

package neterr

import (
	"errors"
	"syscall"

	"golang.org/x/sys/windows"
)

// WSAEADDRINUSE
const errAddrInUse = syscall.Errno(10048)

func isAddrInUse(err error) bool {
	return errors.Is(err, errAddrInUse)
}

func isPermissionDenied(err error) bool {
	return errors.Is(err, windows.WSAEACCES) || errors.Is(err, windows.ERROR_ACCESS_DENIED)
}
