package log

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// DefaultFileName is the base name of the daily log file.
const DefaultFileName = "aarambh-net"

// OpenDailyFile creates dir if needed and opens <dir>/<name>.<YYYY-MM-DD>.log
// for appending. The caller owns the returned file.
func OpenDailyFile(dir, name string) (*os.File, error) {
	return openDailyFileAt(dir, name, time.Now())
}

func openDailyFileAt(dir, name string, now time.Time) (*os.File, error) {
	if name == "" {
		name = DefaultFileName
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("os.MkdirAll(%s): %w", dir, err)
	}

	path := filepath.Join(dir, fmt.Sprintf("%s.%s.log", name, now.Format("2006-01-02")))
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("os.OpenFile(%s): %w", path, err)
	}

	return f, nil
}
