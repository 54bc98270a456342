package shared

import (
	"fmt"
	"time"

	"aarambh/aarambhnet/pkg/config"
	"aarambh/aarambhnet/pkg/log"

	"github.com/urfave/cli/v3"
)

// Env is what every command needs after flag parsing: the file defaults and
// a logger, possibly writing to a daily log file.
type Env struct {
	File   *config.File
	Logger *log.Logger

	closeLog func() error
}

// Close closes the daily log file, if one was opened.
func (e *Env) Close() {
	if e.closeLog != nil {
		e.closeLog()
	}
}

// Setup loads the file named by --config and builds the logger. Verbose
// output and the log directory can come from the flags or the file.
func Setup(cmd *cli.Command) (*Env, error) {
	env := &Env{File: &config.File{}}

	if path := cmd.String(ConfigFlag); path != "" {
		f, err := config.LoadFile(path)
		if err != nil {
			return nil, fmt.Errorf("loading config: %w", err)
		}
		env.File = f
	}

	verbose := cmd.Bool(VerboseFlag) || env.File.Server.Verbose
	env.Logger = log.NewLogger(verbose)

	dir := cmd.String(LogDirFlag)
	if dir == "" {
		dir = env.File.Server.LogDir
	}
	if dir != "" {
		f, err := log.OpenDailyFile(dir, log.DefaultFileName)
		if err != nil {
			return nil, fmt.Errorf("opening log file: %w", err)
		}
		env.Logger.SetSink(f)
		env.closeLog = f.Close
		env.Logger.VerboseMsg("Logging to %s", f.Name())
	}

	return env, nil
}

// Int returns the value of an int flag, falling back to fileVal when the
// flag was not given and fileVal is set.
func Int(cmd *cli.Command, name string, fileVal int) int {
	if !cmd.IsSet(name) && fileVal != 0 {
		return fileVal
	}
	return int(cmd.Int(name))
}

// Timeout returns the --timeout flag, falling back to the file's
// server.timeout when the flag was not given.
func Timeout(cmd *cli.Command, file *config.File) time.Duration {
	if !cmd.IsSet(TimeoutFlag) && file.Server.Timeout != "" {
		if d, err := file.Server.GetTimeout(); err == nil {
			return d
		}
	}
	return time.Duration(cmd.Int(TimeoutFlag)) * time.Millisecond
}

// ReportValidation logs every validation error and returns an error if there
// was at least one.
func ReportValidation(errors []error) error {
	if len(errors) == 0 {
		return nil
	}

	log.ErrorMsg("Argument validation errors:\n")
	for _, err := range errors {
		log.ErrorMsg(" - %s\n", err)
	}
	return fmt.Errorf("exiting")
}
