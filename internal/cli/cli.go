package cli

import (
	"flag"
	"fmt"
	"io"
	"strings"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// Options holds the parsed command line.
type Options struct {
	ConfigPath string
	LogLevel   string // Empty keeps the configured level.
	LogFormat  string // Empty keeps the configured format.
	Command    string
	Args       []string
}

// Parse processes command-line arguments. It returns the parsed Options, a
// boolean indicating if the program should exit cleanly, or an ExitError.
func Parse(args []string, output io.Writer) (*Options, bool, error) {
	flagSet := flag.NewFlagSet("ceed", flag.ContinueOnError)
	flagSet.SetOutput(output)

	flagSet.Usage = func() {
		fmt.Fprint(output, `
ceed - Backend registry and delegation runtime for discretization kernels.

Usage:
  ceed [options] <command> [arguments]

Commands:
  version               Show version
  backends              List registered backends
  resolve <resource>    Show the backend selected for a resource
  info <resource>       Create a context and show its delegate chain
  run <resource> [n]    Compute the length of [0,1] with n linear elements

Options:
`)
		flagSet.PrintDefaults()
	}

	configFlag := flagSet.String("config", "ceed.hcl", "Path to the HCL configuration file.")
	logFormatFlag := flagSet.String("log-format", "", "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", "", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	if flagSet.NArg() == 0 {
		flagSet.Usage()
		return nil, true, nil
	}

	logFormat := strings.ToLower(*logFormatFlag)
	switch logFormat {
	case "", "text", "json":
	default:
		return nil, false, &ExitError{Code: 2, Message: "invalid log-format: must be 'text' or 'json'"}
	}

	logLevel := strings.ToLower(*logLevelFlag)
	switch logLevel {
	case "", "debug", "info", "warn", "error":
	default:
		return nil, false, &ExitError{Code: 2, Message: "invalid log-level: must be 'debug', 'info', 'warn', or 'error'"}
	}

	return &Options{
		ConfigPath: *configFlag,
		LogLevel:   logLevel,
		LogFormat:  logFormat,
		Command:    flagSet.Arg(0),
		Args:       flagSet.Args()[1:],
	}, false, nil
}
