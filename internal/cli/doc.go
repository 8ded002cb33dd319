// Package cli implements the ceed command line: flag parsing, logger setup and
// the subcommands that inspect the backend registry and run a demo problem.
package cli
