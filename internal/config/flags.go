package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/pods/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-d string   PostgreSQL DSN of the shared store
//	-s string   state directory for the session files
//	-p int      fallback poll interval in seconds
//
// The function filters os.Args to only include the flags it knows about,
// using flagx.FilterArgs, to avoid interference with other components.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-d", "-s", "-p"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.DatabaseDSN, "d", cfg.DatabaseDSN, "PostgreSQL DSN of the shared store")
	fs.StringVar(&cfg.StateDir, "s", cfg.StateDir, "state directory for session files")
	pollSeconds := fs.Int("p", int(cfg.PollInterval.Seconds()), "fallback poll interval (in seconds)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.PollInterval = time.Duration(*pollSeconds) * time.Second
}
