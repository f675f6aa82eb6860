package config

import (
	"flag"
	"io"
	"os"
	"time"

	"github.com/ecosync/ecosync/internal/flagx"
)

// Flags lists every flag owned by this package, config file flags included.
// The command tree receives os.Args with these stripped.
var Flags = append([]string{"-a", "-host", "-db", "-i", "-t", "-log"}, flagx.ConfigFileFlags...)

// parseFlags populates selected Config fields from command-line flags.
//
//	-a string     API base URL (overrides -host)
//	-host string  hostname used to pick local or production backend
//	-db string    session store path
//	-i int        online check interval in seconds (0 disables)
//	-t int        request timeout in seconds (0 means none)
//	-log string   log level
func parseFlags(cfg *Config) error {
	args := flagx.FilterArgs(os.Args[1:], Flags)

	fs := flag.NewFlagSet("ecosync", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.APIBaseURL, "a", cfg.APIBaseURL, "API base URL")
	fs.StringVar(&cfg.Host, "host", cfg.Host, "hostname used to select the backend")
	fs.StringVar(&cfg.StorePath, "db", cfg.StorePath, "session store path")
	interval := fs.Int("i", int(cfg.OnlineCheckInterval.Seconds()), "online check interval (in seconds)")
	timeout := fs.Int("t", int(cfg.RequestTimeout.Seconds()), "request timeout (in seconds)")
	fs.StringVar(&cfg.LogLevel, "log", cfg.LogLevel, "log level")
	// config file flags are consumed by parseFile
	fs.String("c", "", "path to config file")
	fs.String("config", "", "path to config file")

	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg.OnlineCheckInterval = time.Duration(*interval) * time.Second
	cfg.RequestTimeout = time.Duration(*timeout) * time.Second
	return nil
}
