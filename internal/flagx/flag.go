// Package flagx splits a command line between several independent parsers.
//
// The client reads its own settings (API address, store path, config file)
// with the standard flag package while the remaining arguments go to the
// command tree. FilterArgs keeps only the flags a parser knows about and
// StripArgs removes them so the next parser never sees them.
package flagx

import (
	"flag"
	"os"
	"strings"
)

// scan walks args and reports, for every argument, whether it belongs to one
// of the allowed flags. A flag given as "-f value" claims the following
// argument too, unless that argument looks like another flag.
func scan(args []string, allowedFlags []string) []bool {
	allowed := make(map[string]struct{}, len(allowedFlags))
	for _, f := range allowedFlags {
		allowed[f] = struct{}{}
	}

	owned := make([]bool, len(args))
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if arg == "--" {
			break
		}

		if strings.HasPrefix(arg, "-") && strings.Contains(arg, "=") {
			name, _, _ := strings.Cut(arg, "=")
			if _, ok := allowed[name]; ok {
				owned[i] = true
			}
			continue
		}

		if _, ok := allowed[arg]; ok {
			owned[i] = true
			if i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
				owned[i+1] = true
				i++
			}
		}
	}
	return owned
}

// FilterArgs returns only the allowed flags (and their values) from args.
//
// Supported forms are "-f value" and "-f=value". The result is never nil.
func FilterArgs(args []string, allowedFlags []string) []string {
	owned := scan(args, allowedFlags)
	filtered := make([]string, 0, len(args))
	for i, arg := range args {
		if owned[i] {
			filtered = append(filtered, arg)
		}
	}
	return filtered
}

// StripArgs is the complement of FilterArgs: it returns args without the
// allowed flags and their values, preserving order.
func StripArgs(args []string, allowedFlags []string) []string {
	owned := scan(args, allowedFlags)
	rest := make([]string, 0, len(args))
	for i, arg := range args {
		if !owned[i] {
			rest = append(rest, arg)
		}
	}
	return rest
}

// ConfigFileFlags are the flags that select a configuration file.
var ConfigFileFlags = []string{"-c", "-config"}

// ConfigFileFlag extracts the configuration file path given with -c or
// -config from os.Args. It returns "" when neither is present.
func ConfigFileFlag() string {
	var path string

	fs := flag.NewFlagSet("config-file", flag.ContinueOnError)
	fs.StringVar(&path, "config", "", "path to config file")
	fs.StringVar(&path, "c", "", "path to config file (short)")
	_ = fs.Parse(FilterArgs(os.Args[1:], ConfigFileFlags))

	return path
}
