// Package flagx helps several components share one command line: each
// component picks out only the flags it understands before parsing them.
package flagx

import (
	"flag"
	"os"
	"strings"
)

// flagName strips one or two leading dashes: "--config" and "-config" both
// yield "config". Non-flag tokens return "".
func flagName(arg string) string {
	if !strings.HasPrefix(arg, "-") || arg == "-" || arg == "--" {
		return ""
	}
	name := strings.TrimPrefix(strings.TrimPrefix(arg, "-"), "-")
	if i := strings.IndexByte(name, '='); i >= 0 {
		name = name[:i]
	}
	return name
}

func nameSet(flags []string) map[string]struct{} {
	set := make(map[string]struct{}, len(flags))
	for _, f := range flags {
		if name := flagName(f); name != "" {
			set[name] = struct{}{}
			continue
		}
		set[f] = struct{}{}
	}
	return set
}

// FilterArgs returns the subset of args holding the allowed flags and their
// values. A flag matches in its single- or double-dash form.
//
// Supported formats:
//  1. Flag and value as separate arguments:  -c conf.json
//  2. Flag and value combined with '=':      --config=conf.json
//
// Flags listed in bools never consume the following argument.
func FilterArgs(args []string, allowed []string, bools ...string) []string {
	allowedSet := nameSet(allowed)
	boolSet := nameSet(bools)

	filtered := make([]string, 0, len(args))

	for i := 0; i < len(args); i++ {
		arg := args[i]
		name := flagName(arg)
		if name == "" {
			continue
		}
		if _, ok := allowedSet[name]; !ok {
			continue
		}

		filtered = append(filtered, arg)
		if strings.Contains(arg, "=") {
			continue
		}
		if _, ok := boolSet[name]; ok {
			continue
		}
		if i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
			filtered = append(filtered, args[i+1])
			i++
		}
	}

	return filtered
}

// Positionals returns the arguments that are neither flags nor values of
// flags listed in valueFlags. Everything after a bare "--" is positional.
func Positionals(args []string, valueFlags []string) []string {
	valueSet := nameSet(valueFlags)
	out := make([]string, 0, len(args))

	for i := 0; i < len(args); i++ {
		arg := args[i]
		if arg == "--" {
			return append(out, args[i+1:]...)
		}
		name := flagName(arg)
		if name == "" {
			out = append(out, arg)
			continue
		}
		if strings.Contains(arg, "=") {
			continue
		}
		if _, ok := valueSet[name]; ok && i+1 < len(args) {
			i++
		}
	}

	return out
}

// ConfigPath extracts the config file path given via -c or -config from args.
// Other arguments are ignored. Returns "" when neither flag is present.
func ConfigPath(args []string) string {
	var config string

	filtered := FilterArgs(args, []string{"c", "config"})

	fs := flag.NewFlagSet("json", flag.ContinueOnError)
	fs.StringVar(&config, "config", "", "Path to config file")
	fs.StringVar(&config, "c", "", "Path to config file (short)")
	_ = fs.Parse(filtered)

	return config
}

// JsonConfigFlags is ConfigPath applied to os.Args.
func JsonConfigFlags() string {
	return ConfigPath(os.Args[1:])
}
