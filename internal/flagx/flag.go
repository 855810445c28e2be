// Package flagx lets independent loaders each parse only the command-line
// flags they own, without tripping over flags registered elsewhere.
package flagx

import (
	"flag"
	"io"
	"os"
	"strings"
)

// FilterArgs keeps the arguments from args whose flag name is in allowed,
// preserving order. Both "-f value" and "-f=value" forms are recognised; a
// following token is taken as the value only when it does not start with a
// dash.
func FilterArgs(args []string, allowed []string) []string {
	known := make(map[string]struct{}, len(allowed))
	for _, name := range allowed {
		known[name] = struct{}{}
	}

	out := make([]string, 0, len(args))
	for i := 0; i < len(args); i++ {
		arg := args[i]

		if name, _, found := strings.Cut(arg, "="); found && strings.HasPrefix(arg, "-") {
			if _, ok := known[name]; ok {
				out = append(out, arg)
			}
			continue
		}

		if _, ok := known[arg]; !ok {
			continue
		}
		out = append(out, arg)
		if i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
			out = append(out, args[i+1])
			i++
		}
	}
	return out
}

// lookupString parses os.Args for a single string flag that may be given
// under any of names. The last occurrence wins.
func lookupString(names ...string) string {
	allowed := make([]string, 0, len(names))
	for _, n := range names {
		allowed = append(allowed, "-"+n)
	}

	var value string
	fs := flag.NewFlagSet("lookup", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	for _, n := range names {
		fs.StringVar(&value, n, "", "")
	}
	_ = fs.Parse(FilterArgs(os.Args[1:], allowed))
	return value
}

// ConfigFileFlag returns the JSON config path given via -c or -config, or
// an empty string.
func ConfigFileFlag() string {
	return lookupString("c", "config")
}

// EnvFileFlag returns the dotenv file path given via -env, or an empty
// string.
func EnvFileFlag() string {
	return lookupString("env")
}
