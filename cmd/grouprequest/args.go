package main

import (
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

// legacyFlags are long flags historically written with a single dash.
var legacyFlags = []string{"file", "write"}

// normalizeArgs prepares os.Args for cobra. It rewrites "-file x", "-file=x"
// and "-write" to their double-dash forms, and moves the positional arguments
// behind a "--" in their original order, so a negative amount such as "-5" is
// not read as a shorthand cluster. Flag values stay next to their flags, and
// arguments after an existing "--" are kept as positionals.
func normalizeArgs(cmd *cobra.Command, args []string) []string {
	var flags, positional []string
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if arg == "--" {
			positional = append(positional, args[i+1:]...)
			break
		}
		if isNumber(arg) || !strings.HasPrefix(arg, "-") || arg == "-" {
			positional = append(positional, arg)
			continue
		}

		arg = rewriteLegacy(arg)
		flags = append(flags, arg)
		if takesValue(cmd, arg) && i+1 < len(args) {
			i++
			flags = append(flags, args[i])
		}
	}

	if len(positional) == 0 {
		return flags
	}
	out := make([]string, 0, len(flags)+len(positional)+1)
	out = append(out, flags...)
	out = append(out, "--")
	return append(out, positional...)
}

func rewriteLegacy(arg string) string {
	if strings.HasPrefix(arg, "--") {
		return arg
	}
	name, _, _ := strings.Cut(arg[1:], "=")
	for _, flag := range legacyFlags {
		if name == flag {
			return "-" + arg
		}
	}
	return arg
}

// takesValue reports whether arg is a flag whose value is the next argument.
// Unknown flags are left for cobra to reject.
func takesValue(cmd *cobra.Command, arg string) bool {
	if strings.Contains(arg, "=") {
		return false
	}
	fs := cmd.Flags()
	if name, ok := strings.CutPrefix(arg, "--"); ok {
		f := fs.Lookup(name)
		return f != nil && f.NoOptDefVal == ""
	}
	// "-f x" takes a value, "-wf x" too; "-fx" carries it inline.
	short := arg[1:]
	f := fs.ShorthandLookup(short[len(short)-1:])
	if f == nil || f.NoOptDefVal != "" {
		return false
	}
	for j := 0; j < len(short)-1; j++ {
		g := fs.ShorthandLookup(short[j : j+1])
		if g == nil || g.NoOptDefVal == "" {
			return false
		}
	}
	return true
}

func isNumber(arg string) bool {
	_, err := strconv.ParseFloat(arg, 64)
	return err == nil
}
