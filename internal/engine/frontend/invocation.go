package frontend

import (
	"fmt"
	"strings"
)

// Invocation is the parsed form of one compilation command: the root module
// to scan plus the settings needed to resolve its imports.
type Invocation struct {
	ModuleName  string
	SearchPaths []string
	Languages   []string
	BuildFlags  []string
}

// ParseInvocation parses a command-line-style argument vector:
//
//	-module-name <name>   root module (required)
//	-I <dir>              search path (repeatable)
//	-language <lang>      restrict parsed languages (repeatable)
//	-Xfront <flag>        opaque per-module build flag (repeatable)
//
// All argument problems are accumulated so the caller sees the full
// diagnostic text at once.
func ParseInvocation(args []string) (*Invocation, []string) {
	inv := &Invocation{}
	var diags []string

	i := 0
	next := func(flag string) (string, bool) {
		if i+1 >= len(args) {
			diags = append(diags, fmt.Sprintf("%s requires a value", flag))
			return "", false
		}
		i++
		return args[i], true
	}

	for ; i < len(args); i++ {
		arg := args[i]
		switch arg {
		case "-module-name":
			if v, ok := next(arg); ok {
				inv.ModuleName = v
			}
		case "-I":
			if v, ok := next(arg); ok {
				inv.SearchPaths = append(inv.SearchPaths, v)
			}
		case "-language":
			if v, ok := next(arg); ok {
				inv.Languages = append(inv.Languages, v)
			}
		case "-Xfront":
			if v, ok := next(arg); ok {
				inv.BuildFlags = append(inv.BuildFlags, v)
			}
		default:
			diags = append(diags, fmt.Sprintf("unknown argument %q", arg))
		}
	}

	if strings.TrimSpace(inv.ModuleName) == "" {
		diags = append(diags, "missing required -module-name")
	}
	if len(inv.SearchPaths) == 0 {
		diags = append(diags, "at least one -I search path is required")
	}

	return inv, diags
}

// WithRoot returns a copy of the invocation with a different root module
// name. Batch scanning shares one invocation's configuration across entries
// and only swaps the root.
func (inv *Invocation) WithRoot(name string) *Invocation {
	c := *inv
	c.ModuleName = name
	c.SearchPaths = append([]string(nil), inv.SearchPaths...)
	c.Languages = append([]string(nil), inv.Languages...)
	c.BuildFlags = append([]string(nil), inv.BuildFlags...)
	return &c
}
