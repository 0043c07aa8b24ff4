package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ConorOBrien-Foxx/Maverick/pkg/registry"
)

type cliOptions struct {
	exec        string
	hasExec     bool
	file        string
	alwaysPrint bool
	dumpTokens  bool
	dumpPostfix bool
	precision   int32
	hasPrec     bool
	configPath  string
	trace       bool
	help        bool
	positional  []string
}

// parseOptions reads flags anywhere before `--`. Negative numbers are kept
// as positional arguments so they can be passed to the program.
func parseOptions(args []string) (*cliOptions, error) {
	opts := &cliOptions{}
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if arg == "--" {
			opts.positional = append(opts.positional, args[i+1:]...)
			break
		}
		if !strings.HasPrefix(arg, "-") || arg == "-" || looksNumeric(arg) {
			opts.positional = append(opts.positional, arg)
			continue
		}
		name, value, hasValue := strings.Cut(arg, "=")
		takeValue := func() (string, error) {
			if hasValue {
				return value, nil
			}
			if i+1 >= len(args) {
				return "", fmt.Errorf("%s expects a value", name)
			}
			i++
			return args[i], nil
		}
		switch name {
		case "-e", "--exec":
			v, err := takeValue()
			if err != nil {
				return nil, err
			}
			opts.exec, opts.hasExec = v, true
		case "-f", "--file":
			v, err := takeValue()
			if err != nil {
				return nil, err
			}
			opts.file = v
		case "-o", "--out":
			opts.alwaysPrint = true
		case "--tokens":
			opts.dumpTokens = true
		case "--postfix":
			opts.dumpPostfix = true
		case "--precision":
			v, err := takeValue()
			if err != nil {
				return nil, err
			}
			n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 32)
			if err != nil || n < 0 {
				return nil, fmt.Errorf("--precision expects a non-negative integer (got '%s')", v)
			}
			opts.precision, opts.hasPrec = int32(n), true
		case "--config":
			v, err := takeValue()
			if err != nil {
				return nil, err
			}
			opts.configPath = v
		case "--trace":
			opts.trace = true
		case "-h", "--help":
			opts.help = true
		default:
			return nil, fmt.Errorf("unknown flag '%s'", arg)
		}
	}
	return opts, nil
}

func looksNumeric(arg string) bool {
	return registry.IsNumeric(strings.TrimPrefix(arg, "-"))
}
