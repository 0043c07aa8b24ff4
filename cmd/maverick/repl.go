package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/ConorOBrien-Foxx/Maverick/pkg/interpreter"
)

const replPrompt = "> "

func runRepl(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	opts, err := parseOptions(args)
	if err != nil {
		fmt.Fprintf(stderr, "maverick: %v\n", err)
		return 1
	}
	if opts.hasExec || opts.file != "" {
		fmt.Fprintln(stderr, "maverick repl does not take a program")
		return 1
	}
	sess, err := newSession(opts, stderr)
	if err != nil {
		fmt.Fprintf(stderr, "maverick: %v\n", err)
		return 1
	}
	interp := interpreter.New(sess.reg, interpreter.Options{Host: interpreter.NewHost(opts.positional, stdout)})

	interactive := isTerminal(stdin)
	scanner := bufio.NewScanner(stdin)
	for {
		if interactive {
			fmt.Fprint(stdout, replPrompt)
		}
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		result, err := interp.Exec(line)
		if err != nil {
			fmt.Fprintf(stderr, "maverick: %v\n", err)
			continue
		}
		if sess.cfg.AlwaysPrint || !result.Output {
			fmt.Fprint(stdout, result.Display())
		}
		fmt.Fprintln(stdout)
	}
	if interactive {
		fmt.Fprintln(stdout)
	}
	if err := scanner.Err(); err != nil {
		fmt.Fprintf(stderr, "maverick: %v\n", err)
		return 1
	}
	return 0
}
