package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/ConorOBrien-Foxx/Maverick/pkg/driver"
	"github.com/ConorOBrien-Foxx/Maverick/pkg/interpreter"
	"github.com/ConorOBrien-Foxx/Maverick/pkg/lexer"
)

const cliToolVersion = "maverick 0.0.0-dev"

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		printUsage(stderr)
		return 1
	}
	switch args[0] {
	case "--version", "-V", "version":
		fmt.Fprintln(stdout, cliToolVersion)
		return 0
	case "repl":
		return runRepl(args[1:], stdin, stdout, stderr)
	}

	opts, err := parseOptions(args)
	if err != nil {
		fmt.Fprintf(stderr, "maverick: %v\n", err)
		return 1
	}
	if opts.help {
		printUsage(stdout)
		return 0
	}
	sess, err := newSession(opts, stderr)
	if err != nil {
		fmt.Fprintf(stderr, "maverick: %v\n", err)
		return 1
	}

	src, programArgs, err := resolveSource(context.Background(), sess, opts)
	if err != nil {
		fmt.Fprintf(stderr, "maverick: %v\n", err)
		return 1
	}
	if err := executeProgram(sess, opts, src, programArgs, stdout); err != nil {
		fmt.Fprintf(stderr, "maverick: %v\n", err)
		return 1
	}
	return 0
}

// resolveSource picks the program text: -e wins, then -f, then the first
// positional argument. Everything left over is passed to the program.
func resolveSource(ctx context.Context, sess *session, opts *cliOptions) (*driver.Source, []string, error) {
	rest := opts.positional
	if opts.hasExec {
		return driver.Inline(opts.exec), rest, nil
	}
	ref := opts.file
	if ref == "" {
		if len(rest) == 0 {
			return nil, nil, fmt.Errorf("no file passed")
		}
		ref, rest = rest[0], rest[1:]
	}
	src, err := driver.NewLoader(sess.cfg, sess.logger).Load(ctx, ref)
	if err != nil {
		return nil, nil, err
	}
	return src, rest, nil
}

func executeProgram(sess *session, opts *cliOptions, src *driver.Source, programArgs []string, stdout io.Writer) error {
	interp := interpreter.New(sess.reg, interpreter.Options{Host: interpreter.NewHost(programArgs, stdout)})

	if opts.dumpTokens {
		tokens, err := interp.Tokenize(src.Text)
		if err != nil {
			return err
		}
		fmt.Fprintln(stdout, lexer.Join(tokens))
		return nil
	}
	program, err := interp.Parse(src.Text)
	if err != nil {
		return err
	}
	sess.logger.Debug("parsed", "source", src.Name, "postfix", program.String())
	if opts.dumpPostfix {
		fmt.Fprintln(stdout, program.String())
		return nil
	}

	result, err := interp.Run(program)
	if err != nil {
		return err
	}
	sess.logger.Debug("finished", "stack", len(result.Stack), "output", result.Output)
	if sess.cfg.AlwaysPrint || !result.Output {
		fmt.Fprint(stdout, result.Display())
		if isTerminal(stdout) {
			fmt.Fprintln(stdout)
		}
	}
	return nil
}
