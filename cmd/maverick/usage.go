package main

import (
	"fmt"
	"io"
)

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  maverick [flags] <file> [args...]")
	fmt.Fprintln(w, "  maverick [flags] -e <program> [args...]")
	fmt.Fprintln(w, "  maverick [flags] -f <file|git+url@rev:path> [args...]")
	fmt.Fprintln(w, "  maverick repl")
	fmt.Fprintln(w, "  maverick version")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "  -e, --exec <program>   run the given program text")
	fmt.Fprintln(w, "  -f, --file <source>    run a file or git reference")
	fmt.Fprintln(w, "  -o, --out              print the result even if the program wrote output")
	fmt.Fprintln(w, "      --tokens           print the tokens and exit")
	fmt.Fprintln(w, "      --postfix          print the postfix program and exit")
	fmt.Fprintln(w, "      --precision <n>    decimal places kept by division (default 20)")
	fmt.Fprintln(w, "      --config <path>    read settings from path instead of ./maverick.yml")
	fmt.Fprintln(w, "      --trace            log pipeline stages to stderr")
}
