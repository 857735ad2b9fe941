package main

import (
	"errors"
	"fmt"
	"os"

	"todokeep/internal/cli"
)

// main is a thin boundary: it canonicalizes the arguments into an
// Invocation, and Execute prints everything else itself.
func main() {
	inv, err := cli.ParseInvocation(os.Args[1:])
	if err != nil {
		var invErr *cli.InvocationError
		if errors.As(err, &invErr) {
			fmt.Fprintln(os.Stderr, invErr.Message)
			os.Exit(invErr.ExitCode)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(cli.ExitInternalError)
	}

	result := cli.Execute(inv, os.Stdin, os.Stdout, os.Stderr)
	os.Exit(result.ExitCode)
}
