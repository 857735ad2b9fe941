package cli

import "io"

// Run is a high-level CLI entrypoint suitable for black-box tests.
// It accepts the argument slice (excluding argv[0]) and returns the
// semantic exit code plus any parse error. Nothing is printed for a parse
// error; the caller decides how to surface it.
func Run(args []string, stdin io.Reader, stdout, stderr io.Writer) (Result, error) {
	inv, err := ParseInvocation(args)
	if err != nil {
		return Result{ExitCode: ExitCode(err)}, err
	}
	return Execute(inv, stdin, stdout, stderr), nil
}
