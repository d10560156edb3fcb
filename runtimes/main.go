package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dustin/go-humanize"
	ansicolor "github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/peterbourgon/ff/v3/ffcli"
)

func main() {
	if err := realMain(
		context.Background(),
		os.Args,
		os.Stdin,
		os.Stdout,
		os.Stderr,
	); err != nil {
		fmt.Fprintf(os.Stderr, "%v %v\n", colorError.Sprint("error:"), err)
		os.Exit(1)
	}
}

func realMain(
	ctx context.Context,
	args []string,
	stdin io.Reader,
	stdout io.Writer,
	stderr io.Writer,
) error {
	exec := args[0]
	fs := flag.NewFlagSet(exec, flag.ExitOnError)

	rootCmd := &ffcli.Command{
		Name:       exec,
		ShortUsage: fmt.Sprintf("%v [length]", exec),
		ShortHelp:  "Sum the runtimes reported in a find_<length>/result.log",
		FlagSet:    fs,
		Exec: func(_ context.Context, args []string) error {
			var id string
			switch len(args) {
			case 0:
				if isTerminal(stdin) {
					fmt.Fprint(stderr, "Length: ")
				}

				v, err := readIdentifier(stdin)
				if err != nil {
					return fmt.Errorf("read length: %w", err)
				}
				id = v
			case 1:
				id = args[0]
			default:
				return fmt.Errorf("expected at most one argument, got %v", len(args))
			}

			path := resolvePath(id)

			res, err := collect(path)
			if err != nil {
				return err
			}

			if err := report(stdout, res.Samples); err != nil {
				return err
			}

			fmt.Fprintf(
				stderr,
				"%v: %v of %v lines matched\n",
				path,
				humanize.Comma(int64(len(res.Samples))),
				humanize.Comma(int64(res.Lines)),
			)

			return nil
		},
	}

	return rootCmd.ParseAndRun(ctx, args[1:])
}

// readIdentifier reads a single line and drops its terminator. A final line
// without a newline is accepted; an empty input is io.EOF.
func readIdentifier(r io.Reader) (string, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}

	line = strings.TrimSuffix(line, "\n")
	line = strings.TrimSuffix(line, "\r")

	return line, nil
}

func isTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	if !ok {
		return false
	}

	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

var colorError = ansicolor.New(ansicolor.FgRed)
