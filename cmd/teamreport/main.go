// File: cmd/teamreport/main.go
package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime/debug"
	"strings"
	"syscall"

	"github.com/mindsetos/teamreport/cmd"
	"github.com/mindsetos/teamreport/internal/observability"
)

const panicLogFile = "panic.log"

const banner = `
  teamreport  ·  team diagnostic reports
  type a command (e.g. "teams list --org org-1"), or "exit"

`

// Function variables so tests can replace process-level effects.
var (
	osWriteFile = os.WriteFile
	osExit      = os.Exit
)

func main() {
	defer handlePanic()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if len(os.Args) > 1 {
		if err := cmd.Execute(ctx); err != nil {
			if errors.Is(err, context.Canceled) {
				osExit(0)
			} else {
				osExit(1)
			}
		}
		return
	}

	osExit(runInteractive(ctx, os.Stdin, os.Stdout, os.Stderr))
}

// runInteractive reads commands line by line until EOF or "exit" and returns
// the process exit code.
func runInteractive(ctx context.Context, in io.Reader, out, errOut io.Writer) int {
	fmt.Fprint(out, banner)
	scanner := bufio.NewScanner(in)

	for {
		fmt.Fprint(out, "teamreport > ")
		if !scanner.Scan() {
			break
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "exit" || line == "quit" {
			break
		}
		executeInteractiveCommand(ctx, line, out, errOut)
	}

	if err := scanner.Err(); err != nil {
		fmt.Fprintln(errOut, "Error reading from stdin:", err)
		return 1
	}
	fmt.Fprintln(out, "Bye.")
	return 0
}

// executeInteractiveCommand runs one line on a fresh command tree so flags
// do not leak between lines.
func executeInteractiveCommand(ctx context.Context, line string, out, errOut io.Writer) {
	rootCmd := cmd.NewRootCommand()
	rootCmd.SetArgs(strings.Fields(line))
	rootCmd.SetOut(out)
	rootCmd.SetErr(errOut)

	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(errOut, "Error: command panicked: %v\n", r)
		}
	}()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(errOut, "Error:", err)
	}
}

// handlePanic writes the panic and stack to panic.log before exiting.
func handlePanic() {
	r := recover()
	if r == nil {
		return
	}
	observability.Sync()

	panicMessage := fmt.Sprintf("panic: %v\n\n%s", r, debug.Stack())
	if err := osWriteFile(panicLogFile, []byte(panicMessage), 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "CRITICAL: Failed to write panic log: %v\n", err)
		fmt.Fprintf(os.Stderr, "Panic details:\n%s\n", panicMessage)
		osExit(1)
		return
	}
	fmt.Fprintf(os.Stderr, "teamreport crashed. Details logged to %s\n", panicLogFile)
	osExit(2)
}
