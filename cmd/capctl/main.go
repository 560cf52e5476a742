// Command capctl is the operator console for the match stream capture server.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/rmlive/capctl/internal/cli"
	"github.com/rmlive/capctl/internal/notify"
	"github.com/rmlive/capctl/pkg/version"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stderr))
}

// run executes the command tree and returns the process exit code. Errors
// already shown as notifications are not printed again.
func run(args []string, stderr io.Writer) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root := cli.NewRootCmd(version.GetVersion())
	root.SetArgs(args)
	err := root.ExecuteContext(ctx)
	if err != nil && !notify.IsReported(err) {
		_, _ = fmt.Fprintln(stderr, "Error:", err)
	}
	return exitCode(err)
}

// exitCode maps a command error to the process exit code.
func exitCode(err error) int {
	if err == nil {
		return 0
	}
	return 1
}
