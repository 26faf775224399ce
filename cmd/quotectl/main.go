// Command quotectl manages the local quote collection from the terminal:
// browse and add quotes, set the view, export and import, and sync with
// the remote posts source. It works on the same store as the service.
package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
)

// exitOffline is returned by sync when the remote could not be reached.
const exitOffline = 2

func main() {
	os.Exit(run())
}

func run() int {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	c := newCLI(os.Stdout, os.Stderr)
	defer func() { _ = c.close() }()

	root := newRootCommand(c)
	err := root.ExecuteContext(ctx)
	if errors.Is(err, errOffline) {
		return exitOffline
	}

	if err != nil {
		printError(os.Stderr, "%v", err)
		return 1
	}

	return 0
}
