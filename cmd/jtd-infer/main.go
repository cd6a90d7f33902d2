// Command jtd-infer infers JSON Type Definition schemas from example
// documents. It also runs as an MCP server over stdio or as an HTTP server.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "jtd-infer:", err)
		cancel()
		os.Exit(exitCode(err))
	}
}
