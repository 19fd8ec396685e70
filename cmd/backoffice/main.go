// Command backoffice is the administrative console for the goods,
// dictionary, project and entity lists served by the backoffice GraphQL
// API.
//
// Every list can be browsed in the terminal UI (backoffice tui <screen>) or
// scripted through list, create, update and delete. Word lists are bulk
// loaded with upload-words.
//
// Exit codes: 0 = success, 1 = error.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := execute(ctx, os.Stdout, os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		stop()
		os.Exit(1)
	}
}
