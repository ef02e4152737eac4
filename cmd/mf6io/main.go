// Command mf6io reads, formats and validates MODFLOW 6 input files.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/KimNorgaard/go-mf6io/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := cli.NewRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}
