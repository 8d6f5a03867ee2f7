package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/pingcap/errors"

	"bulkloader/pkg/config"
	"bulkloader/pkg/loader"
	"bulkloader/pkg/log"
)

func main() {
	cfg := config.Must(config.LoadConfig(os.Args[1:], nil))
	logger := log.Must(log.InitLogger(&cfg.Log))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := loader.Run(ctx, cfg, logger)
	stop()
	if err != nil {
		logger.Error("bulk loader aborted", log.ShortError(err))
		fmt.Fprintln(os.Stderr, errors.ErrorStack(err))
		_ = logger.Sync()
		os.Exit(1)
	}
	_ = logger.Sync()
}

