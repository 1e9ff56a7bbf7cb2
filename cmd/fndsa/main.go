// Command fndsa generates FN-DSA key pairs, signs and verifies messages,
// and benchmarks signing.
package main

import (
	"context"
	"errors"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/benjivesterby/go-fn-dsa/internal/cli"
	"github.com/benjivesterby/go-fn-dsa/internal/config"
	"github.com/benjivesterby/go-fn-dsa/internal/logging"
)

func main() {
	cfg, err := config.ParseConfig(os.Args[0], os.Args[1:], os.Stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		logging.NewDefaultLogger().Error("configuration", err)
		os.Exit(2)
	}

	log := logging.NewLogger(os.Stderr, cfg.JSONLog, cfg.Verbose)
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	r, err := cli.NewRunner(cfg, log, os.Stdin, os.Stdout)
	if err == nil {
		err = r.Run(ctx)
	}
	if err != nil {
		log.Error(cfg.Command+" failed", err)
		stop()
		os.Exit(1)
	}
}
