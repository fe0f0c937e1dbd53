package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"go.uber.org/zap"

	"github.com/spec-kit/fanfund/internal/cli"
	"github.com/spec-kit/fanfund/internal/config"
	"github.com/spec-kit/fanfund/internal/observability"
	"github.com/spec-kit/fanfund/internal/output"
	"github.com/spec-kit/fanfund/internal/platform"
)

func main() {
	os.Exit(run())
}

func run() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "fanfund: %v\n", err)
		return output.ExitConfig
	}

	mode, err := output.ParseColorMode(os.Getenv("FANFUND_COLOR"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "fanfund: %v\n", err)
		return output.ExitConfig
	}
	printer := output.NewPrinter(os.Stdout, os.Stderr, output.ResolveColors(mode), envBool("FANFUND_QUIET"))

	logger, err := observability.NewCLILogger(cfg.Logger, envBool("FANFUND_VERBOSE"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "fanfund: init logger: %v\n", err)
		return output.ExitConfig
	}
	defer func() { _ = logger.Sync() }()

	storage, closeStorage, err := cli.OpenStorage(ctx, cfg.Client, cfg.Redis)
	if err != nil {
		printer.FormatError(&output.CLIError{
			Summary:    "could not open session storage",
			Detail:     err.Error(),
			Suggestion: "Check FANFUND_STORAGE and REDIS_ADDR",
			ExitCode:   output.ExitConfig,
		})
		return output.ExitConfig
	}
	defer func() {
		if err := closeStorage(); err != nil {
			logger.Warn("close session storage", zap.Error(err))
		}
	}()

	api := platform.New(cfg.Client.APIBaseURL, cfg.Client.RequestTimeout)
	app := cli.NewApp(cfg.Client, api, storage, printer, logger)
	return cli.Execute(ctx, app, os.Args[1:])
}

func envBool(key string) bool {
	v, err := strconv.ParseBool(os.Getenv(key))
	return err == nil && v
}
