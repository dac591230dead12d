package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/iudanet/peernote/internal/config"
	"github.com/iudanet/peernote/internal/console"
	"github.com/iudanet/peernote/internal/logging"
	"github.com/iudanet/peernote/internal/node"
	"github.com/iudanet/peernote/internal/transport"
)

var (
	// Информация о версии, задается через ldflags при сборке
	Version   = "dev"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

func main() {
	if err := run(); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, opts, err := config.ParseFlags(os.Args[0], os.Args[1:], os.Stderr)
	if err != nil {
		return err
	}

	// Показать версию и выйти
	if opts.ShowVersion {
		printVersion()
		return nil
	}

	logger, err := logging.New(os.Stderr, cfg.LogLevel, cfg.EventLog)
	if err != nil {
		return err
	}
	defer func() {
		if err := logger.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "failed to close event log: %v\n", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	peers := config.LoadPeers(cfg.PeersFile, logger.Logger)

	var stdio *console.Stdio
	var onStatus func(transport.StatusEvent)
	if !opts.NoConsole {
		stdio = console.NewStdio()
		onStatus = func(ev transport.StatusEvent) {
			stdio.Println(ev.String())
		}
	}

	n, err := node.New(ctx, cfg, node.Options{
		Version:  Version,
		Peers:    peers,
		OnStatus: onStatus,
	}, logger.Logger)
	if err != nil {
		return err
	}

	if err := n.Start(ctx); err != nil {
		stop()
		if cerr := n.Close(); cerr != nil {
			logger.Error("failed to close storage", "error", cerr)
		}
		return err
	}

	if stdio != nil {
		go func() {
			c := console.New(stdio, n.Document(), n.Peers(), n.Nickname, n.Recover)
			if err := c.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("console stopped", "error", err)
			}
			// выход из консоли останавливает узел
			stop()
		}()
	}

	<-ctx.Done()
	logger.Info("shutting down")
	return n.Wait()
}

func printVersion() {
	fmt.Printf("PeerNote\n")
	fmt.Printf("Version:    %s\n", Version)
	fmt.Printf("Build Date: %s\n", BuildDate)
	fmt.Printf("Git Commit: %s\n", GitCommit)
}
