// Package main starts the battle engagement HTTP service.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	battlecmd "github.com/HensleyFerrari/rpg-app/internal/cmd/battle"
	"github.com/HensleyFerrari/rpg-app/internal/platform/config"
)

func main() {
	cfg, err := battlecmd.ParseConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		config.Exitf("parse config: %v", err)
	}
	log.SetPrefix("[BATTLE] ")
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := battlecmd.Run(ctx, cfg); err != nil {
		config.Exitf("failed to serve: %v", err)
	}
}
