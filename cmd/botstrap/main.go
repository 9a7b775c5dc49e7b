// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package main

import (
	"fmt"
	"os"
	"os/signal"
	"sort"
	"strings"
	"syscall"

	"github.com/nuztalgia/botstrap/internal/config"
	"github.com/nuztalgia/botstrap/internal/logger"
	"github.com/nuztalgia/botstrap/internal/registry"
	"github.com/nuztalgia/botstrap/internal/secrets"
	"github.com/nuztalgia/botstrap/internal/terminal"
	"github.com/spf13/cobra"
)

// Version is the current version of botstrap
var Version = "0.1.0"

var rootCmd = &cobra.Command{
	Use:   "botstrap",
	Short: "Securely store, manage, and retrieve bot tokens",
	Long: `botstrap keeps bot tokens encrypted on disk and hands them out only
after an interactive unlock.

Tokens are declared in a "botstrap.toml" manifest (or fall back to the
built-in "dev" and "prod" pair), encrypted with a key derived from a
per-installation salt and an optional password, and stored one file per
token under a hidden keys directory.`,
	Version: Version,
}

// app bundles the pieces every command needs: merged configuration, the
// diagnostic logger, the token registry, and the interactive session.
type app struct {
	cfg     *config.Config
	log     *logger.Logger
	reg     *registry.Registry
	session terminal.Session
}

func newApp() (*app, error) {
	cfg, err := config.Get()
	if err != nil {
		return nil, err
	}

	log := logger.New("cli", cfg.Log.Level)
	log.Debug().Str("app", cfg.App.Name).Str("version", cfg.App.Version).Msg("configuration loaded")

	descriptors, err := cfg.Descriptors()
	if err != nil {
		return nil, err
	}

	var reg *registry.Registry
	if len(descriptors) == 0 {
		reg, err = registry.Default()
	} else {
		reg, err = registry.New(descriptors...)
	}
	if err != nil {
		return nil, err
	}

	return &app{
		cfg:     cfg,
		log:     log,
		reg:     reg,
		session: terminal.New(cfg.App.Name),
	}, nil
}

func mustApp() *app {
	a, err := newApp()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	return a
}

func (a *app) storeFor(uid string) (*secrets.Store, error) {
	desc, ok := a.reg.Get(uid)
	if !ok {
		return nil, fmt.Errorf("unknown token uid %q (registered: %s)",
			uid, strings.Join(a.uids(), ", "))
	}
	return secrets.NewStore(desc, a.log), nil
}

func (a *app) uids() []string {
	uids := make([]string, 0, a.reg.Len())
	for _, desc := range a.reg.All() {
		uids = append(uids, desc.UID)
	}
	return uids
}

// storageDirs returns the distinct directories the registered tokens live
// in, sorted. Used by commands that scan for key files on disk.
func (a *app) storageDirs() []string {
	seen := make(map[string]struct{})
	for _, desc := range a.reg.All() {
		seen[desc.StorageDirectory] = struct{}{}
	}
	dirs := make([]string, 0, len(seen))
	for dir := range seen {
		dirs = append(dirs, dir)
	}
	sort.Strings(dirs)
	return dirs
}

// watchForInterrupt turns Ctrl-C into the same quiet exit a declined
// confirmation produces, instead of a half-finished prompt and a panic
// trace.
func watchForInterrupt() {
	interrupts := make(chan os.Signal, 1)
	signal.Notify(interrupts, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-interrupts
		fmt.Println()
		fmt.Println("Received an interrupt signal. Exiting process.")
		os.Exit(0)
	}()
}

func init() {
	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(getCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(tokensCmd)
}

func main() {
	watchForInterrupt()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
