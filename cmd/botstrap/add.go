// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package main

import (
	"fmt"
	"os"

	"github.com/nuztalgia/botstrap/internal/resolver"
	"github.com/spf13/cobra"
)

var addCmd = &cobra.Command{
	Use:   "add <uid>",
	Short: "Interactively save a bot token",
	Long: `Prompt for a token value (and a password, if the token is
password-protected), encrypt it, and save it to its key file.

If the token already exists, you are asked to unlock it first and may
then discard the old value and enter a new one.

Examples:
  botstrap add dev
  botstrap add prod`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		a := mustApp()

		store, err := a.storeFor(args[0])
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		res := resolver.New(store, a.session, a.log)
		if _, err := res.Resolve(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	},
}
