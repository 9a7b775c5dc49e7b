// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package main

import (
	"fmt"
	"os"

	"github.com/atotto/clipboard"
	"github.com/nuztalgia/botstrap/internal/resolver"
	"github.com/spf13/cobra"
)

var getCmd = &cobra.Command{
	Use:   "get <uid>",
	Short: "Decrypt a saved bot token and copy it to the clipboard",
	Long: `Unlock the named token and place its value on the system clipboard,
so the plaintext never appears on screen.

If no clipboard is available (e.g. over SSH), you are asked whether the
token may be printed to the terminal instead.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		a := mustApp()

		store, err := a.storeFor(args[0])
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		res := resolver.New(store, a.session, a.log)
		res.AllowCreation = false

		value, err := res.Resolve()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		if clipErr := clipboard.WriteAll(value); clipErr == nil {
			a.session.PrintStatus(fmt.Sprintf(
				"Copied your %s bot token to the clipboard.", store.Descriptor()), false)
			return
		}

		confirmed, err := a.session.Confirm(
			"Your clipboard is unavailable. Print the token to the terminal instead?")
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		if !confirmed {
			a.session.ExitProcess("Received a non-affirmative response.", false)
			return
		}
		fmt.Println(value)
	},
}
