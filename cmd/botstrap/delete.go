// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var deleteCmd = &cobra.Command{
	Use:   "delete <uid>",
	Short: "Delete a saved bot token",
	Long: `Remove the encrypted key file for the named token after an
interactive confirmation. The token's registration is unaffected; it can
be saved again with "botstrap add".`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		a := mustApp()

		store, err := a.storeFor(args[0])
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		desc := store.Descriptor()
		if !store.Exists() {
			a.session.PrintStatus(fmt.Sprintf(
				"You don't have a saved %s bot token.", desc), false)
			return
		}

		confirmed, err := a.session.Confirm(fmt.Sprintf(
			"Your %s bot token will be permanently deleted. Are you sure?", desc))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		if !confirmed {
			a.session.ExitProcess("Received a non-affirmative response.", false)
			return
		}

		if err := store.Clear(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		a.session.PrintStatus(fmt.Sprintf("Deleted your %s bot token.", desc), false)
	},
}
