// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package main

import (
	"fmt"
	"os"

	"github.com/nuztalgia/botstrap/internal/secrets"
	"github.com/spf13/cobra"
)

var tokensCmd = &cobra.Command{
	Use:   "tokens",
	Short: "Interactively manage saved bot tokens",
	Long: `Walk through every key file on disk and offer to delete it.

Covers both registered tokens and orphaned key files: files whose uid is
no longer declared in the manifest, left behind by renamed or removed
tokens.`,
	Run: func(cmd *cobra.Command, args []string) {
		a := mustApp()

		saved := 0
		for _, desc := range a.reg.All() {
			store := secrets.NewStore(desc, a.log)
			if !store.Exists() {
				continue
			}
			saved++

			label := fmt.Sprintf("Your %s bot token", desc)
			if createdAt, err := store.CreatedAt(); err == nil {
				label = fmt.Sprintf("%s (saved %s)", label, createdAt.Format("2006-01-02 15:04"))
			}

			confirmed, err := a.session.Confirm(label + " is saved. Delete it?")
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				os.Exit(1)
			}
			if !confirmed {
				continue
			}
			if err := store.Clear(); err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				os.Exit(1)
			}
			a.session.PrintStatus(fmt.Sprintf("Deleted your %s bot token.", desc), false)
		}

		orphans := collectOrphans(a)
		for _, orphan := range orphans {
			saved++
			confirmed, err := a.session.Confirm(fmt.Sprintf(
				"Key file %q belongs to an unregistered token (%s). Delete it?",
				orphan.Path, orphan.UID))
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				os.Exit(1)
			}
			if !confirmed {
				continue
			}
			if err := os.Remove(orphan.Path); err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				os.Exit(1)
			}
			a.session.PrintStatus(fmt.Sprintf("Deleted key file %q.", orphan.Path), false)
		}

		if saved == 0 {
			a.session.PrintStatus("You currently don't have any saved bot tokens.", false)
		}
	},
}

// collectOrphans scans every storage directory the registered tokens use
// and gathers key files that no registration accounts for.
func collectOrphans(a *app) []secrets.KeyFileInfo {
	var orphans []secrets.KeyFileInfo
	for _, dir := range a.storageDirs() {
		found, err := a.reg.Orphans(dir)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		orphans = append(orphans, found...)
	}
	return orphans
}
