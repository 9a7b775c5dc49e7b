// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/nuztalgia/botstrap/internal/secrets"
	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List registered bot tokens and whether they are saved",
	Long:  `List every registered token with its storage state and creation time.`,
	Run: func(cmd *cobra.Command, args []string) {
		a := mustApp()

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "UID\tNAME\tPROTECTED\tSTATE")

		for _, desc := range a.reg.All() {
			store := secrets.NewStore(desc, a.log)

			state := "not saved"
			if store.Exists() {
				state = "saved"
				if createdAt, err := store.CreatedAt(); err == nil {
					state = "saved " + createdAt.Format("2006-01-02 15:04")
				}
			}

			protected := "no"
			if desc.RequiresPassword {
				protected = "yes"
			}

			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", desc.UID, desc.DisplayName, protected, state)
		}
		w.Flush()
	},
}
