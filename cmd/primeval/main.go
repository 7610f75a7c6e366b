// Copyright 2026, Jason S. McMullan <jason.mcmullan@gmail.com>

package main

import (
	"log"

	"github.com/spf13/cobra"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		log.Fatal(err)
	}
}

func rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "primeval",
		Short: "Evolve populations of 8-bit virtual machines",
	}

	cmd.AddCommand(runCmd())
	cmd.AddCommand(dumpCmd())

	return cmd
}
