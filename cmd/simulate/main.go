// Package main is the combat simulator CLI: it builds a rules registry and
// encounter service, runs scripted skirmishes, and prints their combat logs.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Tactics engine combat simulator",
	Long:  `Runs scripted skirmishes through the combat engine and prints each encounter's combat log.`,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(runCmd)
}
