// Package main provides the entry point for the liiist search backend.
package main

import (
	"fmt"
	"log"
	"os"

	"github.com/liiist/backend/config"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "liiist",
	Short: "Grocery product search and cheapest-store backend",
	Long: "liiist searches grocery offers near the shopper and picks the single store " +
		"that covers a shopping list at the lowest total price.",
	SilenceUsage: true,
}

func main() {
	// Load .env file if it exists
	if err := config.LoadEnvFile(); err != nil {
		log.Printf("WARNING: %v", err)
	}

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	// Set log flags for better debugging
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
	log.SetOutput(os.Stderr)
}
