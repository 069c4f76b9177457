// job-tracker keeps one user's job-hunt state: preferences, per-listing
// status with history, saved listings and a daily top-10 digest.
//
// `tracker serve` exposes it over HTTP and gRPC and prepares the digest on a
// cron schedule; the other commands work on the same store directly.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

const version = "1.0.0"

var rootCmd = &cobra.Command{
	Use:           "tracker",
	Short:         "Job listing tracker",
	Long:          "Scores job listings against your preferences, tracks application status and builds a daily digest.",
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
