package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	addr       string
	jsonOutput bool
)

var rootCmd = &cobra.Command{
	Use:   "docdexctl",
	Short: "Client for the docdex document index",
	Long: `docdexctl talks to a running docdex server: upsert documents into the
index, run top-k similarity queries, and inspect embeddings.`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() error {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	return nil
}

func init() {
	defaultAddr := os.Getenv("DOCDEX_ADDR")
	if defaultAddr == "" {
		defaultAddr = "http://localhost:8080"
	}
	rootCmd.PersistentFlags().StringVarP(&addr, "addr", "a", defaultAddr, "docdex server address")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "output JSON instead of text")
}
