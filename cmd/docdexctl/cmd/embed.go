package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var embedCmd = &cobra.Command{
	Use:   "embed <text>",
	Short: "Compute the embedding vector for a text",
	Args:  cobra.ExactArgs(1),
	RunE:  runEmbed,
}

func init() {
	rootCmd.AddCommand(embedCmd)
}

func runEmbed(_ *cobra.Command, args []string) error {
	var resp embedResponse
	if err := newAPIClient(addr).do("POST", "/v1/embed", map[string]string{"text": args[0]}, &resp); err != nil {
		return err
	}

	if jsonOutput {
		return printJSON(resp)
	}
	first := float32(0)
	if len(resp.Vector) > 0 {
		first = resp.Vector[0]
	}
	fmt.Printf("dim=%d [%.3f ...]\n", resp.Dimensions, first)
	return nil
}
