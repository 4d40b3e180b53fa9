package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show index statistics",
	Args:  cobra.NoArgs,
	RunE:  runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)
}

func runStats(_ *cobra.Command, _ []string) error {
	var resp statsResponse
	if err := newAPIClient(addr).do("GET", "/v1/stats", nil, &resp); err != nil {
		return err
	}

	if jsonOutput {
		return printJSON(resp)
	}
	fmt.Printf("documents:  %d\n", resp.Documents)
	fmt.Printf("dimensions: %d\n", resp.Dimensions)
	if resp.DataPath != "" {
		fmt.Printf("data path:  %s\n", resp.DataPath)
	} else {
		fmt.Println("data path:  (memory-only)")
	}
	return nil
}
