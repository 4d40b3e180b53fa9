package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var queryCmd = &cobra.Command{
	Use:   "query <text>",
	Short: "Search the index for the top-k most similar documents",
	Args:  cobra.ExactArgs(1),
	RunE:  runQuery,
}

func init() {
	queryCmd.Flags().IntP("top-k", "k", 5, "number of results")
	rootCmd.AddCommand(queryCmd)
}

func runQuery(cmd *cobra.Command, args []string) error {
	k, _ := cmd.Flags().GetInt("top-k")

	var resp queryResponse
	req := map[string]any{"query": args[0], "k": k}
	if err := newAPIClient(addr).do("POST", "/v1/query", req, &resp); err != nil {
		return err
	}

	if jsonOutput {
		return printJSON(resp)
	}
	if len(resp.Hits) == 0 {
		fmt.Println("No results.")
		return nil
	}
	for i, h := range resp.Hits {
		fmt.Printf("%d: id=%s score=%.3f\n%s\n\n", i+1, h.ID, h.Score, h.Text)
	}
	return nil
}
