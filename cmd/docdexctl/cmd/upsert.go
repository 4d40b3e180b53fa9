package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var upsertCmd = &cobra.Command{
	Use:   "upsert <id> [text]",
	Short: "Insert or replace a document in the index",
	Long: `Upserts a document. Text can be given as an argument, read from a file
with --file, or piped via stdin.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runUpsert,
}

func init() {
	upsertCmd.Flags().String("file", "", "read document text from file")
	rootCmd.AddCommand(upsertCmd)
}

func runUpsert(cmd *cobra.Command, args []string) error {
	id := args[0]
	var text string
	if len(args) > 1 {
		text = args[1]
	}
	file, _ := cmd.Flags().GetString("file")

	text, err := resolveText(text, file)
	if err != nil {
		return err
	}

	var resp upsertResponse
	if err := newAPIClient(addr).do("POST", "/v1/documents", map[string]string{"id": id, "text": text}, &resp); err != nil {
		return err
	}

	if jsonOutput {
		return printJSON(resp)
	}
	verb := "updated"
	if resp.Created {
		verb = "created"
	}
	fmt.Printf("%s %s\n", verb, resp.ID)
	return nil
}

// resolveText picks the document text from the argument, a file, or stdin.
func resolveText(argText, file string) (string, error) {
	if argText != "" {
		return argText, nil
	}
	if file != "" {
		data, err := os.ReadFile(file)
		if err != nil {
			return "", fmt.Errorf("read %s: %w", file, err)
		}
		return string(data), nil
	}
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", fmt.Errorf("read stdin: %w", err)
	}
	if strings.TrimSpace(string(data)) == "" {
		return "", fmt.Errorf("provide text, --file PATH, or pipe stdin")
	}
	return string(data), nil
}
