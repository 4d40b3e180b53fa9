// docdexctl is a command-line client for a running docdex server.
package main

import (
	"os"

	"github.com/joho/godotenv"

	"github.com/docdex/docdex/cmd/docdexctl/cmd"
)

func main() {
	_ = godotenv.Load()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
