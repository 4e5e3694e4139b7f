package main

import (
	"os"

	"github.com/kelexine/moltbook-cli/internal/cli"
)

func main() {
	os.Exit(cli.Run(os.Args[1:]))
}
