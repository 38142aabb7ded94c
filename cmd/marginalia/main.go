package main

import (
	"os"

	"github.com/tsawler/marginalia/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
