package main

import (
	"os"

	"github.com/raoulx24/ghe-archiver/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
