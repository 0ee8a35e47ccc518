package main

import (
	"os"

	"github.com/wanderly-dev/storefront/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
