package main

import (
	"os"

	"github.com/gatewaylabs/apimport/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
