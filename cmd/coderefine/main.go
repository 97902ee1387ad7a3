package main

import (
	"os"

	"github.com/coderefine/coderefine/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
