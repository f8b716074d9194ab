package main

import (
	"os"

	"github.com/egobogo/boardsync/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
