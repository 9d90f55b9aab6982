package main

import (
	"os"

	"github.com/paw-chain/xyk/cmd/xykd/cmd"
)

func main() {
	if err := cmd.NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
