package main

import (
	"os"

	"github.com/tannguyen1129/fresh-sync-demo/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
