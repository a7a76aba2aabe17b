package main

import (
	"os"

	"github.com/gemscribe/gemscribe/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
