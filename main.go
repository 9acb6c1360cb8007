package main

import (
	"os"

	"github.com/LGFdev/sanipasse/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
