package main

import (
	"os"

	"github.com/victorjacobs/go-samsunghvac/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
