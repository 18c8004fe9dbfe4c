// Package main is the entry point for the recipecost CLI.
package main

import (
	"os"

	"github.com/recipecost/backend/cmd/recipecost/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
