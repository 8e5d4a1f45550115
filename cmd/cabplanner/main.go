// Package main provides the cabplanner CLI.
package main

import (
	"os"

	"github.com/petar-djukic/cabplanner/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
