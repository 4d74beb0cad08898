package main

import (
	"os"

	"github.com/garuda-lt/garuda/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
