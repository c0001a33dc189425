package main

import (
	"os"

	"github.com/platinummonkey/buildcheck/pkg/cli"
)

func main() {
	os.Exit(cli.Execute())
}
