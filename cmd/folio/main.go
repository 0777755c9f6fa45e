// Command folio is the portfolio retrieval and assistant backend.
package main

import (
	"os"

	"github.com/custodia-labs/folio/internal/adapters/driving/cli"
)

// version is set at build time via -ldflags "-X main.version=...".
var version = ""

func main() {
	cli.SetVersion(version)
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
