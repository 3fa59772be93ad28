// Command folio serves the portfolio site and renders its backgrounds.
package main

import (
	"fmt"
	"os"

	_ "github.com/joho/godotenv/autoload"
)

// version is set at build time via ldflags.
var version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
