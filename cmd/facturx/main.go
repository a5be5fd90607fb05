package main

import (
	"os"

	"github.com/rezonia/facturx/cmd/facturx/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
