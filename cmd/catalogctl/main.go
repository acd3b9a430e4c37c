package main

import (
	"os"

	"github.com/studentcatalog/catalog-web/cmd/catalogctl/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
