package main

import (
	"os"

	"github.com/romangod6/gin-sitemap/cli"
)

func main() {
	os.Exit(cli.Run(os.Args[1:], os.Stdout, os.Stderr))
}
