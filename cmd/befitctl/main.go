package main

import "github.com/raphaeldejesus03/BeFit/internal/cli"

// version is set at build time via -ldflags.
var version = "dev"

func main() {
	cli.Execute(version)
}
