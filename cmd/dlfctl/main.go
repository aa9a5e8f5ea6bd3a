// Package main provides the dlfctl CLI.
package main

import "github.com/mesh-intelligence/dlf/internal/cli"

func main() {
	cli.Execute()
}
