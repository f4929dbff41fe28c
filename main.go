package main

import (
	"os"

	"github.com/nikki93/gxwgsl/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
