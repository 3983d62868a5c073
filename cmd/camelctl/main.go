package main

import (
	"fmt"
	"os"

	"github.com/danmuck/camelwire/cmd/camelctl/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "camelctl: %v\n", err)
		os.Exit(1)
	}
}
