package main

import (
	"fmt"
	"os"

	"github.com/Rohith723/nss-election-app/cli"
)

func main() {
	if err := cli.RootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
