// file: main.go
// version: 2.0.0
// guid: 2c9e4f71-5a3b-4d08-9e6c-7b1f0a8d3e52

package main

import (
	"fmt"
	"os"

	"github.com/elsayedebiad/qsr-final-sub001/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
