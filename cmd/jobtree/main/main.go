package main

import (
	"fmt"
	"os"

	"github.com/davidmrtn/jobtree/cmd/jobtree"
)

func main() {
	rootCmd := jobtree.NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		if !jobtree.IsReported(err) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(jobtree.ExitCode(err))
	}
}
