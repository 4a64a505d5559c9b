package main

import (
	"os"
)

func main() {
	if err := newRootCommand(openDatabase).Execute(); err != nil {
		os.Exit(1)
	}
}
