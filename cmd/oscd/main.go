package main

import (
	"os"

	"github.com/showcontroller/oscpoll/cmd/oscd/cmd"
)

func main() {
	if err := cmd.Root.Execute(); err != nil {
		os.Exit(1)
	}
}
