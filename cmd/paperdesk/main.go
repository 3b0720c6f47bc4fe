package main

import (
	"os"

	"github.com/mwyrick/paperdesk/cmd/paperdesk/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
