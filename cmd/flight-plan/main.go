package main

import (
	"os"

	"github.com/rcliao/flight-plan/internal/cli"
)

func main() {
	if err := cli.RootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
