package main

import (
	"fmt"
	"os"

	"marketingcoach/internal/cli"
	"marketingcoach/internal/config"
)

func main() {
	if err := config.LoadDotenv(".env"); err != nil {
		fmt.Fprintf(os.Stderr, "load .env: %v\n", err)
		os.Exit(1)
	}
	if err := cli.NewRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
