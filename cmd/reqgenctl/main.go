package main

import (
	"os"

	"github.com/joho/godotenv"

	"reqgen/internal/cli"
)

func main() {
	// Load .env file (silently ignore if it doesn't exist)
	_ = godotenv.Load()

	if err := cli.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
