package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// version is set at build time via ldflags.
var version = "dev"

func main() {
	// A missing .env is fine; real environment variables win over it.
	_ = godotenv.Load()

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
