package main

import (
	"fmt"
	"os"

	"voice-transcriber/cmd/vtp/cmd"
	"voice-transcriber/internal/config"
)

func main() {
	// A missing .env is fine; keys may come from the environment.
	if _, err := config.LoadEnv(); err != nil {
		fmt.Fprintf(os.Stderr, "warning: %v\n", err)
	}

	cmd.Execute()
}
