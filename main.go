package main

import (
	"github.com/joho/godotenv"

	"tally/cmd"
)

func main() {
	// Optional .env for TALLY_* overrides; missing files are fine.
	_ = godotenv.Load()

	cmd.Execute()
}
