package main

import (
	"github.com/joho/godotenv"

	"github.com/dotcommander/atscore/cmd"
)

func main() {
	// A missing .env is not an error; ATSCORE_* variables may come from the environment
	_ = godotenv.Load()
	cmd.Execute()
}
