package main

import (
	"fmt"
	"os"

	"gallery/internal"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	err := internal.Bootstrap()
	if err != nil {
		fmt.Fprint(os.Stderr, "Bootstrap error: "+err.Error()+"\n")
		os.Exit(1)
	}
}
