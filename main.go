package main

import (
	"os"

	"rate-gate/internal/app"
)

func main() {
	if err := app.Run(nil); err != nil {
		os.Exit(1)
	}
}
