package main

import (
	"log"

	"github.com/edseguy/code-scanner/internal/app"
)

func main() {
	if err := app.New().Run(); err != nil {
		log.Fatalf("❌ scand failed to start: %v", err)
	}
}
