package main

import (
	"log"

	"meeting-minutes/internal/bootstrap"
)

// main runs the desktop app serving ./frontend from disk for development.
func main() {
	app, err := bootstrap.New()
	if err != nil {
		log.Fatalf("bootstrap app: %v", err)
	}

	if err := app.Run(); err != nil {
		log.Fatalf("run app: %v", err)
	}
}
