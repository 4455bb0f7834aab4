package main

import (
	"log"

	"github.com/joho/godotenv"

	"helmetmonitor/internal/app"
)

func main() {
	// Optional .env file; environment variables win.
	godotenv.Load()

	application, err := app.NewApp()
	if err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}

	if err := application.Run(); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
