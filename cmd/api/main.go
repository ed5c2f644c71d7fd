package main

import (
	"log"

	"genai-hiring-backend/internal/server"
)

// @title GenAI Hiring Platform API
// @version 1.0
// @description Recruiting backend covering job posting approval, candidate applications and review.
// @BasePath /api
func main() {
	srv := server.NewServer()

	log.Printf("Listening on %s", srv.Addr)
	if err := srv.ListenAndServe(); err != nil {
		log.Fatalf("cannot start server: %s", err)
	}
}
