// review-sweep marks pending and in-progress review assignments whose due
// date has passed as overdue. Intended to run from cron.
package main

import (
	"log"
	"time"

	"journal-management-api/config"
	"journal-management-api/services"

	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	config.InitDB()

	svc := services.NewReviewWorkflowService(config.DB, services.NewNotificationService(config.DB))

	n, err := svc.MarkOverdueReviews(time.Now())
	if err != nil {
		log.Fatalf("overdue sweep failed: %v", err)
	}

	log.Printf("overdue sweep complete: %d reviews marked overdue", n)
}
