// Seeds the database with demo teams, users and alerts. Safe to run
// repeatedly: it exits early once teams exist.
package main

import (
	"fmt"
	"log"
	"time"

	"github.com/netineti-netineti/AtomicAds/config"
	"github.com/netineti-netineti/AtomicAds/models"
	"github.com/netineti-netineti/AtomicAds/utils"
)

func main() {
	config.InitDB()
	db := config.DB

	var teams int64
	if err := db.Model(&models.Team{}).Count(&teams).Error; err != nil {
		log.Fatalf("count teams: %v", err)
	}
	if teams > 0 {
		fmt.Println("DB already seeded (teams exist).")
		return
	}

	eng := models.Team{Name: "Engineering"}
	mkt := models.Team{Name: "Marketing"}
	if err := db.Create(&eng).Error; err != nil {
		log.Fatalf("seed teams: %v", err)
	}
	if err := db.Create(&mkt).Error; err != nil {
		log.Fatalf("seed teams: %v", err)
	}

	password, err := utils.HashPassword("changeme123")
	if err != nil {
		log.Fatalf("hash password: %v", err)
	}

	users := []models.User{
		{Name: "Alice", Email: "alice@example.com", Password: password, TeamID: &eng.ID, IsAdmin: true},
		{Name: "Bob", Email: "bob@example.com", Password: password, TeamID: &eng.ID},
		{Name: "Carol", Email: "carol@example.com", Password: password, TeamID: &mkt.ID},
		{Name: "Dave", Email: "dave@example.com", Password: password},
	}
	if err := db.Create(&users).Error; err != nil {
		log.Fatalf("seed users: %v", err)
	}

	now := time.Now().UTC()
	expiry := now.Add(24 * time.Hour)
	alerts := []models.Alert{
		{
			Title:            "Org maintenance",
			Body:             "We will have a maintenance window.",
			Severity:         models.SeverityWarning,
			DeliveryTypes:    []string{"inapp"},
			StartAt:          now.Add(-time.Hour),
			ExpiresAt:        &expiry,
			RemindersEnabled: true,
			Visibility:       models.Visibility{Org: true},
			Status:           models.StatusActive,
		},
		{
			Title:            "Eng-only update",
			Body:             "Engineering doc updated.",
			Severity:         models.SeverityInfo,
			DeliveryTypes:    []string{"inapp"},
			StartAt:          now.Add(-time.Hour),
			RemindersEnabled: true,
			Visibility:       models.Visibility{Teams: []uint{eng.ID}},
			Status:           models.StatusActive,
		},
		{
			Title:            "Personal note",
			Body:             "Hey Bob — please review.",
			Severity:         models.SeverityInfo,
			DeliveryTypes:    []string{"inapp"},
			StartAt:          now.Add(-time.Hour),
			RemindersEnabled: true,
			Visibility:       models.Visibility{Users: []uint{users[1].ID}},
			Status:           models.StatusActive,
		},
	}
	if err := db.Create(&alerts).Error; err != nil {
		log.Fatalf("seed alerts: %v", err)
	}

	fmt.Println("Seeded DB with teams, users, and alerts. Admin: alice@example.com / changeme123")
}
