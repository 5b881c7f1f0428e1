package models

import "time"

type Severity string

const (
	SeverityInfo     Severity = "info"
	SeverityWarning  Severity = "warning"
	SeverityCritical Severity = "critical"
)

type AlertStatus string

const (
	StatusActive   AlertStatus = "active"
	StatusArchived AlertStatus = "archived"
)

// Visibility is the declarative audience of an alert: the whole org,
// a set of teams, a set of users, or a union of the latter two.
type Visibility struct {
	Org   bool   `json:"org"`
	Teams []uint `json:"teams"`
	Users []uint `json:"users"`
}

type Alert struct {
	ID                       uint        `gorm:"primaryKey" json:"id"`
	Title                    string      `gorm:"not null" json:"title"`
	Body                     string      `gorm:"type:text;not null" json:"body"`
	Severity                 Severity    `gorm:"size:16;default:info" json:"severity"`
	DeliveryTypes            []string    `gorm:"serializer:json" json:"delivery_types"`
	StartAt                  time.Time   `json:"start_at"`
	ExpiresAt                *time.Time  `json:"expires_at"`
	RemindersEnabled         bool        `gorm:"default:true" json:"reminders_enabled"`
	ReminderFrequencyMinutes int         `gorm:"default:120" json:"reminder_frequency_minutes"`
	Visibility               Visibility  `gorm:"serializer:json" json:"visibility"`
	Status                   AlertStatus `gorm:"size:16;default:active;index" json:"status"`
	CreatedAt                time.Time   `json:"created_at"`
	UpdatedAt                time.Time   `json:"updated_at"`
}

// Includes reports whether the scope covers a single user. The engine
// resolves whole recipient sets instead; this is the cheap single-user
// check used when listing a user's feed.
func (v Visibility) Includes(u *User) bool {
	if v.Org {
		return true
	}
	for _, id := range v.Users {
		if id == u.ID {
			return true
		}
	}
	if u.TeamID != nil {
		for _, id := range v.Teams {
			if id == *u.TeamID {
				return true
			}
		}
	}
	return false
}

// Expired reports whether the alert's expiry window has passed at now.
// Alerts without an expiry never expire.
func (a *Alert) Expired(now time.Time) bool {
	return a.ExpiresAt != nil && a.ExpiresAt.Before(now)
}

// ReminderFrequency returns the re-delivery window, treating zero or
// unset as the two-hour default.
func (a *Alert) ReminderFrequency() time.Duration {
	mins := a.ReminderFrequencyMinutes
	if mins <= 0 {
		mins = 120
	}
	return time.Duration(mins) * time.Minute
}
