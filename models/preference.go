package models

import "time"

// UserAlertPreference holds the per-user, per-alert state the reminder
// engine consults: a date-scoped snooze and a read flag. At most one row
// exists per (user, alert) pair; it is created lazily on first use.
type UserAlertPreference struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	UserID    uint       `gorm:"uniqueIndex:idx_pref_user_alert" json:"user_id"`
	AlertID   uint       `gorm:"uniqueIndex:idx_pref_user_alert" json:"alert_id"`
	SnoozedOn *time.Time `gorm:"type:date" json:"snoozed_on"`
	Read      bool       `gorm:"default:false" json:"read"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// SnoozedToday reports whether the snooze applies on the given day.
// Snoozes are date-scoped: only an exact date match suppresses delivery.
func (p *UserAlertPreference) SnoozedToday(now time.Time) bool {
	if p.SnoozedOn == nil {
		return false
	}
	y1, m1, d1 := p.SnoozedOn.UTC().Date()
	y2, m2, d2 := now.UTC().Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}
