package models

import "time"

// NotificationDelivery records one send attempt of an alert to a user on
// one channel. Rows are append-only; a re-delivery creates a new row.
type NotificationDelivery struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	AlertID   uint      `gorm:"index:idx_delivery_alert_user" json:"alert_id"`
	UserID    uint      `gorm:"index:idx_delivery_alert_user" json:"user_id"`
	SentAt    time.Time `gorm:"index" json:"sent_at"`
	Channel   string    `gorm:"size:32" json:"channel"`
	Delivered bool      `gorm:"default:true" json:"delivered"`
	Read      bool      `gorm:"default:false" json:"read"`
}
