package services

import (
	"time"

	"github.com/netineti-netineti/AtomicAds/models"

	"gorm.io/gorm"
)

// InAppChannel delivers by persisting the notification and pushing it
// over the realtime hub to any open websocket of the recipient.
type InAppChannel struct {
	db  *gorm.DB
	hub *RealtimeHub
}

// NewInAppChannel builds the in-app channel. hub may be nil, in which
// case deliveries are persisted only (picked up on next fetch).
func NewInAppChannel(db *gorm.DB, hub *RealtimeHub) *InAppChannel {
	return &InAppChannel{db: db, hub: hub}
}

func (ch *InAppChannel) Send(alert *models.Alert, user *models.User) (*models.NotificationDelivery, error) {
	nd := &models.NotificationDelivery{
		AlertID:   alert.ID,
		UserID:    user.ID,
		SentAt:    time.Now().UTC(),
		Channel:   ChannelInApp,
		Delivered: true,
	}
	if err := ch.db.Create(nd).Error; err != nil {
		return nil, err
	}

	if ch.hub != nil {
		ch.hub.Broadcast(user.ID, map[string]any{
			"kind":  "alert.reminder",
			"alert": alert,
		})
	}
	return nd, nil
}
