package services

import "github.com/netineti-netineti/AtomicAds/models"

// Channel identifiers as they appear in Alert.DeliveryTypes.
const (
	ChannelInApp = "inapp"
	ChannelEmail = "email"
	ChannelPush  = "push"
)

// DeliveryChannel is one way of getting an alert in front of a user.
// Send persists a NotificationDelivery row for the attempt; transport
// or storage failures are returned to the caller, which decides how to
// isolate them.
type DeliveryChannel interface {
	Send(alert *models.Alert, user *models.User) (*models.NotificationDelivery, error)
}

// ChannelRegistry maps channel identifiers to implementations. The
// reminder engine looks channels up here before dispatching; unknown
// identifiers are skipped with a warning rather than failing the cycle.
type ChannelRegistry map[string]DeliveryChannel
