package services

import (
	"context"
	"fmt"
	"time"

	"github.com/netineti-netineti/AtomicAds/models"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
	"gorm.io/gorm"
)

type sesSender interface {
	SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

// EmailChannel delivers alerts over SES to the recipient's address.
type EmailChannel struct {
	db     *gorm.DB
	client sesSender
	source string
}

func NewEmailChannel(db *gorm.DB, client sesSender, source string) *EmailChannel {
	return &EmailChannel{db: db, client: client, source: source}
}

func (ch *EmailChannel) Send(alert *models.Alert, user *models.User) (*models.NotificationDelivery, error) {
	subject := fmt.Sprintf("[%s] %s", alert.Severity, alert.Title)

	input := &ses.SendEmailInput{
		Destination: &types.Destination{
			ToAddresses: []string{user.Email},
		},
		Message: &types.Message{
			Subject: &types.Content{Data: aws.String(subject)},
			Body: &types.Body{
				Text: &types.Content{Data: aws.String(alert.Body)},
			},
		},
		Source: aws.String(ch.source),
	}
	if _, err := ch.client.SendEmail(context.TODO(), input); err != nil {
		return nil, fmt.Errorf("email send failed: %w", err)
	}

	nd := &models.NotificationDelivery{
		AlertID:   alert.ID,
		UserID:    user.ID,
		SentAt:    time.Now().UTC(),
		Channel:   ChannelEmail,
		Delivered: true,
	}
	if err := ch.db.Create(nd).Error; err != nil {
		return nil, err
	}
	return nd, nil
}
