package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/netineti-netineti/AtomicAds/models"

	"github.com/aws/aws-sdk-go-v2/aws"
	awssns "github.com/aws/aws-sdk-go-v2/service/sns"
	"gorm.io/gorm"
)

type snsPublisher interface {
	Publish(ctx context.Context, params *awssns.PublishInput, optFns ...func(*awssns.Options)) (*awssns.PublishOutput, error)
}

// PushChannel delivers alerts as mobile push notifications via the SNS
// platform endpoints registered for the recipient's devices.
type PushChannel struct {
	db  *gorm.DB
	sns snsPublisher
}

func NewPushChannel(db *gorm.DB, sns snsPublisher) *PushChannel {
	return &PushChannel{db: db, sns: sns}
}

func (ch *PushChannel) Send(alert *models.Alert, user *models.User) (*models.NotificationDelivery, error) {
	var devices []models.UserDevice
	if err := ch.db.Where("user_id = ? AND enabled = ?", user.ID, true).Find(&devices).Error; err != nil {
		return nil, err
	}
	if len(devices) == 0 {
		return nil, errors.New("no enabled devices for user")
	}

	msg := map[string]any{
		"default": alert.Body,
		"GCM": map[string]any{
			"notification": map[string]string{
				"title": alert.Title,
				"body":  alert.Body,
			},
			"data": map[string]string{
				"severity": string(alert.Severity),
				"alertId":  fmt.Sprintf("%d", alert.ID),
			},
		},
	}
	raw, _ := json.Marshal(msg)

	var lastErr error
	published := 0
	for _, d := range devices {
		_, err := ch.sns.Publish(context.TODO(), &awssns.PublishInput{
			MessageStructure: aws.String("json"),
			Message:          aws.String(string(raw)),
			TargetArn:        aws.String(d.EndpointARN),
		})
		if err != nil {
			lastErr = err
			continue
		}
		published++
	}
	if published == 0 {
		return nil, fmt.Errorf("push send failed: %w", lastErr)
	}

	nd := &models.NotificationDelivery{
		AlertID:   alert.ID,
		UserID:    user.ID,
		SentAt:    time.Now().UTC(),
		Channel:   ChannelPush,
		Delivered: true,
	}
	if err := ch.db.Create(nd).Error; err != nil {
		return nil, err
	}
	return nd, nil
}
