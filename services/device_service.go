package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"
	"time"

	"github.com/netineti-netineti/AtomicAds/models"

	"github.com/aws/aws-sdk-go-v2/aws"
	awssns "github.com/aws/aws-sdk-go-v2/service/sns"
	"gorm.io/gorm"
)

type snsEndpointCreator interface {
	CreatePlatformEndpoint(ctx context.Context, params *awssns.CreatePlatformEndpointInput, optFns ...func(*awssns.Options)) (*awssns.CreatePlatformEndpointOutput, error)
}

// DeviceService registers mobile devices as SNS platform endpoints so
// the push channel can reach them.
type DeviceService struct {
	db             *gorm.DB
	sns            snsEndpointCreator
	fcmPlatformArn string
}

func NewDeviceService(db *gorm.DB, sns snsEndpointCreator, fcmPlatformArn string) *DeviceService {
	return &DeviceService{db: db, sns: sns, fcmPlatformArn: fcmPlatformArn}
}

type RegisterDeviceReq struct {
	Platform string `json:"platform"` // "android" | "ios"
	Token    string `json:"token"`
}

func tokenHash(tok string) string {
	h := sha256.Sum256([]byte(tok))
	return hex.EncodeToString(h[:])
}

func (s *DeviceService) platformArn(platform string) (string, error) {
	switch strings.ToLower(platform) {
	case "android", "ios":
		if s.fcmPlatformArn == "" {
			return "", errors.New("SNS_FCM_ARN not set")
		}
		return s.fcmPlatformArn, nil
	default:
		return "", errors.New("unknown platform")
	}
}

// RegisterDevice upserts a device keyed by (user, token hash); a token
// seen again just refreshes its endpoint ARN.
func (s *DeviceService) RegisterDevice(userID uint, platform, token string) (*models.UserDevice, error) {
	appArn, err := s.platformArn(platform)
	if err != nil {
		return nil, err
	}

	out, err := s.sns.CreatePlatformEndpoint(context.TODO(), &awssns.CreatePlatformEndpointInput{
		PlatformApplicationArn: aws.String(appArn),
		Token:                  aws.String(token),
	})
	if err != nil {
		return nil, err
	}

	dev := &models.UserDevice{
		UserID:      userID,
		Platform:    strings.ToLower(platform),
		TokenHash:   tokenHash(token),
		EndpointARN: aws.ToString(out.EndpointArn),
		Enabled:     true,
		UpdatedAt:   time.Now(),
	}

	var existing models.UserDevice
	if err := s.db.Where("user_id = ? AND token_hash = ?", userID, dev.TokenHash).First(&existing).Error; err == nil {
		existing.EndpointARN = dev.EndpointARN
		existing.Platform = dev.Platform
		existing.UpdatedAt = time.Now()
		if err := s.db.Save(&existing).Error; err != nil {
			return nil, err
		}
		return &existing, nil
	}
	if err := s.db.Create(dev).Error; err != nil {
		return nil, err
	}
	return dev, nil
}

// SetNotificationsEnabled flips push delivery for every device of the
// user.
func (s *DeviceService) SetNotificationsEnabled(userID uint, enabled bool) error {
	return s.db.Model(&models.UserDevice{}).
		Where("user_id = ?", userID).
		Update("enabled", enabled).Error
}
