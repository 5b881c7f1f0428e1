package services

import (
	"errors"
	"time"

	"github.com/netineti-netineti/AtomicAds/models"

	"gorm.io/gorm"
)

var ErrAlertNotFound = errors.New("alert not found")

// AlertInput carries the administrator-editable fields of an alert.
// Pointer fields distinguish "leave unchanged" from explicit zero on
// update.
type AlertInput struct {
	Title                    string             `json:"title" binding:"required"`
	Body                     string             `json:"body" binding:"required"`
	Severity                 models.Severity    `json:"severity" binding:"omitempty,oneof=info warning critical"`
	DeliveryTypes            []string           `json:"delivery_types"`
	StartAt                  *time.Time         `json:"start_at"`
	ExpiresAt                *time.Time         `json:"expires_at"`
	RemindersEnabled         *bool              `json:"reminders_enabled"`
	ReminderFrequencyMinutes *int               `json:"reminder_frequency_minutes"`
	Visibility               *models.Visibility `json:"visibility"`
}

type AlertService struct {
	db *gorm.DB
}

func NewAlertService(db *gorm.DB) *AlertService {
	return &AlertService{db: db}
}

func (s *AlertService) Create(in AlertInput) (*models.Alert, error) {
	alert := &models.Alert{
		Title:                    in.Title,
		Body:                     in.Body,
		Severity:                 models.SeverityInfo,
		DeliveryTypes:            []string{ChannelInApp},
		StartAt:                  time.Now().UTC(),
		RemindersEnabled:         true,
		ReminderFrequencyMinutes: 120,
		Status:                   models.StatusActive,
	}
	applyInput(alert, in)

	if err := s.db.Create(alert).Error; err != nil {
		return nil, err
	}
	return alert, nil
}

func (s *AlertService) Update(id uint, in AlertInput) (*models.Alert, error) {
	alert, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	applyInput(alert, in)
	if in.Title != "" {
		alert.Title = in.Title
	}
	if in.Body != "" {
		alert.Body = in.Body
	}

	if err := s.db.Save(alert).Error; err != nil {
		return nil, err
	}
	return alert, nil
}

func (s *AlertService) Get(id uint) (*models.Alert, error) {
	var alert models.Alert
	err := s.db.First(&alert, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrAlertNotFound
	}
	if err != nil {
		return nil, err
	}
	return &alert, nil
}

// List returns alerts, optionally filtered by severity and status.
// Empty filter values match everything.
func (s *AlertService) List(severity, status string) ([]models.Alert, error) {
	q := s.db.Order("id")
	if severity != "" {
		q = q.Where("severity = ?", severity)
	}
	if status != "" {
		q = q.Where("status = ?", status)
	}

	var alerts []models.Alert
	if err := q.Find(&alerts).Error; err != nil {
		return nil, err
	}
	return alerts, nil
}

// ListActive returns all alerts in active status regardless of the
// reminder settings; visibility filtering is the caller's concern.
func (s *AlertService) ListActive() ([]models.Alert, error) {
	var alerts []models.Alert
	if err := s.db.Where("status = ?", models.StatusActive).Order("id").Find(&alerts).Error; err != nil {
		return nil, err
	}
	return alerts, nil
}

func applyInput(alert *models.Alert, in AlertInput) {
	if in.Severity != "" {
		alert.Severity = in.Severity
	}
	if in.DeliveryTypes != nil {
		alert.DeliveryTypes = in.DeliveryTypes
	}
	if in.StartAt != nil {
		alert.StartAt = *in.StartAt
	}
	if in.ExpiresAt != nil {
		alert.ExpiresAt = in.ExpiresAt
	}
	if in.RemindersEnabled != nil {
		alert.RemindersEnabled = *in.RemindersEnabled
	}
	if in.ReminderFrequencyMinutes != nil {
		alert.ReminderFrequencyMinutes = *in.ReminderFrequencyMinutes
	}
	if in.Visibility != nil {
		alert.Visibility = *in.Visibility
	}
}
