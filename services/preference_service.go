package services

import (
	"errors"
	"time"

	"github.com/netineti-netineti/AtomicAds/models"

	"gorm.io/gorm"
)

// PreferenceService handles the user-initiated state the reminder
// engine reads back: snoozing an alert for the current day and marking
// it read or unread. Preference rows are created lazily on first use.
type PreferenceService struct {
	db    *gorm.DB
	clock func() time.Time
}

func NewPreferenceService(db *gorm.DB) *PreferenceService {
	return &PreferenceService{
		db:    db,
		clock: func() time.Time { return time.Now().UTC() },
	}
}

func (s *PreferenceService) today() time.Time {
	now := s.clock()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}

func (s *PreferenceService) find(userID, alertID uint) (*models.UserAlertPreference, error) {
	var pref models.UserAlertPreference
	err := s.db.Where("user_id = ? AND alert_id = ?", userID, alertID).First(&pref).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &pref, nil
}

// SnoozeForToday suppresses reminders of the alert for the rest of the
// current day. Snoozing again on a later day moves the snooze to that
// day; it never accumulates.
func (s *PreferenceService) SnoozeForToday(userID, alertID uint) (*models.UserAlertPreference, error) {
	today := s.today()

	pref, err := s.find(userID, alertID)
	if err != nil {
		return nil, err
	}
	if pref == nil {
		pref = &models.UserAlertPreference{UserID: userID, AlertID: alertID, SnoozedOn: &today}
		if err := s.db.Create(pref).Error; err != nil {
			return nil, err
		}
		return pref, nil
	}

	pref.SnoozedOn = &today
	if err := s.db.Save(pref).Error; err != nil {
		return nil, err
	}
	return pref, nil
}

func (s *PreferenceService) MarkRead(userID, alertID uint) (*models.UserAlertPreference, error) {
	pref, err := s.find(userID, alertID)
	if err != nil {
		return nil, err
	}
	if pref == nil {
		pref = &models.UserAlertPreference{UserID: userID, AlertID: alertID, Read: true}
		if err := s.db.Create(pref).Error; err != nil {
			return nil, err
		}
		return pref, nil
	}

	pref.Read = true
	if err := s.db.Save(pref).Error; err != nil {
		return nil, err
	}
	return pref, nil
}

// MarkUnread clears the read flag. Unlike the other operations it does
// not create a row when none exists: unread is already the default
// state, so it returns nil without error.
func (s *PreferenceService) MarkUnread(userID, alertID uint) (*models.UserAlertPreference, error) {
	pref, err := s.find(userID, alertID)
	if err != nil || pref == nil {
		return nil, err
	}

	pref.Read = false
	if err := s.db.Save(pref).Error; err != nil {
		return nil, err
	}
	return pref, nil
}

// History returns every preference row of the user, newest first.
func (s *PreferenceService) History(userID uint) ([]models.UserAlertPreference, error) {
	var prefs []models.UserAlertPreference
	if err := s.db.Where("user_id = ?", userID).Order("updated_at DESC").Find(&prefs).Error; err != nil {
		return nil, err
	}
	return prefs, nil
}
