package services

import (
	"github.com/netineti-netineti/AtomicAds/models"

	"gorm.io/gorm"
)

type AnalyticsSummary struct {
	TotalAlerts     int64            `json:"total_alerts"`
	DeliveriesTotal int64            `json:"deliveries_total"`
	ReadsTotal      int64            `json:"reads_total"`
	SnoozesTotal    int64            `json:"snoozes_total"`
	BySeverity      map[string]int64 `json:"by_severity"`
}

type AnalyticsService struct {
	db *gorm.DB
}

func NewAnalyticsService(db *gorm.DB) *AnalyticsService {
	return &AnalyticsService{db: db}
}

// Summary computes the simple platform-wide counters shown on the
// admin dashboard.
func (s *AnalyticsService) Summary() (*AnalyticsSummary, error) {
	out := &AnalyticsSummary{BySeverity: map[string]int64{}}

	if err := s.db.Model(&models.Alert{}).Count(&out.TotalAlerts).Error; err != nil {
		return nil, err
	}
	if err := s.db.Model(&models.NotificationDelivery{}).Count(&out.DeliveriesTotal).Error; err != nil {
		return nil, err
	}
	if err := s.db.Model(&models.UserAlertPreference{}).Where("read = ?", true).Count(&out.ReadsTotal).Error; err != nil {
		return nil, err
	}
	if err := s.db.Model(&models.UserAlertPreference{}).Where("snoozed_on IS NOT NULL").Count(&out.SnoozesTotal).Error; err != nil {
		return nil, err
	}

	rows := []struct {
		Severity string
		Count    int64
	}{}
	err := s.db.Model(&models.Alert{}).
		Select("severity, count(id) as count").
		Group("severity").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, r := range rows {
		out.BySeverity[r.Severity] = r.Count
	}

	return out, nil
}
