package services

import (
	"errors"
	"sync"
	"time"

	"github.com/netineti-netineti/AtomicAds/models"

	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

// ErrCycleRunning is returned when RunCycle is invoked while another
// cycle is still in flight. Overlapping cycles could double-send inside
// a frequency window, so the engine serializes them.
var ErrCycleRunning = errors.New("reminder cycle already running")

// CycleStats is the aggregate report of one reminder cycle.
// skipped_expired is counted once per alert; skipped_snoozed and
// skipped_recent are counted once per recipient.
type CycleStats struct {
	Now            time.Time `json:"now"`
	AlertsChecked  int       `json:"alerts_checked"`
	SentCount      int       `json:"sent_count"`
	SkippedSnoozed int       `json:"skipped_snoozed"`
	SkippedRecent  int       `json:"skipped_recent"`
	SkippedExpired int       `json:"skipped_expired"`
}

// ReminderEngine performs one pass of reminder delivery per RunCycle
// call: it selects active alerts with reminders enabled, resolves their
// recipients, filters out snoozed users and users still inside the
// alert's frequency window, and dispatches to every configured channel.
//
// One engine instance never runs two cycles at once (RunCycle returns
// ErrCycleRunning); callers holding several engine instances against
// the same database must serialize cycles themselves.
type ReminderEngine struct {
	db       *gorm.DB
	resolver *VisibilityResolver
	channels ChannelRegistry
	log      zerolog.Logger

	clock func() time.Time
	mu    sync.Mutex
}

func NewReminderEngine(db *gorm.DB, channels ChannelRegistry, log zerolog.Logger) *ReminderEngine {
	return &ReminderEngine{
		db:       db,
		resolver: NewVisibilityResolver(db),
		channels: channels,
		log:      log,
		clock:    func() time.Time { return time.Now().UTC() },
	}
}

// RunCycle executes one reminder pass and returns its statistics.
// Individual channel failures are logged and absorbed; storage failures
// abort the cycle and propagate.
func (e *ReminderEngine) RunCycle() (CycleStats, error) {
	if !e.mu.TryLock() {
		return CycleStats{}, ErrCycleRunning
	}
	defer e.mu.Unlock()

	now := e.clock()
	stats := CycleStats{Now: now}

	var alerts []models.Alert
	err := e.db.
		Where("status = ? AND reminders_enabled = ? AND start_at <= ?", models.StatusActive, true, now).
		Find(&alerts).Error
	if err != nil {
		return stats, err
	}
	stats.AlertsChecked = len(alerts)

	for i := range alerts {
		alert := &alerts[i]

		if alert.Expired(now) {
			stats.SkippedExpired++
			continue
		}

		recipients, err := e.resolver.Resolve(alert)
		if err != nil {
			return stats, err
		}

		for j := range recipients {
			user := &recipients[j]

			eligible, err := e.checkRecipient(alert, user, now, &stats)
			if err != nil {
				return stats, err
			}
			if !eligible {
				continue
			}

			e.dispatch(alert, user, &stats)
		}
	}

	return stats, nil
}

// checkRecipient applies the snooze and frequency-window filters for a
// single (alert, user) pair, updating the skip counters. These checks
// run once per recipient, before the channel loop, so an eligible
// recipient gets every configured channel in the same cycle.
func (e *ReminderEngine) checkRecipient(alert *models.Alert, user *models.User, now time.Time, stats *CycleStats) (bool, error) {
	var pref models.UserAlertPreference
	err := e.db.Where("user_id = ? AND alert_id = ?", user.ID, alert.ID).First(&pref).Error
	switch {
	case err == nil:
		if pref.SnoozedToday(now) {
			stats.SkippedSnoozed++
			return false, nil
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		// no preference yet, nothing to suppress
	default:
		return false, err
	}

	var last models.NotificationDelivery
	err = e.db.
		Where("alert_id = ? AND user_id = ?", alert.ID, user.ID).
		Order("sent_at DESC").
		First(&last).Error
	switch {
	case err == nil:
		if last.SentAt.Add(alert.ReminderFrequency()).After(now) {
			stats.SkippedRecent++
			return false, nil
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		// never delivered before
	default:
		return false, err
	}

	return true, nil
}

// dispatch sends the alert to one recipient on every configured
// channel. A missing or failing channel affects only itself.
func (e *ReminderEngine) dispatch(alert *models.Alert, user *models.User, stats *CycleStats) {
	for _, name := range alert.DeliveryTypes {
		ch, ok := e.channels[name]
		if !ok {
			e.log.Warn().
				Str("channel", name).
				Uint("alert_id", alert.ID).
				Msg("no delivery channel registered, skipping")
			continue
		}
		if _, err := ch.Send(alert, user); err != nil {
			e.log.Error().
				Err(err).
				Uint("alert_id", alert.ID).
				Uint("user_id", user.ID).
				Str("channel", name).
				Msg("delivery failed")
			continue
		}
		stats.SentCount++
	}
}
