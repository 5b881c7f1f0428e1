package services

import (
	"errors"
	"testing"
	"time"

	"github.com/netineti-netineti/AtomicAds/models"

	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

// fakeChannel records deliveries like a real channel would, or fails
// every send when fail is set.
type fakeChannel struct {
	db    *gorm.DB
	name  string
	at    time.Time
	fail  bool
	sends int
}

func (f *fakeChannel) Send(alert *models.Alert, user *models.User) (*models.NotificationDelivery, error) {
	if f.fail {
		return nil, errors.New("transport down")
	}
	f.sends++
	at := f.at
	if at.IsZero() {
		at = time.Now().UTC()
	}
	nd := &models.NotificationDelivery{
		AlertID:   alert.ID,
		UserID:    user.ID,
		SentAt:    at,
		Channel:   f.name,
		Delivered: true,
	}
	if err := f.db.Create(nd).Error; err != nil {
		return nil, err
	}
	return nd, nil
}

func newTestEngine(t *testing.T, db *gorm.DB, channels ChannelRegistry, now time.Time) *ReminderEngine {
	t.Helper()
	e := NewReminderEngine(db, channels, zerolog.Nop())
	e.clock = func() time.Time { return now }
	return e
}

func seedActiveAlert(t *testing.T, db *gorm.DB, now time.Time, mutate func(*models.Alert)) *models.Alert {
	t.Helper()
	alert := &models.Alert{
		Title:            "maintenance",
		Body:             "window tonight",
		Severity:         models.SeverityWarning,
		DeliveryTypes:    []string{ChannelInApp},
		StartAt:          now.Add(-time.Hour),
		RemindersEnabled: true,
		Visibility:       models.Visibility{Org: true},
		Status:           models.StatusActive,
	}
	if mutate != nil {
		mutate(alert)
	}
	if err := db.Create(alert).Error; err != nil {
		t.Fatalf("seed alert: %v", err)
	}
	return alert
}

func deliveryCount(t *testing.T, db *gorm.DB) int64 {
	t.Helper()
	var n int64
	if err := db.Model(&models.NotificationDelivery{}).Count(&n).Error; err != nil {
		t.Fatalf("count deliveries: %v", err)
	}
	return n
}

func TestRunCycleSendsToAllRecipients(t *testing.T) {
	t.Parallel()
	db := newTestDB(t)
	_, _, _ = seedDirectory(t, db)
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	seedActiveAlert(t, db, now, nil)

	ch := &fakeChannel{db: db, name: ChannelInApp}
	e := newTestEngine(t, db, ChannelRegistry{ChannelInApp: ch}, now)

	stats, err := e.RunCycle()
	if err != nil {
		t.Fatalf("RunCycle error: %v", err)
	}
	if stats.AlertsChecked != 1 {
		t.Fatalf("AlertsChecked = %d, want 1", stats.AlertsChecked)
	}
	if stats.SentCount != 4 {
		t.Fatalf("SentCount = %d, want 4", stats.SentCount)
	}
	if got := deliveryCount(t, db); got != 4 {
		t.Fatalf("delivery rows = %d, want 4", got)
	}
}

func TestRunCycleSkipsSnoozedToday(t *testing.T) {
	t.Parallel()
	db := newTestDB(t)
	eng, _, users := seedDirectory(t, db)
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	alert := seedActiveAlert(t, db, now, func(a *models.Alert) {
		a.Visibility = models.Visibility{Teams: []uint{eng.ID}}
	})

	today := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	snooze := models.UserAlertPreference{UserID: users[0].ID, AlertID: alert.ID, SnoozedOn: &today}
	if err := db.Create(&snooze).Error; err != nil {
		t.Fatalf("seed preference: %v", err)
	}

	e := newTestEngine(t, db, ChannelRegistry{ChannelInApp: &fakeChannel{db: db, name: ChannelInApp}}, now)
	stats, err := e.RunCycle()
	if err != nil {
		t.Fatalf("RunCycle error: %v", err)
	}
	if stats.SkippedSnoozed != 1 {
		t.Fatalf("SkippedSnoozed = %d, want 1", stats.SkippedSnoozed)
	}
	if stats.SentCount != 1 {
		t.Fatalf("SentCount = %d, want 1", stats.SentCount)
	}
}

func TestRunCycleSnoozeFromYesterdayDoesNotSuppress(t *testing.T) {
	t.Parallel()
	db := newTestDB(t)
	_, _, users := seedDirectory(t, db)
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	alert := seedActiveAlert(t, db, now, func(a *models.Alert) {
		a.Visibility = models.Visibility{Users: []uint{users[3].ID}}
	})

	yesterday := time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC)
	pref := models.UserAlertPreference{UserID: users[3].ID, AlertID: alert.ID, SnoozedOn: &yesterday}
	if err := db.Create(&pref).Error; err != nil {
		t.Fatalf("seed preference: %v", err)
	}

	e := newTestEngine(t, db, ChannelRegistry{ChannelInApp: &fakeChannel{db: db, name: ChannelInApp}}, now)
	stats, err := e.RunCycle()
	if err != nil {
		t.Fatalf("RunCycle error: %v", err)
	}
	if stats.SkippedSnoozed != 0 {
		t.Fatalf("SkippedSnoozed = %d, want 0", stats.SkippedSnoozed)
	}
	if stats.SentCount != 1 {
		t.Fatalf("SentCount = %d, want 1", stats.SentCount)
	}
}

func TestRunCycleFrequencyWindow(t *testing.T) {
	t.Parallel()
	base := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		name        string
		freqMinutes int
		lastSentAgo time.Duration
		wantSent    int
		wantRecent  int
	}{
		{name: "inside window", freqMinutes: 60, lastSentAgo: 59 * time.Minute, wantSent: 0, wantRecent: 1},
		{name: "exactly at boundary is eligible", freqMinutes: 60, lastSentAgo: 60 * time.Minute, wantSent: 1, wantRecent: 0},
		{name: "past window", freqMinutes: 60, lastSentAgo: 2 * time.Hour, wantSent: 1, wantRecent: 0},
		{name: "zero frequency defaults to two hours", freqMinutes: 0, lastSentAgo: 90 * time.Minute, wantSent: 0, wantRecent: 1},
		{name: "default window elapsed", freqMinutes: 0, lastSentAgo: 121 * time.Minute, wantSent: 1, wantRecent: 0},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			db := newTestDB(t)
			_, _, users := seedDirectory(t, db)
			alert := seedActiveAlert(t, db, base, func(a *models.Alert) {
				a.Visibility = models.Visibility{Users: []uint{users[1].ID}}
				a.ReminderFrequencyMinutes = tt.freqMinutes
			})

			prior := models.NotificationDelivery{
				AlertID: alert.ID,
				UserID:  users[1].ID,
				SentAt:  base.Add(-tt.lastSentAgo),
				Channel: ChannelInApp,
			}
			if err := db.Create(&prior).Error; err != nil {
				t.Fatalf("seed delivery: %v", err)
			}

			e := newTestEngine(t, db, ChannelRegistry{ChannelInApp: &fakeChannel{db: db, name: ChannelInApp}}, base)
			stats, err := e.RunCycle()
			if err != nil {
				t.Fatalf("RunCycle error: %v", err)
			}
			if stats.SentCount != tt.wantSent {
				t.Fatalf("SentCount = %d, want %d", stats.SentCount, tt.wantSent)
			}
			if stats.SkippedRecent != tt.wantRecent {
				t.Fatalf("SkippedRecent = %d, want %d", stats.SkippedRecent, tt.wantRecent)
			}
		})
	}
}

func TestRunCycleExpiredCountedOncePerAlert(t *testing.T) {
	t.Parallel()
	db := newTestDB(t)
	seedDirectory(t, db)
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	expired := now.Add(-time.Minute)
	seedActiveAlert(t, db, now, func(a *models.Alert) {
		a.ExpiresAt = &expired
	})

	ch := &fakeChannel{db: db, name: ChannelInApp}
	e := newTestEngine(t, db, ChannelRegistry{ChannelInApp: ch}, now)
	stats, err := e.RunCycle()
	if err != nil {
		t.Fatalf("RunCycle error: %v", err)
	}
	if stats.SkippedExpired != 1 {
		t.Fatalf("SkippedExpired = %d, want 1 (per alert, not per recipient)", stats.SkippedExpired)
	}
	if stats.SentCount != 0 || ch.sends != 0 {
		t.Fatalf("expired alert was delivered: stats=%+v sends=%d", stats, ch.sends)
	}
}

func TestRunCycleMissingChannelSkippedWithWarning(t *testing.T) {
	t.Parallel()
	db := newTestDB(t)
	_, _, users := seedDirectory(t, db)
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	seedActiveAlert(t, db, now, func(a *models.Alert) {
		a.Visibility = models.Visibility{Users: []uint{users[0].ID}}
		a.DeliveryTypes = []string{ChannelInApp, ChannelEmail}
	})

	// only inapp registered; email must be skipped without failing
	e := newTestEngine(t, db, ChannelRegistry{ChannelInApp: &fakeChannel{db: db, name: ChannelInApp}}, now)
	stats, err := e.RunCycle()
	if err != nil {
		t.Fatalf("RunCycle error: %v", err)
	}
	if stats.SentCount != 1 {
		t.Fatalf("SentCount = %d, want 1 (inapp only)", stats.SentCount)
	}
}

func TestRunCycleChannelFailureIsIsolated(t *testing.T) {
	t.Parallel()
	db := newTestDB(t)
	_, _, users := seedDirectory(t, db)
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	seedActiveAlert(t, db, now, func(a *models.Alert) {
		a.Visibility = models.Visibility{Users: []uint{users[0].ID, users[1].ID}}
		a.DeliveryTypes = []string{ChannelInApp, ChannelEmail}
	})

	good := &fakeChannel{db: db, name: ChannelInApp}
	bad := &fakeChannel{db: db, name: ChannelEmail, fail: true}
	e := newTestEngine(t, db, ChannelRegistry{ChannelInApp: good, ChannelEmail: bad}, now)

	stats, err := e.RunCycle()
	if err != nil {
		t.Fatalf("RunCycle error: %v", err)
	}
	// both recipients still get the working channel
	if stats.SentCount != 2 {
		t.Fatalf("SentCount = %d, want 2", stats.SentCount)
	}
	if good.sends != 2 {
		t.Fatalf("good channel sends = %d, want 2", good.sends)
	}
	// failures are neither sent nor skipped
	if stats.SkippedSnoozed != 0 || stats.SkippedRecent != 0 || stats.SkippedExpired != 0 {
		t.Fatalf("failure leaked into skip counters: %+v", stats)
	}
}

func TestRunCycleEveryChannelPerEligibleRecipient(t *testing.T) {
	t.Parallel()
	db := newTestDB(t)
	_, _, users := seedDirectory(t, db)
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	seedActiveAlert(t, db, now, func(a *models.Alert) {
		a.Visibility = models.Visibility{Users: []uint{users[2].ID}}
		a.DeliveryTypes = []string{ChannelInApp, ChannelEmail}
	})

	inapp := &fakeChannel{db: db, name: ChannelInApp}
	email := &fakeChannel{db: db, name: ChannelEmail}
	e := newTestEngine(t, db, ChannelRegistry{ChannelInApp: inapp, ChannelEmail: email}, now)

	stats, err := e.RunCycle()
	if err != nil {
		t.Fatalf("RunCycle error: %v", err)
	}
	if stats.SentCount != 2 {
		t.Fatalf("SentCount = %d, want 2 (one per channel)", stats.SentCount)
	}
	if inapp.sends != 1 || email.sends != 1 {
		t.Fatalf("sends: inapp=%d email=%d, want 1 each", inapp.sends, email.sends)
	}
	if got := deliveryCount(t, db); got != 2 {
		t.Fatalf("delivery rows = %d, want 2", got)
	}
}

func TestRunCycleIgnoresIneligibleAlerts(t *testing.T) {
	t.Parallel()
	db := newTestDB(t)
	seedDirectory(t, db)
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	seedActiveAlert(t, db, now, func(a *models.Alert) {
		a.StartAt = now.Add(time.Hour) // not started yet
	})
	seedActiveAlert(t, db, now, func(a *models.Alert) {
		a.RemindersEnabled = false
	})
	seedActiveAlert(t, db, now, func(a *models.Alert) {
		a.Status = models.StatusArchived
	})

	e := newTestEngine(t, db, ChannelRegistry{ChannelInApp: &fakeChannel{db: db, name: ChannelInApp}}, now)
	stats, err := e.RunCycle()
	if err != nil {
		t.Fatalf("RunCycle error: %v", err)
	}
	if stats.AlertsChecked != 0 {
		t.Fatalf("AlertsChecked = %d, want 0", stats.AlertsChecked)
	}
	if stats.SentCount != 0 {
		t.Fatalf("SentCount = %d, want 0", stats.SentCount)
	}
}

func TestRunCycleRejectsOverlap(t *testing.T) {
	t.Parallel()
	db := newTestDB(t)
	e := newTestEngine(t, db, ChannelRegistry{}, time.Now().UTC())

	e.mu.Lock()
	_, err := e.RunCycle()
	e.mu.Unlock()

	if !errors.Is(err, ErrCycleRunning) {
		t.Fatalf("err = %v, want ErrCycleRunning", err)
	}
}

func TestRunCycleSecondRunSkipsRecent(t *testing.T) {
	t.Parallel()
	db := newTestDB(t)
	_, _, users := seedDirectory(t, db)
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	seedActiveAlert(t, db, now, func(a *models.Alert) {
		a.Visibility = models.Visibility{Users: []uint{users[0].ID}}
	})

	e := newTestEngine(t, db, ChannelRegistry{ChannelInApp: &fakeChannel{db: db, name: ChannelInApp, at: now}}, now)

	first, err := e.RunCycle()
	if err != nil {
		t.Fatalf("first RunCycle error: %v", err)
	}
	if first.SentCount != 1 {
		t.Fatalf("first SentCount = %d, want 1", first.SentCount)
	}

	// immediately re-running must not double-send
	second, err := e.RunCycle()
	if err != nil {
		t.Fatalf("second RunCycle error: %v", err)
	}
	if second.SentCount != 0 || second.SkippedRecent != 1 {
		t.Fatalf("second cycle: %+v, want sent 0, skipped_recent 1", second)
	}
}
