package services

import (
	"testing"
	"time"

	"github.com/netineti-netineti/AtomicAds/models"
)

func newTestPrefs(t *testing.T, now time.Time) *PreferenceService {
	t.Helper()
	s := NewPreferenceService(newTestDB(t))
	s.clock = func() time.Time { return now }
	return s
}

func TestSnoozeForTodayCreatesLazily(t *testing.T) {
	t.Parallel()
	now := time.Date(2026, 3, 10, 15, 30, 0, 0, time.UTC)
	s := newTestPrefs(t, now)

	pref, err := s.SnoozeForToday(1, 2)
	if err != nil {
		t.Fatalf("SnoozeForToday error: %v", err)
	}
	if pref.SnoozedOn == nil {
		t.Fatal("SnoozedOn not set")
	}
	if !pref.SnoozedToday(now) {
		t.Fatalf("SnoozedOn = %v, want today", pref.SnoozedOn)
	}
}

func TestSnoozeForTodayAlwaysResetsToToday(t *testing.T) {
	t.Parallel()
	now := time.Date(2026, 3, 10, 15, 30, 0, 0, time.UTC)
	s := newTestPrefs(t, now)

	lastWeek := time.Date(2026, 3, 3, 0, 0, 0, 0, time.UTC)
	old := models.UserAlertPreference{UserID: 1, AlertID: 2, SnoozedOn: &lastWeek, Read: true}
	if err := s.db.Create(&old).Error; err != nil {
		t.Fatalf("seed preference: %v", err)
	}

	pref, err := s.SnoozeForToday(1, 2)
	if err != nil {
		t.Fatalf("SnoozeForToday error: %v", err)
	}
	if !pref.SnoozedToday(now) {
		t.Fatalf("SnoozedOn = %v, want today", pref.SnoozedOn)
	}
	if !pref.Read {
		t.Fatal("snoozing must not clobber the read flag")
	}

	var count int64
	s.db.Model(&models.UserAlertPreference{}).Count(&count)
	if count != 1 {
		t.Fatalf("preference rows = %d, want 1", count)
	}
}

func TestMarkReadCreatesLazily(t *testing.T) {
	t.Parallel()
	now := time.Date(2026, 3, 10, 15, 30, 0, 0, time.UTC)
	s := newTestPrefs(t, now)

	pref, err := s.MarkRead(7, 9)
	if err != nil {
		t.Fatalf("MarkRead error: %v", err)
	}
	if !pref.Read {
		t.Fatal("Read = false after MarkRead")
	}
	if pref.SnoozedOn != nil {
		t.Fatal("MarkRead must not set a snooze")
	}
}

func TestMarkReadIsIdempotent(t *testing.T) {
	t.Parallel()
	now := time.Date(2026, 3, 10, 15, 30, 0, 0, time.UTC)
	s := newTestPrefs(t, now)

	if _, err := s.MarkRead(7, 9); err != nil {
		t.Fatalf("MarkRead error: %v", err)
	}
	if _, err := s.MarkRead(7, 9); err != nil {
		t.Fatalf("second MarkRead error: %v", err)
	}

	var count int64
	s.db.Model(&models.UserAlertPreference{}).Count(&count)
	if count != 1 {
		t.Fatalf("preference rows = %d, want 1", count)
	}
}

func TestMarkUnreadOnMissingRowIsNoop(t *testing.T) {
	t.Parallel()
	now := time.Date(2026, 3, 10, 15, 30, 0, 0, time.UTC)
	s := newTestPrefs(t, now)

	pref, err := s.MarkUnread(3, 4)
	if err != nil {
		t.Fatalf("MarkUnread error: %v", err)
	}
	if pref != nil {
		t.Fatalf("pref = %+v, want nil for missing row", pref)
	}

	// the no-op must not materialize a row
	var count int64
	s.db.Model(&models.UserAlertPreference{}).Count(&count)
	if count != 0 {
		t.Fatalf("preference rows = %d, want 0", count)
	}
}

func TestMarkUnreadClearsFlag(t *testing.T) {
	t.Parallel()
	now := time.Date(2026, 3, 10, 15, 30, 0, 0, time.UTC)
	s := newTestPrefs(t, now)

	if _, err := s.MarkRead(3, 4); err != nil {
		t.Fatalf("MarkRead error: %v", err)
	}
	pref, err := s.MarkUnread(3, 4)
	if err != nil {
		t.Fatalf("MarkUnread error: %v", err)
	}
	if pref == nil || pref.Read {
		t.Fatalf("pref = %+v, want existing row with Read=false", pref)
	}
}

func TestSnoozeVisibleToEngineImmediately(t *testing.T) {
	t.Parallel()
	db := newTestDB(t)
	_, _, users := seedDirectory(t, db)
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	alert := seedActiveAlert(t, db, now, func(a *models.Alert) {
		a.Visibility = models.Visibility{Users: []uint{users[0].ID}}
	})

	prefs := NewPreferenceService(db)
	prefs.clock = func() time.Time { return now }
	if _, err := prefs.SnoozeForToday(users[0].ID, alert.ID); err != nil {
		t.Fatalf("SnoozeForToday error: %v", err)
	}

	e := newTestEngine(t, db, ChannelRegistry{ChannelInApp: &fakeChannel{db: db, name: ChannelInApp}}, now)
	stats, err := e.RunCycle()
	if err != nil {
		t.Fatalf("RunCycle error: %v", err)
	}
	if stats.SkippedSnoozed != 1 || stats.SentCount != 0 {
		t.Fatalf("stats = %+v, want the snooze honored on the very next cycle", stats)
	}
}
