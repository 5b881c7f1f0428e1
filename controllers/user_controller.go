package controllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/netineti-netineti/AtomicAds/models"
	"github.com/netineti-netineti/AtomicAds/services"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type UserController struct {
	DB     *gorm.DB
	Alerts *services.AlertService
	Prefs  *services.PreferenceService
}

func NewUserController(db *gorm.DB, alerts *services.AlertService, prefs *services.PreferenceService) *UserController {
	return &UserController{DB: db, Alerts: alerts, Prefs: prefs}
}

// GET /user/alerts — the active alerts visible to the caller, each
// annotated with its snoozed/read state.
func (uc *UserController) MyAlerts(c *gin.Context) {
	uid := c.GetUint("userID")

	var user models.User
	if err := uc.DB.First(&user, uid).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}

	alerts, err := uc.Alerts.ListActive()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	now := time.Now().UTC()
	out := make([]gin.H, 0, len(alerts))
	for _, a := range alerts {
		if !a.Visibility.Includes(&user) {
			continue
		}

		snoozed := false
		read := false
		var pref models.UserAlertPreference
		if err := uc.DB.Where("user_id = ? AND alert_id = ?", uid, a.ID).First(&pref).Error; err == nil {
			snoozed = pref.SnoozedToday(now)
			read = pref.Read
		}

		out = append(out, gin.H{
			"id":       a.ID,
			"title":    a.Title,
			"body":     a.Body,
			"severity": a.Severity,
			"snoozed":  snoozed,
			"read":     read,
		})
	}

	c.JSON(http.StatusOK, gin.H{"alerts": out})
}

// POST /user/alerts/:alert_id/snooze
func (uc *UserController) Snooze(c *gin.Context) {
	uid, alertID, ok := uc.pathIDs(c)
	if !ok {
		return
	}

	pref, err := uc.Prefs.SnoozeForToday(uid, alertID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"detail": "snoozed", "snoozed_on": pref.SnoozedOn})
}

// POST /user/alerts/:alert_id/read
func (uc *UserController) MarkRead(c *gin.Context) {
	uid, alertID, ok := uc.pathIDs(c)
	if !ok {
		return
	}

	if _, err := uc.Prefs.MarkRead(uid, alertID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"detail": "marked read"})
}

// POST /user/alerts/:alert_id/unread
func (uc *UserController) MarkUnread(c *gin.Context) {
	uid, alertID, ok := uc.pathIDs(c)
	if !ok {
		return
	}

	if _, err := uc.Prefs.MarkUnread(uid, alertID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"detail": "marked unread"})
}

// GET /user/alerts/snooze_history
func (uc *UserController) SnoozeHistory(c *gin.Context) {
	uid := c.GetUint("userID")

	prefs, err := uc.Prefs.History(uid)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	out := make([]gin.H, 0, len(prefs))
	for _, p := range prefs {
		out = append(out, gin.H{
			"alert_id":   p.AlertID,
			"snoozed_on": p.SnoozedOn,
			"read":       p.Read,
		})
	}
	c.JSON(http.StatusOK, gin.H{"history": out})
}

func (uc *UserController) pathIDs(c *gin.Context) (uint, uint, bool) {
	uid := c.GetUint("userID")
	id, err := strconv.ParseUint(c.Param("alert_id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid alert id"})
		return 0, 0, false
	}
	return uid, uint(id), true
}
