package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/netineti-netineti/AtomicAds/services"

	"github.com/gin-gonic/gin"
)

type AdminController struct {
	Alerts    *services.AlertService
	Engine    *services.ReminderEngine
	Analytics *services.AnalyticsService
}

func NewAdminController(alerts *services.AlertService, engine *services.ReminderEngine, analytics *services.AnalyticsService) *AdminController {
	return &AdminController{Alerts: alerts, Engine: engine, Analytics: analytics}
}

// POST /admin/alerts
func (ac *AdminController) CreateAlert(c *gin.Context) {
	var input services.AlertInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	alert, err := ac.Alerts.Create(input)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"alert_id": alert.ID})
}

// PUT /admin/alerts/:alert_id
func (ac *AdminController) UpdateAlert(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("alert_id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid alert id"})
		return
	}

	var input services.AlertInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	alert, err := ac.Alerts.Update(uint(id), input)
	if errors.Is(err, services.ErrAlertNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"alert_id": alert.ID})
}

// GET /admin/alerts?severity=&status=
func (ac *AdminController) ListAlerts(c *gin.Context) {
	alerts, err := ac.Alerts.List(c.Query("severity"), c.Query("status"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	out := make([]gin.H, 0, len(alerts))
	for _, a := range alerts {
		out = append(out, gin.H{
			"id":       a.ID,
			"title":    a.Title,
			"severity": a.Severity,
			"status":   a.Status,
		})
	}
	c.JSON(http.StatusOK, gin.H{"alerts": out})
}

// POST /admin/trigger_reminders
func (ac *AdminController) TriggerReminders(c *gin.Context) {
	stats, err := ac.Engine.RunCycle()
	if errors.Is(err, services.ErrCycleRunning) {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"detail": "reminder cycle executed", "stats": stats})
}

// GET /admin/analytics
func (ac *AdminController) GetAnalytics(c *gin.Context) {
	out, err := ac.Analytics.Summary()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, out)
}
