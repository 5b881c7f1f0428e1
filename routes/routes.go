package routes

import (
	"github.com/netineti-netineti/AtomicAds/controllers"
	"github.com/netineti-netineti/AtomicAds/middlewares"

	"github.com/gin-gonic/gin"
)

func SetupRouter(
	admin *controllers.AdminController,
	users *controllers.UserController,
	devices *controllers.DeviceController,
	realtime *controllers.RealtimeController,
) *gin.Engine {
	r := gin.Default()
	r.Use(middlewares.RequestID())

	// Public auth routes
	auth := r.Group("/auth")
	{
		auth.POST("/register", controllers.Register)
		auth.POST("/login", controllers.Login)
	}

	// Recipient-facing routes
	user := r.Group("/user")
	user.Use(middlewares.AuthMiddleware())
	{
		user.GET("/alerts", users.MyAlerts)
		user.GET("/alerts/ws", realtime.AlertsWS)
		user.GET("/alerts/snooze_history", users.SnoozeHistory)
		user.POST("/alerts/:alert_id/snooze", users.Snooze)
		user.POST("/alerts/:alert_id/read", users.MarkRead)
		user.POST("/alerts/:alert_id/unread", users.MarkUnread)

		if devices != nil {
			user.POST("/devices", devices.Register)
			user.POST("/notifications/toggle", devices.ToggleNotifications)
		}
	}

	// Admin routes
	adm := r.Group("/admin")
	adm.Use(middlewares.AuthMiddleware(), middlewares.AdminRequired())
	{
		adm.POST("/alerts", admin.CreateAlert)
		adm.PUT("/alerts/:alert_id", admin.UpdateAlert)
		adm.GET("/alerts", admin.ListAlerts)
		adm.POST("/trigger_reminders", admin.TriggerReminders)
		adm.GET("/analytics", admin.GetAnalytics)
	}

	return r
}
