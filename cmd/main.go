package main

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/netineti-netineti/AtomicAds/config"
	"github.com/netineti-netineti/AtomicAds/controllers"
	"github.com/netineti-netineti/AtomicAds/routes"
	"github.com/netineti-netineti/AtomicAds/services"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	awssns "github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

func main() {
	log := zerolog.New(os.Stdout).With().Timestamp().Logger()

	config.InitDB()
	db := config.DB

	hub := services.NewRealtimeHub()

	channels := services.ChannelRegistry{
		services.ChannelInApp: services.NewInAppChannel(db, hub),
	}

	var deviceCtl *controllers.DeviceController

	sesSource := os.Getenv("SES_EMAIL")
	fcmArn := os.Getenv("SNS_FCM_ARN")
	if sesSource != "" || fcmArn != "" {
		region := os.Getenv("AWS_REGION")
		if region == "" {
			region = "ap-south-1"
		}
		cfg, err := awsconfig.LoadDefaultConfig(context.TODO(), awsconfig.WithRegion(region))
		if err != nil {
			log.Fatal().Err(err).Msg("AWS config load failed")
		}
		if sesSource != "" {
			channels[services.ChannelEmail] = services.NewEmailChannel(db, ses.NewFromConfig(cfg), sesSource)
		}
		if fcmArn != "" {
			snsClient := awssns.NewFromConfig(cfg)
			channels[services.ChannelPush] = services.NewPushChannel(db, snsClient)
			deviceCtl = controllers.NewDeviceController(services.NewDeviceService(db, snsClient, fcmArn))
		}
	}

	engine := services.NewReminderEngine(db, channels, log)

	adminCtl := controllers.NewAdminController(
		services.NewAlertService(db),
		engine,
		services.NewAnalyticsService(db),
	)
	userCtl := controllers.NewUserController(db, services.NewAlertService(db), services.NewPreferenceService(db))
	realtimeCtl := controllers.NewRealtimeController(hub)

	startScheduler(engine, log)

	r := routes.SetupRouter(adminCtl, userCtl, deviceCtl, realtimeCtl)
	if err := r.Run(":8080"); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}

// startScheduler runs the reminder cycle periodically. The engine
// serializes overlapping cycles itself, so a slow cycle just makes the
// next tick a no-op.
func startScheduler(engine *services.ReminderEngine, log zerolog.Logger) {
	mins := 30
	if v := os.Getenv("REMINDER_CYCLE_MINUTES"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			log.Fatal().Str("value", v).Msg("invalid REMINDER_CYCLE_MINUTES")
		}
		mins = n
	}
	if mins <= 0 {
		log.Info().Msg("reminder scheduler disabled")
		return
	}

	c := cron.New()
	_, err := c.AddFunc(fmt.Sprintf("@every %dm", mins), func() {
		stats, err := engine.RunCycle()
		if err != nil {
			log.Error().Err(err).Msg("reminder cycle failed")
			return
		}
		log.Info().
			Int("alerts_checked", stats.AlertsChecked).
			Int("sent", stats.SentCount).
			Int("skipped_snoozed", stats.SkippedSnoozed).
			Int("skipped_recent", stats.SkippedRecent).
			Int("skipped_expired", stats.SkippedExpired).
			Msg("reminder cycle done")
	})
	if err != nil {
		log.Fatal().Err(err).Msg("scheduler setup failed")
	}
	c.Start()
	log.Info().Int("every_minutes", mins).Msg("reminder scheduler started")
}
