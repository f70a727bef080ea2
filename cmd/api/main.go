package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jortega/meetslot/internal/api/router"
	appconfig "github.com/jortega/meetslot/internal/config"
	"github.com/jortega/meetslot/internal/gcal"
	"github.com/jortega/meetslot/internal/http/handlers"
	"github.com/jortega/meetslot/internal/notify"
	"github.com/jortega/meetslot/internal/observability/metrics"
	"github.com/jortega/meetslot/internal/schedule"
	"github.com/jortega/meetslot/pkg/logging"
)

func main() {
	cfg := appconfig.Load()

	logger := logging.New(cfg.LogLevel)
	logger.Info("starting meetslot API server",
		"env", cfg.Env,
		"port", cfg.Port,
		"calendar_id", cfg.GoogleCalendarID,
		"timezone", cfg.Timezone,
	)

	location, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		logger.Error("invalid timezone, falling back to UTC", "timezone", cfg.Timezone, "error", err)
		location = time.UTC
	}

	weekdays := make([]time.Weekday, 0, len(cfg.BookingWeekdays))
	for _, d := range cfg.BookingWeekdays {
		// Config uses ISO numbering (1=Monday .. 7=Sunday).
		weekdays = append(weekdays, time.Weekday(d%7))
	}
	rules := schedule.NewRules(location, cfg.SlotHours, weekdays)

	creds := gcal.Credentials{
		ClientID:     cfg.GoogleClientID,
		ClientSecret: cfg.GoogleClientSecret,
		RefreshToken: cfg.GoogleRefreshToken,
	}
	gateway := gcal.NewClient(creds, cfg.GoogleCalendarID, location, logger)

	var sender notify.EmailSender
	if sg := notify.NewSendGridSender(notify.SendGridConfig{
		APIKey:    cfg.SendGridAPIKey,
		FromEmail: cfg.SendGridFromEmail,
		FromName:  cfg.SendGridFromName,
		ReplyTo:   cfg.SendGridReplyTo,
	}, logger); sg != nil {
		sender = sg
	} else {
		logger.Warn("sendgrid not configured, confirmation emails will not be sent")
		sender = notify.NewStubEmailSender(logger)
	}
	mailer := notify.NewBookingMailer(sender, cfg.EmailSendTimeout, logger)

	bookingMetrics := metrics.NewBookingMetrics(nil)
	availability := schedule.NewAvailability(gateway, rules, logger)
	booker := schedule.NewBooker(gateway, mailer, rules, cfg.EventSummary, logger)
	calendarHandler := handlers.NewCalendarHandler(availability, booker, bookingMetrics, logger)

	r := router.New(&router.Config{
		Logger:             logger,
		Calendar:           calendarHandler,
		OAuth:              gcal.NewOAuthHandler(creds, cfg.GoogleRedirectURI, logger),
		MetricsHandler:     promhttp.Handler(),
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
}
