package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	Port               string
	Env                string
	LogLevel           string
	CORSAllowedOrigins []string

	// Google Calendar Configuration
	GoogleClientID     string
	GoogleClientSecret string
	GoogleRefreshToken string
	GoogleRedirectURI  string
	GoogleCalendarID   string
	Timezone           string

	// Booking rules
	SlotHours       []int
	BookingWeekdays []int
	EventSummary    string

	// SendGrid Email Configuration
	SendGridAPIKey    string
	SendGridFromEmail string
	SendGridFromName  string
	SendGridReplyTo   string
	EmailSendTimeout  time.Duration
}

// Load reads configuration from environment variables. A .env file in the
// working directory is loaded first when present; credentials are validated
// lazily by the components that use them, not here.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Port:               getEnv("PORT", "8080"),
		Env:                getEnv("ENV", "development"),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		CORSAllowedOrigins: getEnvAsSlice("CORS_ALLOWED_ORIGINS", nil),

		GoogleClientID:     getEnv("GOOGLE_CLIENT_ID", ""),
		GoogleClientSecret: getEnv("GOOGLE_CLIENT_SECRET", ""),
		GoogleRefreshToken: getEnv("GOOGLE_REFRESH_TOKEN", ""),
		GoogleRedirectURI:  getEnv("GOOGLE_REDIRECT_URI", ""),
		GoogleCalendarID:   getEnv("GOOGLE_CALENDAR_ID", "primary"),
		Timezone:           getEnv("GOOGLE_TZ", "UTC"),

		SlotHours:       getEnvAsIntSlice("BOOKING_SLOT_HOURS", []int{18, 19, 20}),
		BookingWeekdays: getEnvAsIntSlice("BOOKING_WEEKDAYS", []int{1, 2, 3, 4, 5}),
		EventSummary:    getEnv("BOOKING_EVENT_SUMMARY", "Meeting"),

		SendGridAPIKey:    getEnv("SENDGRID_API_KEY", ""),
		SendGridFromEmail: getEnv("SENDGRID_FROM_EMAIL", ""),
		SendGridFromName:  getEnv("SENDGRID_FROM_NAME", "Bookings"),
		SendGridReplyTo:   getEnv("SENDGRID_REPLY_TO", ""),
		EmailSendTimeout:  getEnvAsDuration("EMAIL_SEND_TIMEOUT", 10*time.Second),
	}
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsSlice retrieves a comma-separated environment variable as a slice
func getEnvAsSlice(key string, defaultValue []string) []string {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	var values []string
	for _, part := range strings.Split(valueStr, ",") {
		if part = strings.TrimSpace(part); part != "" {
			values = append(values, part)
		}
	}
	return values
}

// getEnvAsIntSlice retrieves a comma-separated environment variable as ints,
// falling back to the default when any element fails to parse
func getEnvAsIntSlice(key string, defaultValue []int) []int {
	var values []int
	for _, part := range getEnvAsSlice(key, nil) {
		value, err := strconv.Atoi(part)
		if err != nil {
			return defaultValue
		}
		values = append(values, value)
	}
	if len(values) == 0 {
		return defaultValue
	}
	return values
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}
