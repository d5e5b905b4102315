package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

func GetDSN() string {
	DATABASE_HOST := os.Getenv("DATABASE_HOST")
	DATABASE_PORT := os.Getenv("DATABASE_PORT")
	DATABASE_SSLMODE := os.Getenv("DATABASE_SSLMODE")
	DATABASE_TIMEZONE := os.Getenv("DATABASE_TIMEZONE")
	DATABASE_USER := os.Getenv("DATABASE_USER")
	DATABASE_PASSWORD := os.Getenv("DATABASE_PASSWORD")
	DATABASE_NAME := os.Getenv("DATABASE_NAME")
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=%s", DATABASE_HOST, DATABASE_USER, DATABASE_PASSWORD, DATABASE_NAME, DATABASE_PORT, DATABASE_SSLMODE, DATABASE_TIMEZONE)
	return dsn
}

const TIME_PARSE_FORMAT = "2006-01-02 15:04:05 -07:00"
const DATE_PARSE_FORMAT = "2006-01-02"

// Seat availability is pushed over the realtime channel; polling is the
// backstop for missed events. The interval comes from the environment so
// deployments can tune it without a rebuild.
func GetSeatPollInterval() time.Duration {
	raw := os.Getenv("SEAT_POLL_INTERVAL_SECONDS")
	secs, err := strconv.Atoi(raw)
	if err != nil || secs <= 0 {
		secs = 30
	}
	return time.Duration(secs) * time.Second
}

func GetSeatHoldTTL() time.Duration {
	raw := os.Getenv("SEAT_HOLD_TTL_MINUTES")
	mins, err := strconv.Atoi(raw)
	if err != nil || mins <= 0 {
		mins = 15
	}
	return time.Duration(mins) * time.Minute
}
