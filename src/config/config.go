package config

import (
	"fmt"
	"os"
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

const (
	DATE_PARSE_FORMAT  = "2006-01-02"
	CLOCK_PARSE_FORMAT = "15:04"
	// Meeting provider wants local wall-clock time without a zone designator.
	MEETING_TIME_FORMAT = "2006-01-02T15:04:05"
)

var API_ENV = os.Getenv("API_ENV")

func GatewayBaseURL() string {
	return os.Getenv("GATEWAY_BASE_URL")
}

func GatewayEntityID() string {
	return os.Getenv("GATEWAY_ENTITY_ID")
}

func GatewayAccessToken() string {
	return os.Getenv("GATEWAY_ACCESS_TOKEN")
}

func ShopperResultURL() string {
	return os.Getenv("GATEWAY_SHOPPER_RESULT_URL")
}

func DefaultCurrency() string {
	cur := os.Getenv("DEFAULT_CURRENCY")
	if cur == "" {
		cur = "SAR"
	}
	return cur
}

func DefaultTimezone() string {
	tz := os.Getenv("DEFAULT_TIMEZONE")
	if tz == "" {
		tz = "Asia/Riyadh"
	}
	return tz
}
