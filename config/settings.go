package config

import (
	"log"
	"os"
	"strings"
	"time"
)

const (
	defaultTimezone    = "Asia/Yangon"
	defaultCurrency    = "MMK"
	defaultOverdueDays = 7
)

// ShopTimezone is the zone calendar days are computed in.
//
// Set via env:
// - SHOP_TIMEZONE=Asia/Yangon
func ShopTimezone() string {
	tz := strings.TrimSpace(os.Getenv("SHOP_TIMEZONE"))
	if tz == "" {
		return defaultTimezone
	}
	return tz
}

// ShopLocation loads ShopTimezone, falling back to UTC when the zone database
// does not know it.
func ShopLocation() *time.Location {
	loc, err := time.LoadLocation(ShopTimezone())
	if err != nil {
		log.Printf("failed to load SHOP_TIMEZONE %q: %v; using UTC", ShopTimezone(), err)
		return time.UTC
	}
	return loc
}

// ShopCurrency is stamped on every normalized amount.
//
// Set via env:
// - SHOP_CURRENCY=MMK
func ShopCurrency() string {
	c := strings.ToUpper(strings.TrimSpace(os.Getenv("SHOP_CURRENCY")))
	if c == "" {
		return defaultCurrency
	}
	return c
}

// DueOverdueDays is the default inactivity threshold for overdue dues.
func DueOverdueDays() int {
	days := intFromEnv("DUE_OVERDUE_DAYS", defaultOverdueDays)
	if days < 0 {
		return defaultOverdueDays
	}
	return days
}

// IncludeDeletedDefault makes soft-deleted bills part of aggregates unless a
// request says otherwise. Off by default.
func IncludeDeletedDefault() bool {
	return boolFromEnv("INCLUDE_DELETED_DEFAULT")
}

func boolFromEnv(key string) bool {
	v := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
	return v == "1" || v == "true" || v == "yes" || v == "y" || v == "on"
}
