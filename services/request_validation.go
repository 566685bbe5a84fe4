package services

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/ttacon/libphonenumber"
)

const vietnamCountryCode = 84

var phonePattern = regexp.MustCompile(`^0[35789]\d{8}$`)

// NormalizePhone turns +84 / 84 / 0 prefixed numbers into the 0XXXXXXXXX form
func NormalizePhone(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", invalid("customerPhone", "phone number is required")
	}

	p, err := libphonenumber.Parse(raw, "VN")
	if err != nil || p.GetCountryCode() != vietnamCountryCode {
		return "", invalid("customerPhone", "invalid phone number")
	}

	phone := fmt.Sprintf("0%d", p.GetNationalNumber())
	if !phonePattern.MatchString(phone) {
		return "", invalid("customerPhone", "invalid phone number")
	}
	return phone, nil
}

// ValidateMovingTime checks t against now in the local timezone.
// A same-day move can only be booked before the cutoff hour, for a time at or after it.
func ValidateMovingTime(t, now time.Time, loc *time.Location, cutoffHour int) error {
	if t.IsZero() {
		return invalid("movingTime", "moving time is required")
	}
	if !t.After(now) {
		return invalid("movingTime", "moving time must be in the future")
	}

	local, today := t.In(loc), now.In(loc)
	if local.Year() != today.Year() || local.YearDay() != today.YearDay() {
		return nil
	}
	if today.Hour() >= cutoffHour {
		return invalid("movingTime", "same-day moves must be booked before %02d:00", cutoffHour)
	}
	if local.Hour() < cutoffHour {
		return invalid("movingTime", "same-day moves must start at or after %02d:00", cutoffHour)
	}
	return nil
}

func ValidateImages(images []string, maxImages, maxChars int) error {
	if len(images) > maxImages {
		return invalid("images", "at most %d images are allowed", maxImages)
	}
	for i, img := range images {
		if len(img) > maxChars {
			return invalid(fmt.Sprintf("images[%d]", i), "image exceeds %d characters", maxChars)
		}
	}
	return nil
}
