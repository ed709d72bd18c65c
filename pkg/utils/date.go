package utils

import (
	"log"
	"time"
)

// GetEasternTimeLocation returns the US market timezone.
func GetEasternTimeLocation() *time.Location {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		log.Fatal("Failed to load location", err)
	}
	return loc
}

func TimeNowET() time.Time {
	return time.Now().In(GetEasternTimeLocation())
}
