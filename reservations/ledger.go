package reservations

import (
	"errors"
	"os"
	"strconv"

	"prakthub/models"
)

// MaxSpots is the office seat cap per date, overridable via MAX_OFFICE_SPOTS.
var MaxSpots = maxSpotsFromEnv()

func maxSpotsFromEnv() int {
	if s := os.Getenv("MAX_OFFICE_SPOTS"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			return n
		}
	}
	return 10
}

const (
	KindOffice = "office"
	KindOnline = "online"
)

const (
	OutcomeConfirmed = "confirmed"
	OutcomeCancelled = "cancelled"
)

// ErrOfficeFull aborts the surrounding transaction with no write.
var ErrOfficeFull = errors.New("office is full")

func without(ids []string, userID string) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id != userID {
			out = append(out, id)
		}
	}
	return out
}

// applyToggle is the pure reservation transition: one call is one state
// change, never two. The user is first removed from both lists; if they held
// a booking of the requested kind the call is a plain cancellation,
// otherwise it books the requested kind. The office capacity check runs
// against the post-removal list so switching office seats with yourself
// never trips the cap.
func applyToggle(day models.ReservationDay, userID, kind string) (models.ReservationDay, string, error) {
	wasOffice := contains(day.Office, userID)
	wasOnline := contains(day.Online, userID)

	day.Office = without(day.Office, userID)
	day.Online = without(day.Online, userID)

	if (kind == KindOffice && wasOffice) || (kind == KindOnline && wasOnline) {
		return day, OutcomeCancelled, nil
	}

	if kind == KindOffice {
		if len(day.Office) >= MaxSpots {
			return day, "", ErrOfficeFull
		}
		day.Office = append(day.Office, userID)
	} else {
		day.Online = append(day.Online, userID)
	}
	return day, OutcomeConfirmed, nil
}

func contains(ids []string, userID string) bool {
	for _, id := range ids {
		if id == userID {
			return true
		}
	}
	return false
}
