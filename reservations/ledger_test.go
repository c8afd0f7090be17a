package reservations

import (
	"testing"

	"prakthub/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func emptyDay(date string) models.ReservationDay {
	return models.ReservationDay{Date: date, Office: []string{}, Online: []string{}}
}

func TestToggleBooksAndCancels(t *testing.T) {
	day := emptyDay("2025-07-28")

	day, outcome, err := applyToggle(day, "u1", KindOffice)
	require.NoError(t, err)
	assert.Equal(t, OutcomeConfirmed, outcome)
	assert.Equal(t, []string{"u1"}, day.Office)
	assert.Empty(t, day.Online)

	day, outcome, err = applyToggle(day, "u1", KindOffice)
	require.NoError(t, err)
	assert.Equal(t, OutcomeCancelled, outcome)
	assert.Empty(t, day.Office)
}

func TestToggleTwiceRestoresOriginalState(t *testing.T) {
	day := emptyDay("2025-07-28")

	day, _, err := applyToggle(day, "u1", KindOnline)
	require.NoError(t, err)
	day, _, err = applyToggle(day, "u1", KindOnline)
	require.NoError(t, err)

	assert.Empty(t, day.Office)
	assert.Empty(t, day.Online)
}

func TestToggleSwitchesKindInOneTransition(t *testing.T) {
	day := emptyDay("2025-07-28")

	day, _, err := applyToggle(day, "u1", KindOnline)
	require.NoError(t, err)

	// Toggling office while booked online cancels online and books office
	// in the same call; the user never ends up in both lists.
	day, outcome, err := applyToggle(day, "u1", KindOffice)
	require.NoError(t, err)
	assert.Equal(t, OutcomeConfirmed, outcome)
	assert.Equal(t, []string{"u1"}, day.Office)
	assert.Empty(t, day.Online)
}

func TestOfficeCapacityEnforced(t *testing.T) {
	orig := MaxSpots
	MaxSpots = 2
	defer func() { MaxSpots = orig }()

	day := emptyDay("2025-07-28")
	var err error
	for _, u := range []string{"a", "b"} {
		day, _, err = applyToggle(day, u, KindOffice)
		require.NoError(t, err)
	}

	_, _, err = applyToggle(day, "c", KindOffice)
	assert.ErrorIs(t, err, ErrOfficeFull)
	// The aborted transition must not have leaked into committed state.
	assert.Len(t, day.Office, 2)

	// The office being full never blocks online bookings.
	day, outcome, err := applyToggle(day, "c", KindOnline)
	require.NoError(t, err)
	assert.Equal(t, OutcomeConfirmed, outcome)
	assert.Equal(t, []string{"c"}, day.Online)
}

func TestCapacityCheckedAfterSelfRemoval(t *testing.T) {
	orig := MaxSpots
	MaxSpots = 2
	defer func() { MaxSpots = orig }()

	day := models.ReservationDay{
		Date:   "2025-07-28",
		Office: []string{"a", "b"},
		Online: []string{},
	}

	// A seat holder toggling office again is a cancellation, not a failed
	// rebook: the capacity check runs after their own removal.
	day, outcome, err := applyToggle(day, "a", KindOffice)
	require.NoError(t, err)
	assert.Equal(t, OutcomeCancelled, outcome)
	assert.Equal(t, []string{"b"}, day.Office)
}

// Three users race for two office seats. The store serializes conflicting
// transactions, so the race plays out as some ordering of the three
// transitions; whichever runs third must lose, and the cap must hold at
// every committed state.
func TestSeatRaceTwoWinnersOneLoser(t *testing.T) {
	orig := MaxSpots
	MaxSpots = 2
	defer func() { MaxSpots = orig }()

	users := []string{"A", "B", "C"}
	confirmed := 0
	rejected := 0

	day := emptyDay("2025-07-28")
	for _, u := range users {
		next, outcome, err := applyToggle(day, u, KindOffice)
		if err != nil {
			assert.ErrorIs(t, err, ErrOfficeFull)
			rejected++
			continue // aborted: day unchanged
		}
		require.Equal(t, OutcomeConfirmed, outcome)
		day = next
		confirmed++
		assert.LessOrEqual(t, len(day.Office), MaxSpots)
	}

	assert.Equal(t, 2, confirmed)
	assert.Equal(t, 1, rejected)
	assert.Len(t, day.Office, 2)
	for _, id := range day.Office {
		assert.Contains(t, users, id)
	}
}
