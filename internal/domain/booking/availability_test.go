package booking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(day int) time.Time {
	return time.Date(2026, time.March, day, 0, 0, 0, 0, time.UTC)
}

func existing(id string, status Status, startDay, endDay int) Booking {
	return Booking{
		ID:        id,
		CarID:     "suv-rav4",
		StartDate: date(startDay),
		EndDate:   date(endDay),
		Status:    status,
	}
}

func TestFindConflicts(t *testing.T) {
	tests := []struct {
		name     string
		start    time.Time
		end      time.Time
		existing []Booking
		wantIDs  []string
	}{
		{
			name:  "no bookings",
			start: date(10), end: date(15),
		},
		{
			name:  "disjoint before",
			start: date(10), end: date(15),
			existing: []Booking{existing("b1", StatusConfirmed, 1, 5)},
		},
		{
			name:  "disjoint after",
			start: date(10), end: date(15),
			existing: []Booking{existing("b1", StatusConfirmed, 20, 25)},
		},
		{
			name:  "full overlap",
			start: date(10), end: date(15),
			existing: []Booking{existing("b1", StatusConfirmed, 8, 20)},
			wantIDs:  []string{"b1"},
		},
		{
			name:  "contained",
			start: date(10), end: date(15),
			existing: []Booking{existing("b1", StatusPending, 11, 12)},
			wantIDs:  []string{"b1"},
		},
		{
			// Inclusive bounds: a booking ending exactly on the candidate's
			// start date still conflicts.
			name:  "touching at start",
			start: date(10), end: date(15),
			existing: []Booking{existing("b1", StatusConfirmed, 5, 10)},
			wantIDs:  []string{"b1"},
		},
		{
			name:  "touching at end",
			start: date(10), end: date(15),
			existing: []Booking{existing("b1", StatusConfirmed, 15, 20)},
			wantIDs:  []string{"b1"},
		},
		{
			name:  "canceled never blocks",
			start: date(10), end: date(15),
			existing: []Booking{existing("b1", StatusCanceled, 8, 20)},
		},
		{
			name:  "mixed statuses",
			start: date(10), end: date(15),
			existing: []Booking{
				existing("b1", StatusCanceled, 10, 12),
				existing("b2", StatusPending, 12, 14),
				existing("b3", StatusConfirmed, 14, 16),
				existing("b4", StatusConfirmed, 20, 22),
			},
			wantIDs: []string{"b2", "b3"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conflicts := FindConflicts(tt.start, tt.end, tt.existing)
			require.Len(t, conflicts, len(tt.wantIDs))
			for i, id := range tt.wantIDs {
				assert.Equal(t, id, conflicts[i].ID)
			}
		})
	}
}

func TestStatusValid(t *testing.T) {
	assert.True(t, StatusPending.Valid())
	assert.True(t, StatusConfirmed.Valid())
	assert.True(t, StatusCanceled.Valid())
	assert.False(t, Status("archived").Valid())
	assert.False(t, Status("").Valid())
}
