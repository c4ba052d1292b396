package booking

import "time"

// FindConflicts returns the bookings in existing that overlap the candidate
// [start, end] range. The overlap test is inclusive on both ends: a booking
// ending on the candidate's start date conflicts. Only pending and confirmed
// bookings block a range; canceled ones never do.
//
// The check runs over an already-fetched booking list and performs no
// queries of its own.
func FindConflicts(start, end time.Time, existing []Booking) []Booking {
	var conflicts []Booking
	for _, b := range existing {
		if b.Status != StatusPending && b.Status != StatusConfirmed {
			continue
		}
		if overlaps(b.StartDate, b.EndDate, start, end) {
			conflicts = append(conflicts, b)
		}
	}
	return conflicts
}

// overlaps reports whether [aStart, aEnd] and [bStart, bEnd] intersect,
// boundaries included.
func overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return !aStart.After(bEnd) && !aEnd.Before(bStart)
}
