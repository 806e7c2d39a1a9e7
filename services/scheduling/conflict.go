package scheduling

import (
	"sort"

	"slotline/models"
)

// ResolveConflicts reconciles a batch of pending requests against each other,
// returning a pairwise non-overlapping subset. Candidates are considered in
// descending priority (stable, so equal priorities keep input order) and
// accepted greedily when they overlap nothing already accepted.
//
// This is a greedy heuristic: it favors cumulative priority in admission
// order and does not maximize the number of accepted requests.
func ResolveConflicts(requests []models.BookingRequest) []models.BookingRequest {
	candidates := make([]models.BookingRequest, len(requests))
	copy(candidates, requests)

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Priority > candidates[j].Priority
	})

	accepted := make([]models.BookingRequest, 0, len(candidates))
	for _, c := range candidates {
		conflict := false
		for _, a := range accepted {
			if overlaps(c, a) {
				conflict = true
				break
			}
		}
		if !conflict {
			accepted = append(accepted, c)
		}
	}
	return accepted
}

// overlaps reports whether two half-open intervals [start, end) intersect.
// Touching endpoints do not overlap.
func overlaps(a, b models.BookingRequest) bool {
	return a.Start.Before(b.End) && b.Start.Before(a.End)
}
