package scheduling

import (
	"time"

	"slotline/models"
)

// DeriveSlots carves each open availability window into consecutive
// fixed-duration slots starting at the window's start. Windows that are
// closed, or that have already begun by now, are skipped entirely; a trailing
// remainder shorter than the duration is dropped. Window order is preserved
// and slots within a window ascend by start time.
func DeriveSlots(windows []models.AvailabilityWindow, durationMinutes int, now time.Time) []models.Slot {
	if durationMinutes <= 0 {
		return nil
	}
	duration := time.Duration(durationMinutes) * time.Minute

	var slots []models.Slot
	for _, w := range windows {
		if !w.Available || !w.Start.After(now) {
			continue
		}
		count := int(w.End.Sub(w.Start) / duration)
		for i := 0; i < count; i++ {
			start := w.Start.Add(time.Duration(i) * duration)
			slots = append(slots, models.Slot{
				ProviderID:      w.ProviderID,
				Start:           start,
				End:             start.Add(duration),
				DurationMinutes: durationMinutes,
				Available:       true,
			})
		}
	}
	return slots
}
