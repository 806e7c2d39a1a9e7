package scheduling

import (
	"math"
	"sort"
	"time"

	"slotline/models"
)

// Preference kinds.
const (
	PreferExact = "exact" // a specific clock time, date ignored
	PreferBand  = "band"  // a named time-of-day range
	PreferNear  = "near"  // proximity to a specific instant, spans dates
	PreferAny   = "any"   // no usable preference, everything scores the baseline
)

// baselineScore keeps out-of-band and preference-less slots eligible while
// ranking them below genuine matches.
const baselineScore = 0.5

// Band is a named time-of-day range, bounds in minutes from midnight.
type Band struct {
	Name        string
	StartMinute int
	EndMinute   int
}

// Bands lists the recognized time-of-day ranges.
var Bands = []Band{
	{Name: "morning", StartMinute: 9 * 60, EndMinute: 12 * 60},
	{Name: "afternoon", StartMinute: 13 * 60, EndMinute: 17 * 60},
	{Name: "evening", StartMinute: 17 * 60, EndMinute: 20 * 60},
}

// BandByName returns the named band, if recognized.
func BandByName(name string) (Band, bool) {
	for _, b := range Bands {
		if b.Name == name {
			return b, true
		}
	}
	return Band{}, false
}

// Preference describes what the caller wants from a slot. Exactly one of the
// mode-specific fields is meaningful depending on Kind.
type Preference struct {
	Kind        string
	ClockMinute int       // PreferExact: minutes from midnight
	Band        Band      // PreferBand
	Anchor      time.Time // PreferNear: the requested-but-unavailable instant
}

// MinuteOfDay returns t's clock time in minutes from midnight.
func MinuteOfDay(t time.Time) int {
	return t.Hour()*60 + t.Minute()
}

// ScoreSlots scores every slot against the preference and returns them in
// descending score order. The sort is stable, so ties keep input order.
func ScoreSlots(slots []models.Slot, pref Preference) []models.ScoredSlot {
	scored := make([]models.ScoredSlot, 0, len(slots))
	for _, slot := range slots {
		scored = append(scored, models.ScoredSlot{Slot: slot, Score: scoreSlot(slot, pref)})
	}
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})
	return scored
}

func scoreSlot(slot models.Slot, pref Preference) float64 {
	switch pref.Kind {
	case PreferExact:
		minutes := math.Abs(float64(MinuteOfDay(slot.Start) - pref.ClockMinute))
		return 1 / (1 + minutes/60)
	case PreferBand:
		m := MinuteOfDay(slot.Start)
		if m >= pref.Band.StartMinute && m <= pref.Band.EndMinute {
			return 1
		}
		return baselineScore
	case PreferNear:
		hours := math.Abs(slot.Start.Sub(pref.Anchor).Hours())
		return 1 / (1 + hours)
	default:
		return baselineScore
	}
}
