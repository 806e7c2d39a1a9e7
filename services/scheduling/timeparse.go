package scheduling

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	meridiemRe = regexp.MustCompile(`(\d{1,2})(?::(\d{2}))?\s*(am|pm)`)
	clock24Re  = regexp.MustCompile(`\b(\d{1,2}):(\d{2})\b`)
)

// ParsePreferredTime turns a preferred-time phrase into a Preference. It
// accepts a 12-hour clock with meridiem ("2 pm", "10:30am"), a 24-hour
// "HH:MM", or a band name ("morning"). Anything else degrades to a band match
// if a band name appears in the text, and otherwise to PreferAny, so an
// unparseable preference never fails a request outright.
func ParsePreferredTime(raw string) Preference {
	text := strings.ToLower(strings.TrimSpace(raw))
	text = strings.NewReplacer("(", "", ")", "").Replace(text)

	if m := meridiemRe.FindStringSubmatch(text); m != nil {
		hour, _ := strconv.Atoi(m[1])
		minute := 0
		if m[2] != "" {
			minute, _ = strconv.Atoi(m[2])
		}
		if hour >= 1 && hour <= 12 && minute < 60 {
			if hour == 12 {
				hour = 0
			}
			if m[3] == "pm" {
				hour += 12
			}
			return Preference{Kind: PreferExact, ClockMinute: hour*60 + minute}
		}
	}

	if m := clock24Re.FindStringSubmatch(text); m != nil {
		hour, _ := strconv.Atoi(m[1])
		minute, _ := strconv.Atoi(m[2])
		if hour < 24 && minute < 60 {
			return Preference{Kind: PreferExact, ClockMinute: hour*60 + minute}
		}
	}

	for _, band := range Bands {
		if strings.Contains(text, band.Name) {
			return Preference{Kind: PreferBand, Band: band}
		}
	}

	return Preference{Kind: PreferAny}
}
