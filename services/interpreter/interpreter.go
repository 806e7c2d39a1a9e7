// Package interpreter extracts booking intents and fields from free-text
// utterances using keyword and pattern rules. It deliberately stops short of
// natural-language understanding: every rule is a literal keyword or regexp.
package interpreter

import (
	"regexp"
	"strings"
	"time"

	"slotline/models"
)

const (
	promptProvider = "Please specify a doctor's name. For example, 'Book an appointment with Dr. Smith'"
	promptDate     = "Please specify a date. You can say 'today', 'tomorrow', or 'day after tomorrow'"
	promptTime     = "Please specify a time. You can say 'morning', 'afternoon', or 'evening'"
)

var (
	clockPhraseRe = regexp.MustCompile(`\d{1,2}(:\d{2})?\s*(am|pm)|\b\d{1,2}:\d{2}\b`)
	weekdayNames  = map[string]time.Weekday{
		"sunday":    time.Sunday,
		"monday":    time.Monday,
		"tuesday":   time.Tuesday,
		"wednesday": time.Wednesday,
		"thursday":  time.Thursday,
		"friday":    time.Friday,
		"saturday":  time.Saturday,
	}
)

// dateKeywords are checked longest-first so "day after tomorrow" is not
// shadowed by "tomorrow".
var dateKeywords = []string{"day after tomorrow", "tomorrow", "today"}

var bandKeywords = []string{"morning", "afternoon", "evening"}

// Extract pulls {provider, date, time} out of a booking utterance. Each
// missing field fails with a prompt for that field; field checks run in
// provider, date, time order.
func Extract(utterance string) models.Interpretation {
	text := strings.ToLower(utterance)

	provider, ok := extractProvider(text)
	if !ok {
		return models.Interpretation{Success: false, Message: promptProvider}
	}

	date, ok := extractDatePhrase(text)
	if !ok {
		return models.Interpretation{Success: false, Message: promptDate}
	}

	timePhrase, ok := extractTimePhrase(text)
	if !ok {
		return models.Interpretation{Success: false, Message: promptTime}
	}

	return models.Interpretation{
		Success:  true,
		Provider: provider,
		Date:     date,
		Time:     timePhrase,
	}
}

// extractProvider takes the words following "with" or "for" and normalizes a
// leading "dr"/"dr." fragment to the canonical "Dr. Name" form.
func extractProvider(text string) (string, bool) {
	var after string
	for _, keyword := range []string{" with ", " for "} {
		if _, rest, found := strings.Cut(text, keyword); found {
			after = rest
			break
		}
	}
	if after == "" {
		return "", false
	}

	fields := strings.Fields(after)
	if len(fields) == 0 {
		return "", false
	}

	first := strings.TrimSuffix(fields[0], ".")
	if first == "dr" || first == "ms" {
		if len(fields) < 2 {
			return "", false
		}
		title := "Dr."
		if first == "ms" {
			title = "Ms."
		}
		return title + " " + capitalize(fields[1]), true
	}
	return capitalize(fields[0]), true
}

// extractDatePhrase finds a relative-date keyword, a "next <weekday>" phrase,
// or an ISO date, and returns it verbatim for later resolution.
func extractDatePhrase(text string) (string, bool) {
	for _, keyword := range dateKeywords {
		if strings.Contains(text, keyword) {
			return keyword, true
		}
	}
	for name := range weekdayNames {
		if strings.Contains(text, "next "+name) {
			return "next " + name, true
		}
	}
	if date, ok := ExtractISODate(text); ok {
		return date, true
	}
	return "", false
}

// extractTimePhrase finds a time-of-day band name or an explicit clock
// mention. Both forms feed the same downstream time parsing.
func extractTimePhrase(text string) (string, bool) {
	for _, band := range bandKeywords {
		if strings.Contains(text, band) {
			return band, true
		}
	}
	if m := clockPhraseRe.FindString(text); m != "" {
		return m, true
	}
	return "", false
}

// ResolveDate turns an extracted date phrase into a calendar date. Supported:
// "today", "tomorrow", "day after tomorrow", "next <weekday>" (the next
// future occurrence, rolling a full week when the named day is today or has
// passed), and ISO "2006-01-02".
func ResolveDate(phrase string, now time.Time) (time.Time, bool) {
	phrase = strings.ToLower(strings.TrimSpace(phrase))
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	switch phrase {
	case "today":
		return today, true
	case "tomorrow":
		return today.AddDate(0, 0, 1), true
	case "day after tomorrow":
		return today.AddDate(0, 0, 2), true
	}

	if name, found := strings.CutPrefix(phrase, "next "); found {
		weekday, ok := weekdayNames[name]
		if !ok {
			return time.Time{}, false
		}
		ahead := int(weekday-today.Weekday()+7) % 7
		if ahead == 0 {
			ahead = 7
		}
		return today.AddDate(0, 0, ahead), true
	}

	if parsed, err := time.ParseInLocation("2006-01-02", phrase, now.Location()); err == nil {
		return parsed, true
	}
	return time.Time{}, false
}

func capitalize(word string) string {
	if word == "" {
		return word
	}
	return strings.ToUpper(word[:1]) + word[1:]
}
