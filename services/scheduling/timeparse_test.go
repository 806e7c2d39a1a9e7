package scheduling

import "testing"

func TestParsePreferredTime_Meridiem(t *testing.T) {
	cases := []struct {
		text string
		want int
	}{
		{"2 pm", 14 * 60},
		{"2pm", 14 * 60},
		{"10:30am", 10*60 + 30},
		{"10:30 AM", 10*60 + 30},
		{"12 pm", 12 * 60},
		{"12 am", 0},
		{"around 3 pm please", 15 * 60},
	}
	for _, c := range cases {
		pref := ParsePreferredTime(c.text)
		if pref.Kind != PreferExact {
			t.Fatalf("%q: kind = %s, want exact", c.text, pref.Kind)
		}
		if pref.ClockMinute != c.want {
			t.Fatalf("%q: minute = %d, want %d", c.text, pref.ClockMinute, c.want)
		}
	}
}

func TestParsePreferredTime_Clock24(t *testing.T) {
	pref := ParsePreferredTime("14:30")
	if pref.Kind != PreferExact || pref.ClockMinute != 14*60+30 {
		t.Fatalf("got kind=%s minute=%d", pref.Kind, pref.ClockMinute)
	}
}

func TestParsePreferredTime_ParensStripped(t *testing.T) {
	pref := ParsePreferredTime("(2 pm)")
	if pref.Kind != PreferExact || pref.ClockMinute != 14*60 {
		t.Fatalf("got kind=%s minute=%d", pref.Kind, pref.ClockMinute)
	}
}

func TestParsePreferredTime_BandNames(t *testing.T) {
	for _, name := range []string{"morning", "afternoon", "evening"} {
		pref := ParsePreferredTime("sometime in the " + name)
		if pref.Kind != PreferBand {
			t.Fatalf("%q: kind = %s, want band", name, pref.Kind)
		}
		if pref.Band.Name != name {
			t.Fatalf("%q: band = %s", name, pref.Band.Name)
		}
	}
}

func TestParsePreferredTime_MeridiemBeatsBand(t *testing.T) {
	pref := ParsePreferredTime("10 am in the morning")
	if pref.Kind != PreferExact || pref.ClockMinute != 10*60 {
		t.Fatalf("got kind=%s minute=%d, want exact 600", pref.Kind, pref.ClockMinute)
	}
}

func TestParsePreferredTime_UnparseableFallsBackToAny(t *testing.T) {
	for _, text := range []string{"", "whenever works", "25:99", "soonish"} {
		pref := ParsePreferredTime(text)
		if pref.Kind != PreferAny {
			t.Fatalf("%q: kind = %s, want any", text, pref.Kind)
		}
	}
}
