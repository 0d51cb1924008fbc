package weather

import "farmbook/internal/core"

// Advice is one recommendation for the day's field work.
type Advice struct {
	Message string
	Tone    core.BadgeTone
}

// AdviceFor evaluates the rule set against one forecast day. Rules
// accumulate; the all-clear message appears only when nothing else
// fired and conditions sit in the comfortable band.
func AdviceFor(d Day) []Advice {
	var out []Advice

	if d.Precipitation > 70 {
		out = append(out, Advice{Message: "Heavy rain expected - avoid field work", Tone: core.ToneWarning})
	} else if d.Precipitation > 40 {
		out = append(out, Advice{Message: "Rain likely - plan indoor activities", Tone: core.ToneInfo})
	}

	if d.Precipitation < 10 && d.High > 85 {
		out = append(out, Advice{Message: "Hot and dry - increase irrigation", Tone: core.ToneWarning})
	}

	if d.WindSpeed > 20 {
		out = append(out, Advice{Message: "High winds - secure equipment", Tone: core.ToneWarning})
	}

	if d.High > 90 {
		out = append(out, Advice{Message: "Extreme heat - protect livestock", Tone: core.ToneError})
	}

	if d.High < 32 {
		out = append(out, Advice{Message: "Freezing temperatures - protect plants", Tone: core.ToneError})
	}

	if len(out) == 0 && d.Precipitation < 20 && d.High > 60 && d.High < 80 {
		out = append(out, Advice{Message: "Good conditions for fieldwork", Tone: core.ToneSuccess})
	}

	return out
}
