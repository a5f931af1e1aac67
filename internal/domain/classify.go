package domain

import "strings"

// penSignals mark pen-and-paper listings in title/preview text. Checked
// first because pen listings often still mention the phone-quiz brand.
var penSignals = []string{"pen and paper", "pen & paper", "pen quiz", "paper quiz"}

// ClassifyType derives the quiz format from title and preview text,
// case-insensitively. Records with no distinguishing signal default to
// TypePhone: the export's source is a phone-quiz listing site, and its own
// "SpeedQuizzing" signature titles land on the same default.
func ClassifyType(rec RawRecord) EventType {
	text := strings.ToLower(rec.EventTitle + " " + rec.SourcePreview)
	for _, signal := range penSignals {
		if strings.Contains(text, signal) {
			return TypePen
		}
	}
	return TypePhone
}
