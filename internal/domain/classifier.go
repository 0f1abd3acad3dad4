package domain

import "regexp"

// urlShape is a conservative host-shape heuristic: optional scheme,
// dot-separated labels ending in a short top-level label, optional path.
// Matching says the payload looks like a URL, not that it is reachable.
var urlShape = regexp.MustCompile(`^(https?://)?([\da-z.-]+)\.([a-z.]{2,6})([/\w .-]*)*/?$`)

// Classify maps a raw scan event to its classified form. Pure and
// deterministic: safe to call repeatedly and concurrently.
func Classify(ev ScanEvent) ClassifiedScan {
	return ClassifiedScan{
		Symbology:   ev.Symbology,
		Payload:     ev.Payload,
		IsLikelyURL: ev.Payload != "" && urlShape.MatchString(ev.Payload),
	}
}
