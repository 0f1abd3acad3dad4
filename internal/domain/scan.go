package domain

// ScanEvent is a raw decoded-code event delivered by the capture source.
// It is never persisted directly.
type ScanEvent struct {
	Symbology Symbology `json:"type"`
	Payload   string    `json:"data"`
}

// ClassifiedScan is the output of Classify: the raw event plus the
// URL-shape verdict. Ephemeral, derived once per event.
type ClassifiedScan struct {
	Symbology   Symbology
	Payload     string
	IsLikelyURL bool
}

// HistoryEntry is one persisted scan record.
//
// PayloadIsOpenableURL is true only when the payload matched the URL shape
// AND the shell confirmed it can open it. The two facts are independent:
// shape match alone sets the annotation hint, not this flag.
type HistoryEntry struct {
	ID                   string    `json:"id"`
	Symbology            Symbology `json:"type"`
	Payload              string    `json:"data"`
	CapturedAt           string    `json:"timestamp"`
	Annotation           string    `json:"result,omitempty"`
	PayloadIsOpenableURL bool      `json:"canOpenURL"`
}
