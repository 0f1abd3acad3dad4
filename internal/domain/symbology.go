package domain

import "fmt"

// Symbology identifies the encoding scheme of a scanned code.
// The wire form is the lowercase name emitted by the capture source.
type Symbology string

const (
	SymbologyQR      Symbology = "qr"
	SymbologyEAN13   Symbology = "ean13"
	SymbologyEAN8    Symbology = "ean8"
	SymbologyUPCA    Symbology = "upc_a"
	SymbologyUPCE    Symbology = "upc_e"
	SymbologyCode39  Symbology = "code39"
	SymbologyCode128 Symbology = "code128"
	SymbologyPDF417  Symbology = "pdf417"
)

// AllSymbologies lists every symbology the capture source may emit.
var AllSymbologies = []Symbology{
	SymbologyQR,
	SymbologyEAN13,
	SymbologyEAN8,
	SymbologyUPCA,
	SymbologyUPCE,
	SymbologyCode39,
	SymbologyCode128,
	SymbologyPDF417,
}

// ParseSymbology validates a raw symbology string from the capture source.
func ParseSymbology(s string) (Symbology, error) {
	for _, sym := range AllSymbologies {
		if Symbology(s) == sym {
			return sym, nil
		}
	}
	return "", fmt.Errorf("unknown symbology: %q", s)
}

// DefaultLookupTriggers is the set of symbologies that trigger a product
// lookup. EAN-8 and UPC-E are accepted as scan symbologies but stay out of
// the set unless a profile adds them.
func DefaultLookupTriggers() map[Symbology]bool {
	return map[Symbology]bool{
		SymbologyEAN13: true,
		SymbologyUPCA:  true,
	}
}
