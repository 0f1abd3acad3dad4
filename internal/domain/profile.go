package domain

// Profile is the runtime scanner profile: which symbologies the session
// accepts, which ones trigger a product lookup, and the capture defaults
// pushed to the shell when the profile is applied.
type Profile struct {
	// Symbologies the session accepts. Events outside the set are
	// discarded without consuming the armed gate.
	Symbologies map[Symbology]bool

	// LookupTriggers maps symbologies to the product-lookup code path.
	LookupTriggers map[Symbology]bool

	// Zoom is the default capture zoom level in [0.0, 1.0].
	Zoom float64

	// Torch is the default torch state.
	Torch bool
}

// DefaultProfile accepts every symbology and uses the default trigger set.
func DefaultProfile() *Profile {
	symbologies := make(map[Symbology]bool, len(AllSymbologies))
	for _, sym := range AllSymbologies {
		symbologies[sym] = true
	}
	return &Profile{
		Symbologies:    symbologies,
		LookupTriggers: DefaultLookupTriggers(),
	}
}

// Accepts reports whether the profile admits events of the given symbology.
func (p *Profile) Accepts(sym Symbology) bool {
	return p.Symbologies[sym]
}

// TriggersLookup reports whether the symbology is in the lookup trigger set.
func (p *Profile) TriggersLookup(sym Symbology) bool {
	return p.LookupTriggers[sym]
}
