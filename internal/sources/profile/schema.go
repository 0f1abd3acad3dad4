package profile

// FileConfig is the on-disk shape of the scanner profile yaml.
type FileConfig struct {
	// Symbologies the capture source should decode. Empty = all.
	Symbologies []string `yaml:"symbologies,omitempty"`

	// LookupTriggers overrides the symbologies that trigger a product
	// lookup. Empty = the built-in {ean13, upc_a} set.
	LookupTriggers []string `yaml:"lookup_triggers,omitempty"`

	// Zoom is the default capture zoom level in [0.0, 1.0].
	Zoom float64 `yaml:"zoom,omitempty"`

	// Torch is the default torch state.
	Torch bool `yaml:"torch,omitempty"`
}
