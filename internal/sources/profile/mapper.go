package profile

import (
	"fmt"

	"github.com/edseguy/code-scanner/internal/domain"
)

// Mapper converts a FileConfig into a runtime domain.Profile
type Mapper struct{}

// NewMapper creates a new mapper instance
func NewMapper() *Mapper {
	return &Mapper{}
}

// Map validates the file config and builds the runtime profile. Unknown
// symbologies are rejected rather than silently dropped, and zoom is
// clamped to the capture source's [0.0, 1.0] range.
func (m *Mapper) Map(config *FileConfig) (*domain.Profile, error) {
	p := domain.DefaultProfile()

	if len(config.Symbologies) > 0 {
		symbologies := make(map[domain.Symbology]bool, len(config.Symbologies))
		for _, raw := range config.Symbologies {
			sym, err := domain.ParseSymbology(raw)
			if err != nil {
				return nil, fmt.Errorf("invalid symbology in profile: %w", err)
			}
			symbologies[sym] = true
		}
		p.Symbologies = symbologies
	}

	if len(config.LookupTriggers) > 0 {
		triggers := make(map[domain.Symbology]bool, len(config.LookupTriggers))
		for _, raw := range config.LookupTriggers {
			sym, err := domain.ParseSymbology(raw)
			if err != nil {
				return nil, fmt.Errorf("invalid lookup trigger in profile: %w", err)
			}
			if !p.Symbologies[sym] {
				return nil, fmt.Errorf("lookup trigger %s is not an enabled symbology", sym)
			}
			triggers[sym] = true
		}
		p.LookupTriggers = triggers
	}

	zoom := config.Zoom
	if zoom < 0 {
		zoom = 0
	}
	if zoom > 1 {
		zoom = 1
	}
	p.Zoom = zoom
	p.Torch = config.Torch

	return p, nil
}
