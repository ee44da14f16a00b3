//go:build !tensorflow

package analysis

import (
	"fmt"
)

// LoadPitchModel reports the neural capability as absent in builds without
// the tensorflow tag. The tracker falls back to autocorrelation.
func LoadPitchModel(cfg PitchConfig) (PitchModel, error) {
	return nil, fmt.Errorf("built without tensorflow support")
}
