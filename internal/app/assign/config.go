// internal/app/assign/config.go
package assign

import (
	"github.com/dawitfm/famhub/internal/domain/models"
)

// Assignment modes.
const (
	ModeHomogeneous   = "homogeneous"   // prefer geographic similarity between child and parents
	ModeHeterogeneous = "heterogeneous" // prefer geographic diversity
)

// Address levels, finest to coarsest. Index order matters: homogeneous
// scoring probes coarser levels by walking right through this list.
const (
	LevelKebele = "kebele"
	LevelWereda = "wereda"
	LevelZone   = "zone"
	LevelRegion = "region"
)

var levelOrder = []string{LevelKebele, LevelWereda, LevelZone, LevelRegion}

// DefaultMaxChildren caps children per parent pair when the request does
// not say otherwise.
const DefaultMaxChildren = 4

// Config drives one preview run.
type Config struct {
	Mode                  string `json:"mode"`
	TargetBatch           string `json:"targetBatch"`
	MaxChildrenPerFamily  int    `json:"maxChildrenPerFamily"`
	ConsiderGenderBalance bool   `json:"considerGenderBalance"`
	ConsiderAge           bool   `json:"considerAge"`
	// AddressLevel optionally names the shared address level homogeneous
	// slots should anchor on when the parents share it; otherwise the
	// most specific shared level is used.
	AddressLevel string `json:"addressLevel,omitempty"`
}

// validate normalizes defaults and checks preconditions.
func (c *Config) validate() error {
	if c.Mode == "" {
		return validationf("mode is required")
	}
	if c.Mode != ModeHomogeneous && c.Mode != ModeHeterogeneous {
		return validationf("mode must be %q or %q", ModeHomogeneous, ModeHeterogeneous)
	}
	if c.TargetBatch == "" {
		return validationf("targetBatch is required")
	}
	if c.MaxChildrenPerFamily < 0 {
		return validationf("maxChildrenPerFamily must be positive")
	}
	if c.MaxChildrenPerFamily == 0 {
		c.MaxChildrenPerFamily = DefaultMaxChildren
	}
	if c.AddressLevel != "" && levelIndex(c.AddressLevel) < 0 {
		return validationf("addressLevel must be one of kebele, wereda, zone, region")
	}
	return nil
}

func levelIndex(level string) int {
	for i, l := range levelOrder {
		if l == level {
			return i
		}
	}
	return -1
}

// addressAt returns the student's value at the named level.
func addressAt(s models.Student, level string) string {
	switch level {
	case LevelKebele:
		return s.Kebele
	case LevelWereda:
		return s.Wereda
	case LevelZone:
		return s.Zone
	case LevelRegion:
		return s.Region
	}
	return ""
}
