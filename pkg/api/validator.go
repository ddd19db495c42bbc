package api

import (
	"errors"
	"fmt"

	"github.com/NoahDarveau/MarkovMario/pkg/generator"
)

// MaxWidth caps requested level widths.
const MaxWidth = 4096

// Validator is implemented by DTOs that can check themselves.
type Validator interface {
	Validate() error
}

func (r GenerateRequest) Validate() error {
	if r.Seed != nil && r.Level != nil {
		return errors.New("seed and level are mutually exclusive")
	}
	if r.Level != nil && *r.Level < 0 {
		return errors.New("level must not be negative")
	}
	if r.Width != 0 && (r.Width < 2 || r.Width > MaxWidth) {
		return fmt.Errorf("width must be between 2 and %d", MaxWidth)
	}
	if _, err := generator.ParsePolicy(r.Policy); err != nil {
		return err
	}
	return nil
}
