// Package config decodes the input configuration record (§6) and maps
// core fault kinds onto the process-boundary exit codes the teacher's
// original_source/error_codes.h defines.
package config

import (
	"encoding/json"
	"fmt"
	"io"
)

// Config is the input configuration record: one JSON document describing
// how to render one or more Gerber streams into a single image.
type Config struct {
	ImageDPI       float64  `json:"imageDPI"`
	GrowSize       float64  `json:"growSize"`
	GrowUnitsMM    bool     `json:"growUnitsMM"`
	Border         float64  `json:"border"`
	BorderUnitsMM  bool     `json:"borderUnitsMM"`
	InvertPolarity bool     `json:"invertPolarity"`
	RowsPerStrip   int      `json:"rowsPerStrip"`
	ScaleX         float64  `json:"scaleX"`
	ScaleY         float64  `json:"scaleY"`
	Inputs         []string `json:"inputs"`
}

// LoadJSON decodes a Config from r and validates the fields §6 constrains
// (imageDPI > 0, scaleX/scaleY > 0, border >= 0, rowsPerStrip >= 0).
func LoadJSON(r io.Reader) (Config, error) {
	var c Config
	dec := json.NewDecoder(r)
	if err := dec.Decode(&c); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if c.ScaleX == 0 {
		c.ScaleX = 1
	}
	if c.ScaleY == 0 {
		c.ScaleY = 1
	}
	if c.ImageDPI <= 0 {
		return Config{}, fmt.Errorf("imageDPI must be > 0, got %v", c.ImageDPI)
	}
	if c.ScaleX <= 0 || c.ScaleY <= 0 {
		return Config{}, fmt.Errorf("scaleX/scaleY must be > 0")
	}
	if c.Border < 0 {
		return Config{}, fmt.Errorf("border must be >= 0, got %v", c.Border)
	}
	if c.RowsPerStrip < 0 {
		return Config{}, fmt.Errorf("rowsPerStrip must be >= 0, got %v", c.RowsPerStrip)
	}
	if len(c.Inputs) == 0 {
		return Config{}, fmt.Errorf("at least one input stream is required")
	}
	return c, nil
}
