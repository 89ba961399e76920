// Package config holds the defaults and bounds applied to user supplied
// puzzle parameters by the CLI and the HTTP service.
package config

import (
	"fmt"
	"os"

	"github.com/0xlayout/privacypuzzle/internal/failure"
	"github.com/0xlayout/privacypuzzle/internal/nonogram"
	"github.com/0xlayout/privacypuzzle/internal/steg"
)

const (
	DefaultSize     = 15
	DefaultCellSize = 40
	DefaultOutput   = "puzzle"
	DefaultDir      = "output"
	DefaultFormat   = steg.FormatPNG
	DefaultAddr     = ":8080"

	MinSize = 5
	MaxSize = 30

	// MinCellSize fits one 13px hint line per row and a two-digit column
	// hint per cell, with a gap between neighbouring labels.
	MinCellSize = 16
	MaxCellSize = 200

	// MaxMessage bounds messages accepted by the HTTP service.
	MaxMessage = 1 << 20

	// Environment overrides.
	PasswordEnv = "PRIVACYPUZZLE_PASSWORD"
	AddrEnv     = "PUZZLESVC_ADDR"
)

// Puzzle describes the carrier to generate.
type Puzzle struct {
	Size     int
	CellSize int
	Fill     float64
	Format   string
}

// Default returns the parameters used when nothing is specified.
func Default() Puzzle {
	return Puzzle{
		Size:     DefaultSize,
		CellSize: DefaultCellSize,
		Fill:     nonogram.DefaultFill,
		Format:   DefaultFormat,
	}
}

// Validate checks p against the supported ranges.
func (p Puzzle) Validate() error {
	if p.Size < MinSize || p.Size > MaxSize {
		return fmt.Errorf("%w: size must be between %d and %d, got %d", failure.ErrValidation, MinSize, MaxSize, p.Size)
	}
	if p.CellSize < MinCellSize || p.CellSize > MaxCellSize {
		return fmt.Errorf("%w: cell size must be between %d and %d, got %d", failure.ErrValidation, MinCellSize, MaxCellSize, p.CellSize)
	}
	if p.Fill < 0 || p.Fill > 1 {
		return fmt.Errorf("%w: fill probability must be between 0 and 1, got %v", failure.ErrValidation, p.Fill)
	}
	if _, err := steg.Extension(p.Format); err != nil {
		return err
	}
	return nil
}

// Addr returns the service listen address: flag value if set, then the
// environment, then DefaultAddr.
func Addr(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if v := os.Getenv(AddrEnv); v != "" {
		return v
	}
	return DefaultAddr
}
