// Package puzzle ties the generator, renderer, cipher and stego codec into
// the hide and reveal workflows.
package puzzle

import (
	"bytes"
	"io"

	"github.com/0xlayout/privacypuzzle/internal/config"
	"github.com/0xlayout/privacypuzzle/internal/crypto"
	"github.com/0xlayout/privacypuzzle/internal/nonogram"
	"github.com/0xlayout/privacypuzzle/internal/steg"
)

// HideOptions configures Hide. Zero Puzzle fields are not defaulted; start
// from config.Default().
type HideOptions struct {
	Message  []byte
	Password string
	Puzzle   config.Puzzle
}

// HideResult is the finished carrier plus what went into it.
type HideResult struct {
	Image    []byte // encoded in Format
	Format   string
	Puzzle   *nonogram.Puzzle
	Width    int
	Height   int
	Envelope int // envelope bytes embedded
	Capacity int // payload bytes the carrier could have held
}

// Hide generates a nonogram, renders it, encrypts the message and embeds the
// envelope in the rendered image.
func Hide(opts HideOptions) (*HideResult, error) {
	if err := opts.Puzzle.Validate(); err != nil {
		return nil, err
	}

	p, err := nonogram.Generate(opts.Puzzle.Size, opts.Puzzle.Size, opts.Puzzle.Fill)
	if err != nil {
		return nil, err
	}
	img, err := nonogram.Render(p.RowHints, p.ColHints, opts.Puzzle.CellSize)
	if err != nil {
		return nil, err
	}

	envelope, err := crypto.Encrypt(opts.Message, opts.Password)
	if err != nil {
		return nil, err
	}

	carrier := steg.NewRaster(img)
	stego, err := steg.Embed(carrier, envelope)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := steg.Encode(&buf, stego, opts.Puzzle.Format); err != nil {
		return nil, err
	}

	return &HideResult{
		Image:    buf.Bytes(),
		Format:   opts.Puzzle.Format,
		Puzzle:   p,
		Width:    stego.Width,
		Height:   stego.Height,
		Envelope: len(envelope),
		Capacity: steg.MaxPayload(carrier),
	}, nil
}

// Reveal extracts the envelope from an encoded image and decrypts it. A
// malformed frame fails in the codec; anything that parses but was damaged
// or sealed under another password fails the cipher's tag check.
func Reveal(r io.Reader, password string) ([]byte, error) {
	raster, _, err := steg.Decode(r)
	if err != nil {
		return nil, err
	}
	envelope, err := steg.Extract(raster)
	if err != nil {
		return nil, err
	}
	return crypto.Decrypt(envelope, password)
}

// Report describes how much an image can carry.
type Report struct {
	Format    string `json:"format"`
	Width     int    `json:"width"`
	Height    int    `json:"height"`
	Bits      int    `json:"bits"`      // raw LSB capacity
	Payload   int    `json:"payload"`   // largest frame payload
	Plaintext int    `json:"plaintext"` // largest message after envelope overhead
	Lossy     bool   `json:"lossy"`     // format cannot have preserved hidden bits
}

// Capacity inspects an encoded image and reports its hiding capacity.
func Capacity(r io.Reader) (*Report, error) {
	raster, format, err := steg.Decode(r)
	if err != nil {
		return nil, err
	}
	payload := steg.MaxPayload(raster)
	return &Report{
		Format:    format,
		Width:     raster.Width,
		Height:    raster.Height,
		Bits:      steg.Capacity(raster),
		Payload:   payload,
		Plaintext: max(0, payload-crypto.HeaderSize),
		Lossy:     format == "jpeg" || format == "gif",
	}, nil
}
