package steg

import (
	"encoding/binary"
	"fmt"
	"image"
	"image/draw"
	"math"

	"github.com/0xlayout/privacypuzzle/internal/failure"
)

// LengthSize is the width of the big-endian length prefix in a frame.
const LengthSize = 4

// Channels is the channel count of rasters built by NewRaster (R, G, B, A).
const Channels = 4

// Raster is an uncompressed pixel buffer. Pix holds Width*Height*Channels
// bytes, row major, channels interleaved.
type Raster struct {
	Pix      []byte
	Width    int
	Height   int
	Channels int
}

// NewRaster copies any decoded image into a non-premultiplied RGBA raster so
// every channel byte, alpha included, round-trips through lossless encoders.
func NewRaster(src image.Image) Raster {
	b := src.Bounds()
	nrgba := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))

	// draw.Draw goes through premultiplied color, which would disturb the
	// low bits of translucent pixels, so NRGBA sources are copied verbatim.
	if m, ok := src.(*image.NRGBA); ok {
		for y := 0; y < b.Dy(); y++ {
			off := m.PixOffset(b.Min.X, b.Min.Y+y)
			copy(nrgba.Pix[y*nrgba.Stride:(y+1)*nrgba.Stride], m.Pix[off:off+b.Dx()*Channels])
		}
	} else {
		draw.Draw(nrgba, nrgba.Bounds(), src, b.Min, draw.Src)
	}
	return Raster{Pix: nrgba.Pix, Width: b.Dx(), Height: b.Dy(), Channels: Channels}
}

// Image returns r as an *image.NRGBA sharing r's buffer. Only 4-channel
// rasters can be viewed this way.
func (r Raster) Image() (*image.NRGBA, error) {
	if err := r.validate(); err != nil {
		return nil, err
	}
	if r.Channels != Channels {
		return nil, fmt.Errorf("%w: %d-channel raster has no NRGBA view", failure.ErrValidation, r.Channels)
	}
	return &image.NRGBA{Pix: r.Pix, Stride: r.Width * Channels, Rect: image.Rect(0, 0, r.Width, r.Height)}, nil
}

func (r Raster) validate() error {
	if r.Width <= 0 || r.Height <= 0 || r.Channels <= 0 {
		return fmt.Errorf("%w: raster dimensions %dx%dx%d", failure.ErrValidation, r.Width, r.Height, r.Channels)
	}
	if len(r.Pix) != r.Width*r.Height*r.Channels {
		return fmt.Errorf("%w: raster buffer is %d bytes, want %d", failure.ErrValidation, len(r.Pix), r.Width*r.Height*r.Channels)
	}
	return nil
}

// Capacity is the number of bits r can hide, one per buffer byte.
func Capacity(r Raster) int {
	return r.Width * r.Height * r.Channels
}

// MaxPayload is the largest payload, in bytes, that Embed accepts for r.
func MaxPayload(r Raster) int {
	n := Capacity(r)/8 - LengthSize
	if n < 0 {
		return 0
	}
	return n
}

// frame prefixes data with its length as a 4-byte big-endian integer.
func frame(data []byte) []byte {
	out := make([]byte, LengthSize+len(data))
	binary.BigEndian.PutUint32(out, uint32(len(data)))
	copy(out[LengthSize:], data)
	return out
}

// Embed hides data in the least significant bits of a copy of r. Bit i of the
// frame, most significant bit of each byte first, goes into buffer byte i.
// r itself is never modified.
func Embed(r Raster, data []byte) (Raster, error) {
	if err := r.validate(); err != nil {
		return Raster{}, err
	}
	if uint64(len(data)) > math.MaxUint32 {
		return Raster{}, fmt.Errorf("%w: payload of %d bytes exceeds the 32-bit length field", failure.ErrCapacity, len(data))
	}

	bits := (LengthSize + len(data)) * 8
	if bits > Capacity(r) {
		return Raster{}, fmt.Errorf("%w: need %d bits, image holds %d", failure.ErrCapacity, bits, Capacity(r))
	}

	payload := frame(data)
	out := r
	out.Pix = make([]byte, len(r.Pix))
	copy(out.Pix, r.Pix)

	for bitIdx := 0; bitIdx < bits; bitIdx++ {
		bit := (payload[bitIdx/8] >> (7 - bitIdx%8)) & 1 // MSB first
		out.Pix[bitIdx] = (out.Pix[bitIdx] & 0xFE) | bit
	}
	return out, nil
}

// readByte assembles the eight LSBs starting at buffer offset off.
func readByte(pix []byte, off int) byte {
	var b byte
	for j := 0; j < 8; j++ {
		b = (b << 1) | (pix[off+j] & 1)
	}
	return b
}

// Extract reads a frame written by Embed. The declared length is only
// bounded against the raster size; integrity of the returned bytes is the
// caller's concern.
func Extract(r Raster) ([]byte, error) {
	if err := r.validate(); err != nil {
		return nil, err
	}
	totalBits := Capacity(r)
	if totalBits < LengthSize*8 {
		return nil, fmt.Errorf("%w: image too small to contain length header", failure.ErrFormat)
	}

	var lenBytes [LengthSize]byte
	for i := range lenBytes {
		lenBytes[i] = readByte(r.Pix, i*8)
	}
	declared := uint64(binary.BigEndian.Uint32(lenBytes[:]))

	if declared*8 > uint64(totalBits-LengthSize*8) {
		return nil, fmt.Errorf("%w: invalid data length or corrupt image", failure.ErrFormat)
	}

	payload := make([]byte, declared)
	for i := range payload {
		payload[i] = readByte(r.Pix, (LengthSize+i)*8)
	}
	return payload, nil
}

// EmbedImage is Embed over a decoded image.
func EmbedImage(src image.Image, data []byte) (Raster, error) {
	return Embed(NewRaster(src), data)
}

// ExtractImage is Extract over a decoded image.
func ExtractImage(src image.Image) ([]byte, error) {
	return Extract(NewRaster(src))
}
