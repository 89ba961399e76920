package steg

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/0xlayout/privacypuzzle/internal/failure"
)

// testImage builds a w x h image with a patterned, non-uniform buffer.
func testImage(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for i := range img.Pix {
		img.Pix[i] = byte((i % 257) ^ (i >> 8))
	}
	return img
}

func randomBytes(r *rand.Rand, n int) []byte {
	b := make([]byte, n)
	for i := range b {
		b[i] = byte(r.Uint32())
	}
	return b
}

func TestEmbedExtractInverse(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	sizes := [][2]int{{2, 4}, {3, 3}, {4, 4}, {10, 10}, {37, 19}, {100, 100}}

	for _, sz := range sizes {
		raster := NewRaster(testImage(sz[0], sz[1]))
		for _, n := range []int{0, 1, MaxPayload(raster) / 2, MaxPayload(raster)} {
			if n > MaxPayload(raster) {
				continue
			}
			data := randomBytes(rng, n)
			stego, err := Embed(raster, data)
			require.NoError(t, err, "%dx%d payload %d", sz[0], sz[1], n)

			got, err := Extract(stego)
			require.NoError(t, err)
			require.Equal(t, data, got)
		}
	}
}

func TestCapacityBoundary(t *testing.T) {
	raster := NewRaster(testImage(100, 100))
	require.Equal(t, 100*100*4, Capacity(raster))

	// Frame bits exactly equal to capacity.
	exact := bytes.Repeat([]byte("C"), Capacity(raster)/8-LengthSize)
	stego, err := Embed(raster, exact)
	require.NoError(t, err)
	got, err := Extract(stego)
	require.NoError(t, err)
	require.Equal(t, exact, got)

	original := bytes.Clone(raster.Pix)
	_, err = Embed(raster, append(exact, 'X'))
	require.ErrorIs(t, err, failure.ErrCapacity)
	require.Equal(t, original, raster.Pix)
}

func TestCapacityBoundaryBitLevel(t *testing.T) {
	// 3x3x4 = 36 bits: room for the 32-bit length and nothing else.
	raster := NewRaster(testImage(3, 3))
	require.Equal(t, 0, MaxPayload(raster))

	stego, err := Embed(raster, nil)
	require.NoError(t, err)
	got, err := Extract(stego)
	require.NoError(t, err)
	require.Empty(t, got)

	_, err = Embed(raster, []byte{1})
	require.ErrorIs(t, err, failure.ErrCapacity)
}

func TestEmbedDoesNotMutateInput(t *testing.T) {
	raster := NewRaster(testImage(20, 20))
	original := bytes.Clone(raster.Pix)

	stego, err := Embed(raster, []byte("do not touch the carrier"))
	require.NoError(t, err)
	require.Equal(t, original, raster.Pix)
	require.NotEqual(t, original, stego.Pix)
}

func TestEmbedTouchesOnlyLowBits(t *testing.T) {
	raster := NewRaster(testImage(30, 30))
	stego, err := Embed(raster, bytes.Repeat([]byte{0xA5}, 200))
	require.NoError(t, err)

	for i := range raster.Pix {
		require.Equal(t, raster.Pix[i]&0xFE, stego.Pix[i]&0xFE, "byte %d", i)
	}
}

func TestFrameLayout(t *testing.T) {
	raster := NewRaster(image.NewNRGBA(image.Rect(0, 0, 8, 8)))
	stego, err := Embed(raster, []byte{0x80})
	require.NoError(t, err)

	// Length 1 as 32 bits MSB first: 31 zeros then a one, at offsets 0..31.
	for i := 0; i < 31; i++ {
		require.Zero(t, stego.Pix[i]&1, "offset %d", i)
	}
	require.Equal(t, byte(1), stego.Pix[31]&1)
	// Payload 0x80: a one at offset 32, zeros after.
	require.Equal(t, byte(1), stego.Pix[32]&1)
	for i := 33; i < 40; i++ {
		require.Zero(t, stego.Pix[i]&1, "offset %d", i)
	}
}

func TestExtractRejectsOversizedLength(t *testing.T) {
	raster := NewRaster(testImage(10, 10))
	for i := 0; i < 32; i++ {
		raster.Pix[i] |= 1
	}
	_, err := Extract(raster)
	require.ErrorIs(t, err, failure.ErrFormat)
}

func TestExtractDeclaredLengthJustOverCapacity(t *testing.T) {
	raster := NewRaster(testImage(4, 4)) // 64 bits, 4 payload bytes max
	stego, err := Embed(raster, []byte{1, 2, 3, 4})
	require.NoError(t, err)

	// Bump the declared length from 4 to 5.
	stego.Pix[31] |= 1
	_, err = Extract(stego)
	require.ErrorIs(t, err, failure.ErrFormat)
}

func TestExtractTooSmall(t *testing.T) {
	raster := NewRaster(testImage(2, 3)) // 24 bits
	_, err := Extract(raster)
	require.ErrorIs(t, err, failure.ErrFormat)
}

func TestInvalidRaster(t *testing.T) {
	_, err := Embed(Raster{Pix: make([]byte, 10), Width: 2, Height: 2, Channels: 4}, nil)
	require.ErrorIs(t, err, failure.ErrValidation)

	_, err = Extract(Raster{})
	require.ErrorIs(t, err, failure.ErrValidation)
}

func TestThreeChannelRaster(t *testing.T) {
	raster := Raster{Pix: make([]byte, 10*10*3), Width: 10, Height: 10, Channels: 3}
	require.Equal(t, 300, Capacity(raster))

	stego, err := Embed(raster, []byte("rgb"))
	require.NoError(t, err)
	got, err := Extract(stego)
	require.NoError(t, err)
	require.Equal(t, []byte("rgb"), got)

	_, err = stego.Image()
	require.ErrorIs(t, err, failure.ErrValidation)
}

func TestSurvivesLosslessReencode(t *testing.T) {
	secret := []byte("Message survives lossless recompression")
	for _, format := range []string{FormatPNG, FormatTIFF} {
		t.Run(format, func(t *testing.T) {
			stego, err := EmbedImage(testImage(100, 100), secret)
			require.NoError(t, err)

			var buf bytes.Buffer
			require.NoError(t, Encode(&buf, stego, format))

			decoded, gotFormat, err := Decode(&buf)
			require.NoError(t, err)
			require.Equal(t, format, gotFormat)
			require.Equal(t, stego.Pix, decoded.Pix)

			got, err := Extract(decoded)
			require.NoError(t, err)
			require.Equal(t, secret, got)
		})
	}
}

func TestSurvivesPNGCompressionLevels(t *testing.T) {
	secret := []byte("compression level does not matter")
	stego, err := EmbedImage(testImage(64, 64), secret)
	require.NoError(t, err)
	img, err := stego.Image()
	require.NoError(t, err)

	for _, level := range []png.CompressionLevel{png.NoCompression, png.BestSpeed, png.BestCompression} {
		var buf bytes.Buffer
		enc := png.Encoder{CompressionLevel: level}
		require.NoError(t, enc.Encode(&buf, img))

		decoded, err := png.Decode(&buf)
		require.NoError(t, err)
		got, err := ExtractImage(decoded)
		require.NoError(t, err)
		require.Equal(t, secret, got)
	}
}

func TestOpaqueCarrierRoundTrip(t *testing.T) {
	// Every pixel may stay at alpha 0xFF when the embedded alpha bits are 1.
	img := image.NewRGBA(image.Rect(0, 0, 16, 16))
	for y := 0; y < 16; y++ {
		for x := 0; x < 16; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 16), G: uint8(y * 16), B: 128, A: 255})
		}
	}
	stego, err := EmbedImage(img, []byte("hello"))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, stego, FormatPNG))
	cfg, err := png.DecodeConfig(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	require.Equal(t, color.NRGBAModel, cfg.ColorModel)

	got, err := ExtractImage(mustDecode(t, buf.Bytes()))
	require.NoError(t, err)
	require.Equal(t, []byte("hello"), got)
}

func TestEncodePNGKeepsAlphaForOpaqueRaster(t *testing.T) {
	r := NewRaster(testImage(8, 8))
	for i := 3; i < len(r.Pix); i += 4 {
		r.Pix[i] = 0xFF
	}

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, r, FormatPNG))
	require.Equal(t, byte(6), buf.Bytes()[25])

	decoded, _, err := Decode(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	require.Equal(t, r.Pix, decoded.Pix)
}

func TestEncodeUnknownFormat(t *testing.T) {
	var buf bytes.Buffer
	err := Encode(&buf, NewRaster(testImage(4, 4)), "bmp")
	require.ErrorIs(t, err, failure.ErrValidation)
}

func TestDecodeGarbage(t *testing.T) {
	_, _, err := Decode(bytes.NewReader([]byte("not an image")))
	require.ErrorIs(t, err, failure.ErrFormat)
}

func mustDecode(t *testing.T, b []byte) image.Image {
	t.Helper()
	img, _, err := image.Decode(bytes.NewReader(b))
	require.NoError(t, err)
	return img
}
