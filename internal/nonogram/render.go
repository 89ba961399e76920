package nonogram

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"strconv"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/0xlayout/privacypuzzle/internal/failure"
)

var (
	background = color.NRGBA{0xFF, 0xFF, 0xFF, 0xFF}
	gridLine   = color.NRGBA{0xB0, 0xB0, 0xB0, 0xFF}
	majorLine  = color.NRGBA{0x40, 0x40, 0x40, 0xFF}
	ink        = color.NRGBA{0x10, 0x10, 0x10, 0xFF}
)

// majorEvery is the spacing of the heavier guide lines.
const majorEvery = 5

type layout struct {
	face     font.Face
	cell     int
	pad      int
	line     int // text line height
	left     int // x of the grid's left edge
	top      int // y of the grid's top edge
	rows     int
	cols     int
	rowLabel []string
}

func newLayout(rowHints, colHints [][]int, cellSize int) (*layout, error) {
	if cellSize <= 0 {
		return nil, fmt.Errorf("%w: cell size must be positive, got %d", failure.ErrValidation, cellSize)
	}
	if err := validateHints("row", rowHints); err != nil {
		return nil, err
	}
	if err := validateHints("column", colHints); err != nil {
		return nil, err
	}

	l := &layout{
		face: basicfont.Face7x13,
		cell: cellSize,
		pad:  max(4, cellSize/4),
		rows: len(rowHints),
		cols: len(colHints),
	}
	l.line = l.face.Metrics().Height.Ceil()

	widest := 0
	l.rowLabel = make([]string, len(rowHints))
	for i, hints := range rowHints {
		l.rowLabel[i] = joinHints(hints)
		widest = max(widest, font.MeasureString(l.face, l.rowLabel[i]).Ceil())
	}
	tallest := 0
	for _, hints := range colHints {
		tallest = max(tallest, len(hints))
	}

	l.left = widest + 2*l.pad
	l.top = tallest*l.line + 2*l.pad
	return l, nil
}

func joinHints(hints []int) string {
	parts := make([]string, len(hints))
	for i, n := range hints {
		parts[i] = strconv.Itoa(n)
	}
	return strings.Join(parts, " ")
}

func (l *layout) bounds() image.Rectangle {
	return image.Rect(0, 0, l.left+l.cols*l.cell+l.pad, l.top+l.rows*l.cell+l.pad)
}

// cellInterior is the part of cell (x, y) not covered by grid lines.
func (l *layout) cellInterior(x, y int) image.Rectangle {
	x0, y0 := l.left+x*l.cell, l.top+y*l.cell
	return image.Rect(x0+1, y0+1, x0+l.cell, y0+l.cell)
}

func fillRect(dst draw.Image, r image.Rectangle, c color.Color) {
	draw.Draw(dst, r, image.NewUniform(c), image.Point{}, draw.Src)
}

func (l *layout) drawGrid(dst draw.Image) {
	right, bottom := l.left+l.cols*l.cell, l.top+l.rows*l.cell
	for x := 0; x <= l.cols; x++ {
		c := gridLine
		if x%majorEvery == 0 || x == l.cols {
			c = majorLine
		}
		px := l.left + x*l.cell
		fillRect(dst, image.Rect(px, l.top, px+1, bottom+1), c)
	}
	for y := 0; y <= l.rows; y++ {
		c := gridLine
		if y%majorEvery == 0 || y == l.rows {
			c = majorLine
		}
		py := l.top + y*l.cell
		fillRect(dst, image.Rect(l.left, py, right+1, py+1), c)
	}
}

func (l *layout) drawHints(dst draw.Image, colHints [][]int) {
	d := &font.Drawer{Dst: dst, Src: image.NewUniform(ink), Face: l.face}
	m := l.face.Metrics()
	// Offset from a cell's vertical centre to the baseline of centred text.
	center := (m.Ascent.Ceil() - m.Descent.Ceil()) / 2

	for y, label := range l.rowLabel {
		w := font.MeasureString(l.face, label).Ceil()
		d.Dot = fixed.P(l.left-l.pad-w, l.top+y*l.cell+l.cell/2+center)
		d.DrawString(label)
	}

	for x, hints := range colHints {
		for i, n := range hints {
			s := strconv.Itoa(n)
			w := font.MeasureString(l.face, s).Ceil()
			fromBottom := len(hints) - 1 - i
			d.Dot = fixed.P(
				l.left+x*l.cell+(l.cell-w)/2,
				l.top-l.pad-fromBottom*l.line-m.Descent.Ceil(),
			)
			d.DrawString(s)
		}
	}
}

func (l *layout) render(colHints [][]int) *image.NRGBA {
	img := image.NewNRGBA(l.bounds())
	fillRect(img, img.Bounds(), background)
	l.drawGrid(img)
	l.drawHints(img, colHints)
	return img
}

// Render draws an empty puzzle grid with its hints. The grid occupies
// len(colHints)*cellSize by len(rowHints)*cellSize pixels; margins on the
// left and top are sized to fit the longest row and column hint so labels
// never overlap the grid. The result is fully opaque RGBA.
func Render(rowHints, colHints [][]int, cellSize int) (*image.NRGBA, error) {
	l, err := newLayout(rowHints, colHints, cellSize)
	if err != nil {
		return nil, err
	}
	return l.render(colHints), nil
}

// RenderSolution draws p with its filled cells shaded, for the puzzle
// author's reference.
func RenderSolution(p *Puzzle, cellSize int) (*image.NRGBA, error) {
	l, err := newLayout(p.RowHints, p.ColHints, cellSize)
	if err != nil {
		return nil, err
	}
	img := l.render(p.ColHints)
	for y, row := range p.Grid {
		for x, filled := range row {
			if filled {
				fillRect(img, l.cellInterior(x, y), ink)
			}
		}
	}
	return img, nil
}

// rgbaPNG makes png.Encode write color type 6 for an opaque image instead
// of dropping the alpha plane.
type rgbaPNG struct{ *image.NRGBA }

func (rgbaPNG) Opaque() bool { return false }

// RenderPNG is Render followed by PNG encoding. The PNG always carries four
// channels.
func RenderPNG(rowHints, colHints [][]int, cellSize int) ([]byte, error) {
	img, err := Render(rowHints, colHints, cellSize)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, rgbaPNG{img}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
