package signature

import (
	"bytes"
	"encoding/base64"
	"errors"
	"image"
	"image/color"
	"image/png"

	"BandDesk/entity"
)

// ErrEmptyPad reports a save on a pad with no recorded strokes.
var ErrEmptyPad = errors.New("signature pad is empty")

// Point is a single sampled position on the capture surface.
type Point struct {
	X int
	Y int
}

// Pad accumulates freehand strokes and renders them into a self-contained
// signature payload. It has no dependency on the store; clearing a pad never
// touches anything persisted.
type Pad struct {
	strokes [][]Point
}

// NewPad creates an empty capture surface.
func NewPad() *Pad {
	return &Pad{}
}

// AddStroke records one continuous stroke. Empty strokes are ignored.
func (p *Pad) AddStroke(points []Point) {
	if len(points) == 0 {
		return
	}
	stroke := make([]Point, len(points))
	copy(stroke, points)
	p.strokes = append(p.strokes, stroke)
}

// Clear discards all accumulated strokes.
func (p *Pad) Clear() {
	p.strokes = nil
}

// IsEmpty reports whether any strokes were recorded since the last Clear.
func (p *Pad) IsEmpty() bool {
	return len(p.strokes) == 0
}

const padMargin = 4

// Save renders the drawn region, trimmed to its bounding box, as an encoded
// PNG payload suitable for embedding in an agreement document. The output is
// deterministic for identical strokes. Saving an empty pad fails with
// ErrEmptyPad and produces no payload.
func (p *Pad) Save() (entity.SignaturePayload, error) {
	if p.IsEmpty() {
		return "", ErrEmptyPad
	}

	minX, minY, maxX, maxY := p.bounds()

	width := maxX - minX + 2*padMargin + 1
	height := maxY - minY + 2*padMargin + 1
	canvas := image.NewGray(image.Rect(0, 0, width, height))

	ink := color.Gray{Y: 0}
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			canvas.SetGray(x, y, color.Gray{Y: 255})
		}
	}

	offset := Point{X: padMargin - minX, Y: padMargin - minY}
	for _, stroke := range p.strokes {
		prev := stroke[0]
		canvas.SetGray(prev.X+offset.X, prev.Y+offset.Y, ink)
		for _, next := range stroke[1:] {
			drawSegment(canvas, prev, next, offset, ink)
			prev = next
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, canvas); err != nil {
		return "", err
	}

	payload := "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes())
	return entity.SignaturePayload(payload), nil
}

func (p *Pad) bounds() (minX, minY, maxX, maxY int) {
	first := p.strokes[0][0]
	minX, minY, maxX, maxY = first.X, first.Y, first.X, first.Y
	for _, stroke := range p.strokes {
		for _, pt := range stroke {
			if pt.X < minX {
				minX = pt.X
			}
			if pt.Y < minY {
				minY = pt.Y
			}
			if pt.X > maxX {
				maxX = pt.X
			}
			if pt.Y > maxY {
				maxY = pt.Y
			}
		}
	}
	return minX, minY, maxX, maxY
}

// drawSegment connects two samples with a Bresenham line.
func drawSegment(canvas *image.Gray, from, to, offset Point, ink color.Gray) {
	x0, y0 := from.X+offset.X, from.Y+offset.Y
	x1, y1 := to.X+offset.X, to.Y+offset.Y

	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy

	for {
		canvas.SetGray(x0, y0, ink)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
