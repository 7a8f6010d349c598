package raster

import (
	"image"
	"image/color"
	"image/draw"
	"math/rand/v2"

	"github.com/nfnt/resize"
	"github.com/provide-io/fixturegen/pkg/fixture/lexicon"
)

// Shapes draws n primitives drawn from kinds at random positions.
func Shapes(c *Canvas, lex *lexicon.Random, n int, kinds ...Kind) {
	r := lex.Rand()
	if len(kinds) == 0 {
		kinds = []Kind{KindRect, KindEllipse, KindLine, KindPolygon}
	}
	for i := 0; i < n; i++ {
		c.Draw(randomPrimitive(c, r, lex, kinds[r.IntN(len(kinds))]))
	}
}

func randomPrimitive(c *Canvas, r *rand.Rand, lex *lexicon.Random, kind Kind) Primitive {
	pt := func() image.Point { return image.Pt(r.IntN(c.Width+1), r.IntN(c.Height+1)) }
	p := Primitive{Kind: kind, Color: lex.Color()}

	switch kind {
	case KindRect, KindEllipse:
		p.Bounds = image.Rectangle{Min: pt(), Max: pt()}
	case KindLine:
		p.Points = []image.Point{pt(), pt()}
		p.Width = lexicon.Between(r, 1, 10)
	case KindPolygon:
		p.Points = make([]image.Point, lexicon.Between(r, 3, 8))
		for i := range p.Points {
			p.Points[i] = pt()
		}
	case KindText:
		p.Bounds.Min = image.Pt(r.IntN(max(c.Width/2, 1)), lexicon.Between(r, 13, max(c.Height, 13)))
		p.Text = lex.Sentence(1, 4)
	}
	return p
}

// Gradient blends from one colour to another across the canvas.
func Gradient(c *Canvas, from, to color.RGBA, vertical bool) {
	span := c.Width
	if vertical {
		span = c.Height
	}
	lerp := func(a, b uint8, t float64) uint8 { return uint8(float64(a) + (float64(b)-float64(a))*t) }

	for y := 0; y < c.Height; y++ {
		for x := 0; x < c.Width; x++ {
			pos := x
			if vertical {
				pos = y
			}
			t := float64(pos) / float64(max(span-1, 1))
			c.RGBA.SetRGBA(x, y, color.RGBA{lerp(from.R, to.R, t), lerp(from.G, to.G, t), lerp(from.B, to.B, t), 0xff})
		}
	}
}

// Noise fills the canvas with 2×2 blocks of random colour.
func Noise(c *Canvas, r *rand.Rand) {
	small := image.NewRGBA(image.Rect(0, 0, (c.Width+1)/2, (c.Height+1)/2))
	for i := 0; i < len(small.Pix); i += 4 {
		v := r.Uint32()
		small.Pix[i], small.Pix[i+1], small.Pix[i+2], small.Pix[i+3] = uint8(v), uint8(v>>8), uint8(v>>16), 0xff
	}
	big := resize.Resize(uint(small.Rect.Dx()*2), uint(small.Rect.Dy()*2), small, resize.NearestNeighbor)
	draw.Draw(c.RGBA, c.RGBA.Bounds(), big, image.Point{}, draw.Src)
}

// Stripes paints bands of random colour, each width pixels wide.
func Stripes(c *Canvas, lex *lexicon.Random, width int, vertical bool) {
	width = max(width, 1)
	span := c.Height
	if vertical {
		span = c.Width
	}
	for at := 0; at < span; at += width {
		band := image.Rect(0, at, c.Width, at+width)
		if vertical {
			band = image.Rect(at, 0, at+width, c.Height)
		}
		c.Draw(Primitive{Kind: KindRect, Bounds: band, Color: lex.Color()})
	}
}

// Checkerboard alternates two colours in squares of size pixels.
func Checkerboard(c *Canvas, size int, a, b color.RGBA) {
	size = max(size, 1)
	for y := 0; y < c.Height; y += size {
		for x := 0; x < c.Width; x += size {
			col := a
			if (x/size+y/size)%2 == 1 {
				col = b
			}
			c.Draw(Primitive{Kind: KindRect, Bounds: image.Rect(x, y, x+size, y+size), Color: col})
		}
	}
}
