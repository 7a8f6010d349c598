package raster

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/color/palette"
	"image/draw"
	"image/gif"
	"image/jpeg"
	"image/png"
	"math/rand/v2"

	"github.com/provide-io/fixturegen/pkg/fixture/budget"
	"github.com/provide-io/fixturegen/pkg/fixture/lexicon"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

// Dialect is one still-image format.
type Dialect struct {
	name          string
	ext           string
	bytesPerPixel int
	maxSide       int
	paint         func(c *Canvas, lex *lexicon.Random)
	encode        func(buf *bytes.Buffer, c *Canvas, r *rand.Rand) error
}

func (d *Dialect) Name() string      { return d.name }
func (d *Dialect) Extension() string { return d.ext }

// MaxSide returns the largest edge the dialect will produce.
func (d *Dialect) MaxSide() int { return d.maxSide }

// Canvas sizes and paints a canvas for b without encoding it.
func (d *Dialect) Canvas(r *rand.Rand, b *budget.Budget) (*Canvas, error) {
	lex := lexicon.New(r)
	c, err := sizedCanvas(r, b.Target(), d.bytesPerPixel, d.maxSide)
	if err != nil {
		return nil, err
	}
	d.paint(c, lex)
	return c, nil
}

// Generate paints and encodes one image. The image is a single budget unit.
func (d *Dialect) Generate(r *rand.Rand, b *budget.Budget) ([]byte, error) {
	c, err := d.Canvas(r, b)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := d.encode(&buf, c, r); err != nil {
		return nil, fmt.Errorf("encoding %s: %w", d.name, err)
	}
	b.Admit(uint64(buf.Len()))
	return buf.Bytes(), nil
}

func sizedCanvas(r *rand.Rand, target uint64, bpp, maxSide int) (*Canvas, error) {
	side := SideFor(target, bpp, maxSide)
	lo := min(MinSide, side)
	return NewCanvas(lexicon.Between(r, lo, side), lexicon.Between(r, lo, side), maxSide)
}

// Generator is an image format driven by a Budget.
type Generator interface {
	Name() string
	Extension() string
	Generate(r *rand.Rand, b *budget.Budget) ([]byte, error)
}

// Dialects returns every raster format, the animated gif included.
func Dialects() []Generator {
	return []Generator{PNG(), JPEG(), GIF(), BMP(), TIFF()}
}

// PNG is a shape drawing with an optional caption.
func PNG() *Dialect {
	return &Dialect{
		name: "png", ext: "png", bytesPerPixel: 4, maxSide: 4096,
		paint: func(c *Canvas, lex *lexicon.Random) {
			r := lex.Rand()
			c.Fill(lex.Color())
			Shapes(c, lex, lexicon.Between(r, 5, 50))
			if r.IntN(2) == 0 {
				Shapes(c, lex, 1, KindText)
			}
		},
		encode: func(buf *bytes.Buffer, c *Canvas, _ *rand.Rand) error {
			return png.Encode(buf, c.RGBA)
		},
	}
}

// JPEG is a gradient, a noise field or a cloud of ellipses.
func JPEG() *Dialect {
	return &Dialect{
		name: "jpg", ext: "jpg", bytesPerPixel: 3, maxSide: 4096,
		paint: func(c *Canvas, lex *lexicon.Random) {
			r := lex.Rand()
			switch r.IntN(3) {
			case 0:
				Gradient(c, lex.Color(), lex.Color(), r.IntN(2) == 0)
			case 1:
				Noise(c, r)
			default:
				c.Fill(lex.Color())
				Shapes(c, lex, lexicon.Between(r, 10, 100), KindEllipse)
			}
		},
		encode: func(buf *bytes.Buffer, c *Canvas, r *rand.Rand) error {
			return jpeg.Encode(buf, c.RGBA, &jpeg.Options{Quality: lexicon.Between(r, 60, 95)})
		},
	}
}

// BMP is stripes, a checkerboard or a field of rectangles.
func BMP() *Dialect {
	return &Dialect{
		name: "bmp", ext: "bmp", bytesPerPixel: 3, maxSide: 2048,
		paint: func(c *Canvas, lex *lexicon.Random) {
			r := lex.Rand()
			switch r.IntN(3) {
			case 0:
				Stripes(c, lex, lexicon.Between(r, 5, 50), r.IntN(2) == 0)
			case 1:
				Checkerboard(c, lexicon.Between(r, 10, 50), lex.Color(), lex.Color())
			default:
				c.Fill(lex.Color())
				Shapes(c, lex, lexicon.Between(r, 20, 100), KindRect)
			}
		},
		encode: func(buf *bytes.Buffer, c *Canvas, _ *rand.Rand) error {
			return bmp.Encode(buf, c.RGBA)
		},
	}
}

// TIFF is a deflate-compressed shape drawing.
func TIFF() *Dialect {
	return &Dialect{
		name: "tiff", ext: "tiff", bytesPerPixel: 4, maxSide: 4096,
		paint: func(c *Canvas, lex *lexicon.Random) {
			c.Fill(lex.Color())
			Shapes(c, lex, lexicon.Between(lex.Rand(), 5, 50))
		},
		encode: func(buf *bytes.Buffer, c *Canvas, _ *rand.Rand) error {
			return tiff.Encode(buf, c.RGBA, &tiff.Options{Compression: tiff.Deflate})
		},
	}
}

// Animation is a looping multi-frame gif.
type Animation struct {
	MinFrames, MaxFrames int
	MaxSide              int
}

// GIF returns the animated gif dialect.
func GIF() *Animation {
	return &Animation{MinFrames: 3, MaxFrames: 15, MaxSide: 500}
}

func (a *Animation) Name() string      { return "gif" }
func (a *Animation) Extension() string { return "gif" }

// Generate draws frames until the requested count or the Budget runs out. Frames share
// a global Plan9 colour table, so each one is admitted at FrameCost of its pixels.
func (a *Animation) Generate(r *rand.Rand, b *budget.Budget) ([]byte, error) {
	lex := lexicon.New(r)
	frames := lexicon.Between(r, a.MinFrames, a.MaxFrames)
	c, err := sizedCanvas(r, b.Target()/uint64(frames), 2, a.MaxSide)
	if err != nil {
		return nil, err
	}
	frame := FrameCost(c.Width, c.Height)

	anim := &gif.GIF{
		LoopCount: 0,
		Config: image.Config{
			ColorModel: color.Palette(palette.Plan9),
			Width:      c.Width,
			Height:     c.Height,
		},
	}
	for i := 0; i < frames; i++ {
		if !b.Admit(frame) {
			break
		}
		c.Fill(lex.Color())
		Shapes(c, lex, lexicon.Between(r, 3, 15), KindRect, KindEllipse)

		pal := image.NewPaletted(c.RGBA.Bounds(), palette.Plan9)
		draw.Draw(pal, pal.Bounds(), c.RGBA, image.Point{}, draw.Src)
		anim.Image = append(anim.Image, pal)
		// delays are in hundredths of a second
		anim.Delay = append(anim.Delay, lexicon.Between(r, 100, 500)/10)
	}

	var buf bytes.Buffer
	if err := gif.EncodeAll(&buf, anim); err != nil {
		return nil, fmt.Errorf("encoding gif: %w", err)
	}
	return buf.Bytes(), nil
}

// gifFrameOverhead covers the graphic control extension, the image descriptor, the LZW
// minimum code size and the block terminator of one frame.
const gifFrameOverhead = 64

// FrameCost bounds the encoded size of one w×h gif frame. LZW emits at most one
// 12-bit code per pixel, plus a length byte every 255 data bytes.
func FrameCost(w, h int) uint64 {
	return uint64(w*h)*8/5 + gifFrameOverhead
}
