// Package raster paints bounded canvases with simple primitives and encodes them as
// png, jpg, gif, bmp and tiff images.
package raster

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"

	fxerrors "github.com/provide-io/fixturegen/pkg/fixture/errors"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"
)

// MinSide is the smallest edge a budget-derived canvas is given.
const MinSide = 16

// Kind is the shape of a primitive.
type Kind int

const (
	KindRect Kind = iota
	KindEllipse
	KindLine
	KindPolygon
	KindText
)

func (k Kind) String() string {
	switch k {
	case KindRect:
		return "rect"
	case KindEllipse:
		return "ellipse"
	case KindLine:
		return "line"
	case KindPolygon:
		return "polygon"
	case KindText:
		return "text"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Primitive is one drawing instruction. Rects and ellipses fill Bounds; lines join
// Points[0] and Points[1] with the given Width; polygons fill Points; text is drawn
// with its baseline origin at Bounds.Min.
type Primitive struct {
	Kind   Kind
	Bounds image.Rectangle
	Points []image.Point
	Color  color.RGBA
	Width  int
	Text   string
}

// Canvas is a fixed-size RGBA pixel grid and the primitives drawn onto it.
type Canvas struct {
	Width      int
	Height     int
	RGBA       *image.RGBA
	Primitives []Primitive
}

// NewCanvas allocates a w×h canvas. Both edges must be in [1, maxSide].
func NewCanvas(w, h, maxSide int) (*Canvas, error) {
	if w <= 0 || h <= 0 || w > maxSide || h > maxSide {
		return nil, fmt.Errorf("%w: canvas %dx%d outside 1..%d", fxerrors.ErrEncodingFailure, w, h, maxSide)
	}
	return &Canvas{
		Width:  w,
		Height: h,
		RGBA:   image.NewRGBA(image.Rect(0, 0, w, h)),
	}, nil
}

// SideFor returns the square edge whose pixel count fits budget at bytesPerPixel,
// clamped to [MinSide, maxSide].
func SideFor(budget uint64, bytesPerPixel, maxSide int) int {
	if bytesPerPixel <= 0 {
		bytesPerPixel = 1
	}
	side := int(math.Sqrt(float64(budget) / float64(bytesPerPixel)))
	if side > maxSide {
		side = maxSide
	}
	if side < MinSide {
		side = min(MinSide, maxSide)
	}
	return side
}

// Fill paints the whole canvas with col.
func (c *Canvas) Fill(col color.RGBA) {
	draw.Draw(c.RGBA, c.RGBA.Bounds(), image.NewUniform(col), image.Point{}, draw.Src)
}

// Draw paints p over whatever is already there and records it.
func (c *Canvas) Draw(p Primitive) {
	p.Bounds = p.Bounds.Canon()

	switch p.Kind {
	case KindRect:
		draw.Draw(c.RGBA, p.Bounds.Intersect(c.RGBA.Bounds()), image.NewUniform(p.Color), image.Point{}, draw.Src)
	case KindEllipse:
		c.cover(p.Bounds, p.Color, func(z *vector.Rasterizer, w, h float32) {
			ellipsePath(z, w/2, h/2, w/2, h/2)
		})
	case KindLine:
		if len(p.Points) < 2 {
			return
		}
		half := float64(max(p.Width, 1)) / 2
		pad := int(math.Ceil(half))
		p.Bounds = image.Rectangle{Min: p.Points[0], Max: p.Points[1]}.Canon().Inset(-pad)
		origin := p.Bounds.Min
		c.cover(p.Bounds, p.Color, func(z *vector.Rasterizer, _, _ float32) {
			linePath(z, p.Points[0].Sub(origin), p.Points[1].Sub(origin), half)
		})
	case KindPolygon:
		if len(p.Points) < 3 {
			return
		}
		p.Bounds = pointBounds(p.Points)
		origin := p.Bounds.Min
		c.cover(p.Bounds, p.Color, func(z *vector.Rasterizer, _, _ float32) {
			first := p.Points[0].Sub(origin)
			z.MoveTo(float32(first.X), float32(first.Y))
			for _, pt := range p.Points[1:] {
				pt = pt.Sub(origin)
				z.LineTo(float32(pt.X), float32(pt.Y))
			}
			z.ClosePath()
		})
	case KindText:
		d := font.Drawer{
			Dst:  c.RGBA,
			Src:  image.NewUniform(p.Color),
			Face: basicfont.Face7x13,
			Dot:  fixed.P(p.Bounds.Min.X, p.Bounds.Min.Y),
		}
		d.DrawString(p.Text)
	default:
		return
	}

	c.Primitives = append(c.Primitives, p)
}

// cover rasterises a path over bounds and sets every pixel at least half covered.
func (c *Canvas) cover(bounds image.Rectangle, col color.RGBA, path func(z *vector.Rasterizer, w, h float32)) {
	w, h := bounds.Dx(), bounds.Dy()
	if w == 0 || h == 0 {
		return
	}

	z := vector.NewRasterizer(w, h)
	path(z, float32(w), float32(h))
	mask := image.NewAlpha(image.Rect(0, 0, w, h))
	z.Draw(mask, mask.Bounds(), image.Opaque, image.Point{})

	clip := bounds.Intersect(c.RGBA.Bounds())
	for y := clip.Min.Y; y < clip.Max.Y; y++ {
		for x := clip.Min.X; x < clip.Max.X; x++ {
			if mask.AlphaAt(x-bounds.Min.X, y-bounds.Min.Y).A >= 0x80 {
				c.RGBA.SetRGBA(x, y, col)
			}
		}
	}
}

// kappa places cubic control points so four curves approximate a quarter ellipse each.
const kappa = 0.5522847

func ellipsePath(z *vector.Rasterizer, cx, cy, rx, ry float32) {
	kx, ky := kappa*rx, kappa*ry
	z.MoveTo(cx+rx, cy)
	z.CubeTo(cx+rx, cy+ky, cx+kx, cy+ry, cx, cy+ry)
	z.CubeTo(cx-kx, cy+ry, cx-rx, cy+ky, cx-rx, cy)
	z.CubeTo(cx-rx, cy-ky, cx-kx, cy-ry, cx, cy-ry)
	z.CubeTo(cx+kx, cy-ry, cx+rx, cy-ky, cx+rx, cy)
	z.ClosePath()
}

// linePath outlines a segment of the given half-width as a quad.
func linePath(z *vector.Rasterizer, a, b image.Point, half float64) {
	dx, dy := float64(b.X-a.X), float64(b.Y-a.Y)
	length := math.Hypot(dx, dy)
	if length == 0 {
		dx, length = 1, 1
	}
	nx, ny := -dy/length*half, dx/length*half

	ax, ay, bx, by := float64(a.X), float64(a.Y), float64(b.X), float64(b.Y)
	z.MoveTo(float32(ax+nx), float32(ay+ny))
	z.LineTo(float32(bx+nx), float32(by+ny))
	z.LineTo(float32(bx-nx), float32(by-ny))
	z.LineTo(float32(ax-nx), float32(ay-ny))
	z.ClosePath()
}

func pointBounds(pts []image.Point) image.Rectangle {
	r := image.Rectangle{Min: pts[0], Max: pts[0]}
	for _, p := range pts[1:] {
		r.Min.X, r.Min.Y = min(r.Min.X, p.X), min(r.Min.Y, p.Y)
		r.Max.X, r.Max.Y = max(r.Max.X, p.X), max(r.Max.Y, p.Y)
	}
	// Max is exclusive
	r.Max = r.Max.Add(image.Pt(1, 1))
	return r
}
