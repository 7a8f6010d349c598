package flat

import (
	"bytes"
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/provide-io/fixturegen/pkg/fixture/lexicon"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

var fonts = []string{"Arial", "Helvetica", "Georgia", "Times New Roman"}

// markdown renders HTML fragments; raw HTML blocks pass through untouched.
var markdown = goldmark.New(
	goldmark.WithExtensions(extension.Table),
	goldmark.WithRendererOptions(html.WithUnsafe()),
)

// HTML is a styled page whose body blocks are rendered from markdown.
func HTML() *Dialect {
	return &Dialect{name: "html", ext: "html", build: func(r *rand.Rand) *Accumulator {
		lex := lexicon.New(r)
		return &Accumulator{
			Prologue: func() ([]byte, error) {
				lines := []string{
					"<!DOCTYPE html>",
					`<html lang="en">`,
					"<head>",
					`    <meta charset="UTF-8">`,
					"    <title>" + lex.Sentence(2, 5) + "</title>",
					"    <style>",
					fmt.Sprintf("        body { font-family: %s; background-color: %s; }", fonts[r.IntN(len(fonts))], lex.HexColor()),
					fmt.Sprintf("        h1 { color: %s; }", lex.HexColor()),
					fmt.Sprintf("        p { color: %s; }", lex.HexColor()),
					"    </style>",
					"</head>",
					"<body>",
				}
				return []byte(strings.Join(lines, "\n") + "\n"), nil
			},
			Unit: func() ([]byte, error) {
				src := htmlBlock(r, lex)
				var buf bytes.Buffer
				if err := markdown.Convert([]byte(src), &buf); err != nil {
					return nil, fmt.Errorf("rendering block: %w", err)
				}
				return buf.Bytes(), nil
			},
			Epilogue: fixed("</body>\n</html>\n"),
		}
	}}
}

// htmlBlock returns one markdown block for the HTML body.
func htmlBlock(r *rand.Rand, lex *lexicon.Random) string {
	switch r.IntN(7) {
	case 0, 1, 2:
		return strings.Repeat("#", r.IntN(3)+1) + " " + lex.Sentence(3, 8)
	case 3:
		return lex.Paragraph()
	case 4:
		return fmt.Sprintf(`<div style="background-color: %s; padding: 10px;">%s</div>`, lex.HexColor(), lex.Paragraph())
	case 5:
		items := make([]string, lexicon.Between(r, 2, 6))
		for i := range items {
			items[i] = "- " + lex.DefaultSentence()
		}
		return strings.Join(items, "\n")
	default:
		rows, cols := lexicon.Between(r, 2, 5), lexicon.Between(r, 2, 4)
		var sb strings.Builder
		for row := 0; row <= rows; row++ {
			cells := make([]string, cols)
			for i := range cells {
				if row == 1 {
					cells[i] = "---"
				} else {
					cells[i] = lex.Word()
				}
			}
			sb.WriteString("| " + strings.Join(cells, " | ") + " |\n")
		}
		return sb.String()
	}
}

// SVG is a sized drawing of rectangles, circles, ellipses, lines, polygons and text.
func SVG() *Dialect {
	return &Dialect{name: "svg", ext: "svg", build: func(r *rand.Rand) *Accumulator {
		lex := lexicon.New(r)
		width, height := lexicon.Between(r, 200, 1000), lexicon.Between(r, 200, 1000)
		opacity := func() string { return fmt.Sprintf("%.2f", lexicon.Uniform(r, 0.3, 1)) }

		return &Accumulator{
			Prologue: func() ([]byte, error) {
				head := fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
  <rect width="100%%" height="100%%" fill="%s"/>
`, width, height, width, height, lex.HexColor())
				return []byte(head), nil
			},
			Unit: func() ([]byte, error) {
				var shape string
				switch r.IntN(6) {
				case 0:
					shape = fmt.Sprintf(`<rect x="%d" y="%d" width="%d" height="%d" fill="%s" opacity="%s"/>`,
						r.IntN(width+1), r.IntN(height+1), lexicon.Between(r, 10, 200), lexicon.Between(r, 10, 200), lex.HexColor(), opacity())
				case 1:
					shape = fmt.Sprintf(`<circle cx="%d" cy="%d" r="%d" fill="%s" opacity="%s"/>`,
						r.IntN(width+1), r.IntN(height+1), lexicon.Between(r, 10, 100), lex.HexColor(), opacity())
				case 2:
					shape = fmt.Sprintf(`<ellipse cx="%d" cy="%d" rx="%d" ry="%d" fill="%s" opacity="%s"/>`,
						r.IntN(width+1), r.IntN(height+1), lexicon.Between(r, 10, 100), lexicon.Between(r, 10, 100), lex.HexColor(), opacity())
				case 3:
					shape = fmt.Sprintf(`<line x1="%d" y1="%d" x2="%d" y2="%d" stroke="%s" stroke-width="%d"/>`,
						r.IntN(width+1), r.IntN(height+1), r.IntN(width+1), r.IntN(height+1), lex.HexColor(), lexicon.Between(r, 1, 10))
				case 4:
					points := make([]string, lexicon.Between(r, 3, 8))
					for i := range points {
						points[i] = fmt.Sprintf("%d,%d", r.IntN(width+1), r.IntN(height+1))
					}
					shape = fmt.Sprintf(`<polygon points="%s" fill="%s" opacity="%s"/>`,
						strings.Join(points, " "), lex.HexColor(), opacity())
				default:
					shape = fmt.Sprintf(`<text x="%d" y="%d" font-size="%d" fill="%s">%s</text>`,
						r.IntN(width+1), lexicon.Between(r, 20, height), lexicon.Between(r, 12, 48), lex.HexColor(), lex.Word())
				}
				return []byte("  " + shape + "\n"), nil
			},
			Epilogue: fixed("</svg>\n"),
		}
	}}
}
