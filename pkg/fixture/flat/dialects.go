package flat

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"math/rand/v2"
	"strconv"
	"strings"
	"time"

	"github.com/provide-io/fixturegen/pkg/fixture/budget"
	"github.com/provide-io/fixturegen/pkg/fixture/lexicon"
)

// Dialect is a flat text format backed by an Accumulator.
type Dialect struct {
	name     string
	ext      string
	truncate bool
	build    func(r *rand.Rand) *Accumulator
}

func (d *Dialect) Name() string      { return d.name }
func (d *Dialect) Extension() string { return d.ext }

// Truncates reports whether the dialect clips its output to the byte target.
func (d *Dialect) Truncates() bool { return d.truncate }

// Generate runs a fresh accumulator for this dialect.
func (d *Dialect) Generate(r *rand.Rand, b *budget.Budget) ([]byte, error) {
	acc := d.build(r)
	acc.Truncate = d.truncate
	return acc.Run(b)
}

// Dialects returns every flat dialect.
func Dialects() []*Dialect {
	return []*Dialect{Text(), CSV(), Log(), Markdown(), HTML(), INI(), RTF(), SVG()}
}

func fixed(s string) Piece {
	return func() ([]byte, error) { return []byte(s), nil }
}

// Text is plain paragraphs separated by blank lines.
func Text() *Dialect {
	return &Dialect{name: "txt", ext: "txt", truncate: true, build: func(r *rand.Rand) *Accumulator {
		lex := lexicon.New(r)
		return &Accumulator{
			Unit: func() ([]byte, error) {
				return []byte(lex.Paragraph() + "\n\n"), nil
			},
		}
	}}
}

// CSV is a header row followed by rows of mixed string, integer, float and date cells.
func CSV() *Dialect {
	return &Dialect{name: "csv", ext: "csv", truncate: true, build: func(r *rand.Rand) *Accumulator {
		lex := lexicon.New(r)
		cols := lexicon.Between(r, 3, 10)

		writeRow := func(cells []string) ([]byte, error) {
			var buf bytes.Buffer
			w := csv.NewWriter(&buf)
			if err := w.Write(cells); err != nil {
				return nil, err
			}
			w.Flush()
			if err := w.Error(); err != nil {
				return nil, err
			}
			return buf.Bytes(), nil
		}

		return &Accumulator{
			Prologue: func() ([]byte, error) {
				headers := make([]string, cols)
				for i := range headers {
					headers[i] = lex.Word()
				}
				return writeRow(headers)
			},
			Unit: func() ([]byte, error) {
				cells := make([]string, cols)
				for i := range cells {
					switch r.IntN(4) {
					case 0:
						cells[i] = lex.Word()
					case 1:
						cells[i] = strconv.Itoa(lexicon.Between(r, -10000, 10000))
					case 2:
						cells[i] = fmt.Sprintf("%.2f", lexicon.Uniform(r, -1000, 1000))
					default:
						cells[i] = lex.Date().Format("2006-01-02")
					}
				}
				return writeRow(cells)
			},
		}
	}}
}

var logLevels = []string{"DEBUG", "INFO", "WARNING", "ERROR", "CRITICAL"}

// Log is timestamped log lines with levels and module names.
func Log() *Dialect {
	return &Dialect{name: "log", ext: "log", truncate: true, build: func(r *rand.Rand) *Accumulator {
		lex := lexicon.New(r)
		modules := make([]string, 5)
		for i := range modules {
			modules[i] = lex.Word()
		}
		current := lex.Date().Add(time.Duration(r.IntN(86400)) * time.Second)

		return &Accumulator{
			Unit: func() ([]byte, error) {
				current = current.Add(time.Duration(lexicon.Between(r, 1, 300)) * time.Second)
				line := fmt.Sprintf("[%s] %-8s %s: %s\n",
					current.Format("2006-01-02 15:04:05"),
					logLevels[r.IntN(len(logLevels))],
					modules[r.IntN(len(modules))],
					lex.DefaultSentence(),
				)
				return []byte(line), nil
			},
		}
	}}
}

// Markdown is a titled document of headings, paragraphs, lists, code, quotes and links.
func Markdown() *Dialect {
	return &Dialect{name: "md", ext: "md", build: func(r *rand.Rand) *Accumulator {
		lex := lexicon.New(r)
		return &Accumulator{
			Prologue: func() ([]byte, error) {
				return []byte("# " + lex.Sentence(3, 6) + "\n\n"), nil
			},
			Unit: func() ([]byte, error) {
				var sb strings.Builder
				switch r.IntN(7) {
				case 0:
					sb.WriteString("## " + lex.Sentence(2, 5))
				case 1:
					sb.WriteString("### " + lex.Sentence(2, 4))
				case 2:
					sb.WriteString(lex.Paragraph())
				case 3:
					items := make([]string, lexicon.Between(r, 2, 6))
					for i := range items {
						items[i] = "- " + lex.DefaultSentence()
					}
					sb.WriteString(strings.Join(items, "\n"))
				case 4:
					sb.WriteString("```\n")
					for i, n := 0, lexicon.Between(r, 2, 5); i < n; i++ {
						fmt.Fprintf(&sb, "    %s = %d\n", lex.Word(), lexicon.Between(r, 1, 100))
					}
					sb.WriteString("```")
				case 5:
					sb.WriteString("> " + lex.DefaultSentence())
				default:
					fmt.Fprintf(&sb, "[%s](https://%s.com/%s)", lex.Word(), lex.Word(), lex.Word())
				}
				sb.WriteString("\n\n")
				return []byte(sb.String()), nil
			},
		}
	}}
}

// INI is sections of typed key/value options.
func INI() *Dialect {
	return &Dialect{name: "ini", ext: "ini", build: func(r *rand.Rand) *Accumulator {
		lex := lexicon.New(r)
		bools := []string{"true", "false", "yes", "no", "1", "0"}
		return &Accumulator{
			Unit: func() ([]byte, error) {
				var sb strings.Builder
				fmt.Fprintf(&sb, "[%s]\n", lex.Word())
				for i, n := 0, lexicon.Between(r, 2, 8); i < n; i++ {
					var v string
					switch r.IntN(5) {
					case 0:
						v = lex.Word()
					case 1:
						v = strconv.Itoa(lexicon.Between(r, 0, 10000))
					case 2:
						v = fmt.Sprintf("%.2f", lexicon.Uniform(r, 0, 100))
					case 3:
						v = bools[r.IntN(len(bools))]
					default:
						v = fmt.Sprintf("/path/to/%s/%s", lex.Word(), lex.Word())
					}
					fmt.Fprintf(&sb, "%s = %s\n", lex.Word(), v)
				}
				sb.WriteString("\n")
				return []byte(sb.String()), nil
			},
		}
	}}
}

// RTF is a colour table followed by coloured, sized paragraphs.
func RTF() *Dialect {
	const colors = 5
	return &Dialect{name: "rtf", ext: "rtf", build: func(r *rand.Rand) *Accumulator {
		lex := lexicon.New(r)
		return &Accumulator{
			Prologue: func() ([]byte, error) {
				var sb strings.Builder
				sb.WriteString(`{\rtf1\ansi\deff0`)
				sb.WriteString(`{\colortbl;`)
				for i := 0; i < colors; i++ {
					c := lex.Color()
					fmt.Fprintf(&sb, `\red%d\green%d\blue%d;`, c.R, c.G, c.B)
				}
				sb.WriteString("}")
				return []byte(sb.String()), nil
			},
			Unit: func() ([]byte, error) {
				// font size is in half-points
				unit := fmt.Sprintf(`\cf%d\fs%d %s\par `,
					lexicon.Between(r, 1, colors),
					lexicon.Between(r, 20, 48),
					lex.Paragraph(),
				)
				return []byte(unit), nil
			},
			Epilogue: fixed("}"),
		}
	}}
}
