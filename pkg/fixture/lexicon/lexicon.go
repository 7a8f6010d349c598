// Package lexicon is the random text source the generators consume: words,
// sentences, paragraphs, file names, colours and dates.
package lexicon

import (
	"fmt"
	"image/color"
	"math/rand/v2"
	"strings"
	"time"
)

const (
	letters   = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"
	lowerNum  = "abcdefghijklmnopqrstuvwxyz0123456789"
	hexDigits = "0123456789abcdef"
)

var terminators = []string{".", "!", "?"}

// Source produces opaque random text.
type Source interface {
	Word() string
	Sentence(minWords, maxWords int) string
	Paragraph() string
}

// Random is a Source backed by a per-run random generator.
type Random struct {
	r *rand.Rand
}

// New returns a Random reading from r.
func New(r *rand.Rand) *Random {
	return &Random{r: r}
}

// Between returns a uniform integer in [lo, hi].
func Between(r *rand.Rand, lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + r.IntN(hi-lo+1)
}

// Uniform returns a uniform float in [lo, hi).
func Uniform(r *rand.Rand, lo, hi float64) float64 {
	return lo + r.Float64()*(hi-lo)
}

func (s *Random) pick(alphabet string, n int) string {
	var sb strings.Builder
	sb.Grow(n)
	for i := 0; i < n; i++ {
		sb.WriteByte(alphabet[s.r.IntN(len(alphabet))])
	}
	return sb.String()
}

// String returns a run of random letters with a length in [minLen, maxLen].
func (s *Random) String(minLen, maxLen int) string {
	return s.pick(letters, Between(s.r, minLen, maxLen))
}

// Word returns a lowercase word of 3 to 12 letters.
func (s *Random) Word() string {
	return strings.ToLower(s.String(3, 12))
}

// Title returns a word with its first letter upper-cased.
func (s *Random) Title() string {
	w := s.Word()
	return strings.ToUpper(w[:1]) + w[1:]
}

// Sentence returns minWords to maxWords words, capitalised and terminated.
func (s *Random) Sentence(minWords, maxWords int) string {
	n := Between(s.r, minWords, maxWords)
	words := make([]string, n)
	for i := range words {
		words[i] = s.Word()
	}
	words[0] = strings.ToUpper(words[0][:1]) + words[0][1:]
	return strings.Join(words, " ") + terminators[s.r.IntN(len(terminators))]
}

// DefaultSentence returns a sentence of 5 to 20 words.
func (s *Random) DefaultSentence() string {
	return s.Sentence(5, 20)
}

// Paragraph returns 3 to 10 sentences joined by spaces.
func (s *Random) Paragraph() string {
	n := Between(s.r, 3, 10)
	sentences := make([]string, n)
	for i := range sentences {
		sentences[i] = s.DefaultSentence()
	}
	return strings.Join(sentences, " ")
}

// Filename returns a random base name without extension in one of several styles.
func (s *Random) Filename() string {
	switch s.r.IntN(5) {
	case 0:
		return s.pick(lowerNum, Between(s.r, 6, 12))
	case 1:
		return s.Word() + "_" + s.Word()
	case 2:
		return fmt.Sprintf("%s-%d", s.Word(), Between(s.r, 1, 9999))
	case 3:
		return fmt.Sprintf("%s_%s_%d", s.Word(), s.Date().Format("20060102"), Between(s.r, 1, 999))
	default:
		return s.pick(hexDigits, 8)
	}
}

// Color returns an opaque random colour.
func (s *Random) Color() color.RGBA {
	return color.RGBA{
		R: uint8(s.r.IntN(256)),
		G: uint8(s.r.IntN(256)),
		B: uint8(s.r.IntN(256)),
		A: 0xff,
	}
}

// HexColor returns a random colour formatted as #rrggbb.
func (s *Random) HexColor() string {
	return fmt.Sprintf("#%06x", s.r.IntN(0x1000000))
}

// Date returns a random day between 2020-01-01 and 2026-12-31.
func (s *Random) Date() time.Time {
	start := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 12, 31, 0, 0, 0, 0, time.UTC)
	days := int(end.Sub(start).Hours() / 24)
	return start.AddDate(0, 0, s.r.IntN(days+1))
}

// Rand exposes the underlying generator.
func (s *Random) Rand() *rand.Rand { return s.r }
