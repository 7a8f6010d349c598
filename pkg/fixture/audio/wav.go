package audio

import (
	"errors"
	"fmt"
	"io"
	"math/rand/v2"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/provide-io/fixturegen/pkg/fixture/budget"
	"github.com/provide-io/fixturegen/pkg/fixture/lexicon"
)

// ModelKind selects the waveform of a generated stream.
type ModelKind int

const (
	ModelTone ModelKind = iota
	ModelNoise
	ModelBlend
)

func (k ModelKind) String() string {
	switch k {
	case ModelTone:
		return "tone"
	case ModelNoise:
		return "noise"
	case ModelBlend:
		return "blend"
	default:
		return fmt.Sprintf("model(%d)", int(k))
	}
}

// WAV is the 16-bit mono PCM dialect.
type WAV struct {
	MinSeconds, MaxSeconds float64
}

// NewWAV returns the wav dialect with 1-30 second requests.
func NewWAV() *WAV {
	return &WAV{MinSeconds: 1, MaxSeconds: 30}
}

func (w *WAV) Name() string      { return "wav" }
func (w *WAV) Extension() string { return "wav" }

// Stream picks a model and a duration for b and synthesizes the samples. The samples
// are recorded against b as a single unit.
func (w *WAV) Stream(r *rand.Rand, b *budget.Budget) (*Stream, ModelKind) {
	d := Duration(b.Target(), lexicon.Uniform(r, w.MinSeconds, w.MaxSeconds))
	n := SampleCount(SampleRate, d)

	kind := ModelKind(r.IntN(3))
	var m Model
	switch kind {
	case ModelTone:
		start := lexicon.Uniform(r, 200, 2000)
		end := start
		if r.IntN(2) == 0 {
			end = lexicon.Uniform(r, 200, 2000)
		}
		m = &Tone{Start: start, End: end, Amplitude: 0.5, Length: n, Rate: SampleRate}
	case ModelNoise:
		m = &Noise{R: r}
	default:
		freq := lexicon.Uniform(r, 200, 1000)
		m = &Blend{
			Tone:       &Tone{Start: freq, End: freq, Amplitude: 1, Length: n, Rate: SampleRate},
			ToneWeight: 0.7,
			NoiseLevel: 0.3,
			R:          r,
		}
	}

	s := Synthesize(m, SampleRate, n)
	b.Admit(uint64(n * BytesPerSample))
	return s, kind
}

// Generate encodes a synthesized stream as a RIFF/WAVE file.
func (w *WAV) Generate(r *rand.Rand, b *budget.Budget) ([]byte, error) {
	s, _ := w.Stream(r, b)
	return Encode(s)
}

// Encode writes s as 16-bit mono PCM.
func Encode(s *Stream) ([]byte, error) {
	data := make([]int, len(s.Samples))
	for i, v := range s.Samples {
		data[i] = int(v)
	}

	out := &seekBuffer{}
	enc := wav.NewEncoder(out, s.SampleRate, 16, 1, 1)
	buf := &goaudio.IntBuffer{
		Format:         &goaudio.Format{NumChannels: 1, SampleRate: s.SampleRate},
		Data:           data,
		SourceBitDepth: 16,
	}
	if err := enc.Write(buf); err != nil {
		return nil, fmt.Errorf("writing samples: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("finalizing wav: %w", err)
	}
	return out.buf, nil
}

// seekBuffer is an in-memory io.WriteSeeker; the encoder seeks back to patch chunk sizes.
type seekBuffer struct {
	buf []byte
	pos int
}

func (s *seekBuffer) Write(p []byte) (int, error) {
	if end := s.pos + len(p); end > len(s.buf) {
		s.buf = append(s.buf, make([]byte, end-len(s.buf))...)
	}
	n := copy(s.buf[s.pos:], p)
	s.pos += n
	return n, nil
}

func (s *seekBuffer) Seek(offset int64, whence int) (int64, error) {
	var abs int64
	switch whence {
	case io.SeekStart:
		abs = offset
	case io.SeekCurrent:
		abs = int64(s.pos) + offset
	case io.SeekEnd:
		abs = int64(len(s.buf)) + offset
	default:
		return 0, errors.New("seekBuffer: invalid whence")
	}
	if abs < 0 {
		return 0, errors.New("seekBuffer: negative position")
	}
	s.pos = int(abs)
	return abs, nil
}
