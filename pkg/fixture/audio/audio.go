// Package audio synthesizes 16-bit mono sample streams and encodes them as WAV.
package audio

import (
	"math"
	"math/rand/v2"
)

const (
	// SampleRate is the fixed rate of every stream, in Hz.
	SampleRate = 44100
	// MinDuration is the shortest stream produced, in seconds.
	MinDuration = 0.1
	// MaxSample bounds every sample symmetrically.
	MaxSample = 32767
	// BytesPerSample is the width of one encoded sample.
	BytesPerSample = 2
)

// Stream is a run of mono samples at SampleRate.
type Stream struct {
	SampleRate int
	Samples    []int16
}

// Duration returns the length of the stream in seconds.
func (s *Stream) Duration() float64 {
	if s.SampleRate == 0 {
		return 0
	}
	return float64(len(s.Samples)) / float64(s.SampleRate)
}

// Model produces successive samples in roughly [-1, 1]. Values outside that range are
// clamped when the stream is quantised.
type Model interface {
	Next() float64
}

// Tone is a sine wave whose frequency moves linearly from Start to End Hz over Length
// samples. Start == End gives a fixed tone.
type Tone struct {
	Start, End float64
	Amplitude  float64
	Length     int
	Rate       int

	i     int
	phase float64
}

func (t *Tone) Next() float64 {
	freq := t.Start
	if t.Length > 1 && t.End != t.Start {
		freq += (t.End - t.Start) * float64(t.i) / float64(t.Length-1)
	}
	v := t.Amplitude * math.Sin(t.phase)
	t.phase += 2 * math.Pi * freq / float64(t.Rate)
	if t.phase > 2*math.Pi {
		t.phase -= 2 * math.Pi
	}
	t.i++
	return v
}

// Noise is uniform white noise over the full range.
type Noise struct {
	R *rand.Rand
}

func (n *Noise) Next() float64 {
	return n.R.Float64()*2 - 1
}

// Blend sums a weighted tone and bounded uniform noise. The sum is clamped only when
// quantised, never per term.
type Blend struct {
	Tone       *Tone
	ToneWeight float64
	NoiseLevel float64
	R          *rand.Rand
}

func (b *Blend) Next() float64 {
	noise := (b.R.Float64()*2 - 1) * b.NoiseLevel
	return b.ToneWeight*b.Tone.Next() + noise
}

// Duration returns min(requested, the longest stream budget bytes can hold), never
// below MinDuration.
func Duration(budget uint64, requested float64) float64 {
	maxSamples := budget / BytesPerSample
	limit := float64(maxSamples) / SampleRate
	d := math.Min(requested, limit)
	if d < MinDuration || math.IsNaN(d) {
		d = MinDuration
	}
	return d
}

// SampleCount returns the exact number of samples a stream of d seconds holds. The
// epsilon absorbs float error so SampleCount(rate, n/rate) == n.
func SampleCount(rate int, d float64) int {
	return int(float64(rate)*d + 1e-6)
}

// Synthesize quantises n samples from m.
func Synthesize(m Model, rate, n int) *Stream {
	s := &Stream{SampleRate: rate, Samples: make([]int16, n)}
	for i := range s.Samples {
		s.Samples[i] = quantise(m.Next())
	}
	return s
}

func quantise(v float64) int16 {
	q := math.Round(v * MaxSample)
	if q > MaxSample {
		q = MaxSample
	}
	if q < -MaxSample {
		q = -MaxSample
	}
	return int16(q)
}
