package audio

import (
	"encoding/binary"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"sync"

	"github.com/ojrac/opensimplex-go"

	"github.com/talgya/hexharbor/internal/entropy"
	"github.com/talgya/hexharbor/internal/game"
)

// SampleRate of the rendered PCM stream (mono, signed 16-bit little endian).
const SampleRate = 22050

// noiseStep is the simplex distance between samples of a Noise voice. Values
// near 1 decorrelate neighbouring samples into a dry rattle.
const noiseStep = 0.7

// Player consumes sound tags.
type Player interface {
	Play(game.Sound)
	Close() error
}

// Nop discards every cue.
type Nop struct{}

func (Nop) Play(game.Sound) {}
func (Nop) Close() error    { return nil }

// Synth renders cues and writes them to an output opened on first use. The
// output is shared by every call and closed once by Close.
type Synth struct {
	open   func() (io.WriteCloser, error)
	noise  entropy.Source
	rattle opensimplex.Noise

	once    sync.Once
	mu      sync.Mutex
	out     io.WriteCloser
	openErr error
}

// NewSynth creates a synth that calls open the first time a cue plays.
func NewSynth(open func() (io.WriteCloser, error), noise entropy.Source) *Synth {
	return &Synth{
		open:   open,
		noise:  noise,
		rattle: opensimplex.New(int64(noise.Intn(math.MaxInt32))),
	}
}

// FileSink opens path for appending raw PCM, for piping into an external
// player such as `aplay -f S16_LE -r 22050`.
func FileSink(path string) func() (io.WriteCloser, error) {
	return func() (io.WriteCloser, error) {
		return os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	}
}

// Play renders the cue for s. Unknown and empty tags are ignored.
func (p *Synth) Play(s game.Sound) {
	tones, ok := Cues[s]
	if !ok {
		return
	}

	p.once.Do(func() {
		p.out, p.openErr = p.open()
		if p.openErr != nil {
			slog.Warn("audio output unavailable", "error", p.openErr)
		}
	})
	if p.openErr != nil {
		return
	}

	pcm := p.Render(tones)
	buf := make([]byte, 2*len(pcm))
	for i, v := range pcm {
		binary.LittleEndian.PutUint16(buf[2*i:], uint16(v))
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.out == nil {
		return
	}
	if _, err := p.out.Write(buf); err != nil {
		slog.Debug("audio write failed", "sound", s, "error", err)
	}
}

// Close releases the output if it was opened.
func (p *Synth) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.out == nil {
		return nil
	}
	err := p.out.Close()
	p.out = nil
	if err != nil {
		return fmt.Errorf("close audio output: %w", err)
	}
	return nil
}

// Render mixes tones into PCM samples. Each voice decays exponentially to 1%
// of its volume over its duration.
func (p *Synth) Render(tones []Tone) []int16 {
	n := int(Length(tones).Seconds() * SampleRate)
	mix := make([]float64, n)
	// Each render reads its own lane of the noise field.
	lane := p.noise.Float64() * 1000

	for v, t := range tones {
		start := int(t.Offset.Seconds() * SampleRate)
		length := int(t.Duration.Seconds() * SampleRate)
		if length == 0 {
			continue
		}
		phase := 0.0
		for i := 0; i < length && start+i < n; i++ {
			frac := float64(i) / float64(length)
			freq := t.Freq
			if t.Glide > 0 {
				freq = t.Freq + (t.Glide-t.Freq)*frac
			}
			phase += freq / SampleRate
			gain := t.Volume * math.Pow(0.01/max(t.Volume, 0.01), frac)
			if t.Wave == Noise {
				mix[start+i] += gain * p.rattle.Eval2(float64(start+i)*noiseStep, lane+float64(v))
				continue
			}
			mix[start+i] += gain * oscillate(t.Wave, phase)
		}
	}

	out := make([]int16, n)
	for i, v := range mix {
		v = math.Max(-1, math.Min(1, v))
		out[i] = int16(v * math.MaxInt16)
	}
	return out
}

func oscillate(w Wave, phase float64) float64 {
	_, frac := math.Modf(phase)
	switch w {
	case Square:
		if frac < 0.5 {
			return 1
		}
		return -1
	case Sawtooth:
		return 2*frac - 1
	case Triangle:
		return 1 - 4*math.Abs(frac-0.5)
	default:
		return math.Sin(2 * math.Pi * frac)
	}
}
