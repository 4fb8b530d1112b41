// Package audio turns the reducer's one-shot sound tags into short synthesized
// cues and writes them as raw PCM to a lazily opened output.
package audio

import (
	"time"

	"github.com/talgya/hexharbor/internal/game"
)

// Wave is an oscillator shape.
type Wave uint8

const (
	Sine Wave = iota
	Square
	Sawtooth
	Triangle
	Noise
)

// Tone is one voice in a cue. Offset is measured from the cue start.
// A non-zero Glide slides the pitch linearly to that frequency.
type Tone struct {
	Freq     float64
	Glide    float64
	Wave     Wave
	Offset   time.Duration
	Duration time.Duration
	Volume   float64
}

const defaultVolume = 0.1

func ms(n int) time.Duration { return time.Duration(n) * time.Millisecond }

// Cues maps each sound tag to its voices.
var Cues = map[game.Sound][]Tone{
	// Major arpeggio C4 E4 G4.
	game.SoundStart: {
		{Freq: 261.63, Wave: Sine, Duration: ms(200), Volume: defaultVolume},
		{Freq: 329.63, Wave: Sine, Offset: ms(100), Duration: ms(200), Volume: defaultVolume},
		{Freq: 392.00, Wave: Sine, Offset: ms(200), Duration: ms(400), Volume: defaultVolume},
	},
	// Three bursts of rattle.
	game.SoundDice: {
		{Wave: Noise, Duration: ms(100), Volume: 0.05},
		{Wave: Noise, Offset: ms(80), Duration: ms(100), Volume: 0.05},
		{Wave: Noise, Offset: ms(160), Duration: ms(150), Volume: 0.05},
	},
	game.SoundCoin: {
		{Freq: 880, Wave: Sine, Duration: ms(100), Volume: 0.05},
		{Freq: 1760, Wave: Sine, Offset: ms(50), Duration: ms(300), Volume: 0.05},
	},
	game.SoundBuild: {
		{Freq: 150, Wave: Square, Duration: ms(100), Volume: defaultVolume},
		{Freq: 100, Wave: Square, Offset: ms(50), Duration: ms(100), Volume: defaultVolume},
	},
	game.SoundRobber: {
		{Freq: 100, Wave: Sawtooth, Duration: ms(400), Volume: defaultVolume},
		{Freq: 80, Wave: Sawtooth, Offset: ms(200), Duration: ms(400), Volume: defaultVolume},
	},
	game.SoundSteal: {
		{Freq: 600, Glide: 300, Wave: Triangle, Duration: ms(100), Volume: defaultVolume},
	},
	game.SoundTrade: {
		{Freq: 523.25, Wave: Sine, Duration: ms(100), Volume: defaultVolume},
		{Freq: 659.25, Wave: Sine, Offset: ms(100), Duration: ms(200), Volume: defaultVolume},
	},
	// Descending G4 to C4.
	game.SoundEndTurn: {
		{Freq: 392.00, Wave: Triangle, Duration: ms(150), Volume: defaultVolume},
		{Freq: 261.63, Wave: Triangle, Offset: ms(150), Duration: ms(300), Volume: defaultVolume},
	},
	game.SoundPlayCard: {
		{Freq: 1000, Wave: Sine, Duration: ms(100), Volume: 0.05},
		{Freq: 2000, Wave: Sine, Offset: ms(50), Duration: ms(200), Volume: 0.05},
	},
	game.SoundError: {
		{Freq: 120, Wave: Sawtooth, Duration: ms(150), Volume: defaultVolume},
		{Freq: 100, Wave: Sawtooth, Offset: ms(50), Duration: ms(200), Volume: defaultVolume},
	},
	game.SoundClick: {
		{Freq: 1200, Wave: Sine, Duration: ms(50), Volume: 0.02},
	},
}

// Length returns how long the cue runs.
func Length(tones []Tone) time.Duration {
	var end time.Duration
	for _, t := range tones {
		end = max(end, t.Offset+t.Duration)
	}
	return end
}
