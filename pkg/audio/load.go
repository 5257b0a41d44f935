package audio

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path"
	"strings"

	"github.com/dustin/go-humanize"
	meltysynth "github.com/sinshu/go-meltysynth/meltysynth"

	"github.com/oisee/chordpad/pkg/logger"
)

// Source describes the instrument to load
type Source struct {
	// SoundFont is a .sf2 file path or http(s) URL. Empty selects the
	// built-in oscillator synth.
	SoundFont string
	// Program is the General MIDI program (0 = acoustic grand piano)
	Program int
	// Waveform of the built-in synth: triangle, saw, square, sawbig
	Waveform   string
	SampleRate int
}

func (s Source) describe() string {
	if s.SoundFont == "" {
		return "tone:" + s.Waveform
	}
	return s.SoundFont
}

// InitError reports that the instrument could not be loaded. The pad
// stays idle and the next chord key retries.
type InitError struct {
	Source string
	Err    error
}

func (e *InitError) Error() string {
	return fmt.Sprintf("audio init %s: %v", e.Source, e.Err)
}

func (e *InitError) Unwrap() error { return e.Err }

func newSynthesizer(sf *meltysynth.SoundFont, settings *meltysynth.SynthesizerSettings) (synthesizer, error) {
	syn, err := meltysynth.NewSynthesizer(sf, settings)
	if err != nil {
		return nil, err
	}
	return syn, nil
}

// programChanger is implemented by meltysynth.Synthesizer
type programChanger interface {
	ProcessMidiMessage(channel, command, data1, data2 int32)
}

// Load prepares an instrument. It may block on file or network I/O and
// is meant to run off the UI goroutine. Every failure is an *InitError.
func Load(ctx context.Context, src Source) (*Instrument, error) {
	if src.SampleRate <= 0 {
		src.SampleRate = DefaultSampleRate
	}

	if src.SoundFont == "" {
		gen, ok := ParseGenerator(src.Waveform)
		if !ok {
			return nil, &InitError{Source: src.describe(), Err: fmt.Errorf("unknown waveform %q", src.Waveform)}
		}
		logger.Info("audio: using built-in synth", logger.Fields{"waveform": src.Waveform, "rate": src.SampleRate})
		return newInstrument("tone", src.SampleRate, newToneSynth(src.SampleRate, gen, PianoEnvelope)), nil
	}

	data, err := fetch(ctx, src.SoundFont)
	if err != nil {
		return nil, &InitError{Source: src.describe(), Err: err}
	}
	sf, err := meltysynth.NewSoundFont(bytes.NewReader(data))
	if err != nil {
		return nil, &InitError{Source: src.describe(), Err: fmt.Errorf("decode soundfont: %w", err)}
	}
	settings := meltysynth.NewSynthesizerSettings(int32(src.SampleRate))
	settings.BlockSize = block
	syn, err := newSynthesizer(sf, settings)
	if err != nil {
		return nil, &InitError{Source: src.describe(), Err: fmt.Errorf("synthesizer: %w", err)}
	}
	if pc, ok := syn.(programChanger); ok {
		pc.ProcessMidiMessage(midiChannel, 0xC0, int32(src.Program), 0)
	}

	name := strings.TrimSuffix(path.Base(src.SoundFont), path.Ext(src.SoundFont))
	logger.Info("audio: soundfont loaded", logger.Fields{
		"name":    name,
		"size":    humanize.Bytes(uint64(len(data))),
		"program": src.Program,
	})
	return newInstrument(name, src.SampleRate, syn), nil
}

func fetch(ctx context.Context, location string) ([]byte, error) {
	if !strings.HasPrefix(location, "http://") && !strings.HasPrefix(location, "https://") {
		return os.ReadFile(location)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, location, nil)
	if err != nil {
		return nil, err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch soundfont: %s", resp.Status)
	}
	return io.ReadAll(resp.Body)
}
