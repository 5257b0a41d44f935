package audio

import (
	"encoding/binary"
	"fmt"
	"sync"

	"github.com/ebitengine/oto/v3"
)

var (
	otoOnce sync.Once
	otoCtx  *oto.Context
	otoErr  error
)

// otoContext returns the process-wide oto context; oto allows only one
func otoContext(sampleRate int) (*oto.Context, error) {
	otoOnce.Do(func() {
		op := &oto.NewContextOptions{
			SampleRate:   sampleRate,
			ChannelCount: 2,
			Format:       oto.FormatSignedInt16LE,
		}
		var ready chan struct{}
		otoCtx, ready, otoErr = oto.NewContext(op)
		if otoErr == nil {
			<-ready
		}
	})
	return otoCtx, otoErr
}

// RealtimeOutput streams an Instrument to the sound card
type RealtimeOutput struct {
	*Instrument
	otoPlayer *oto.Player
}

// OpenRealtime starts streaming inst. The returned output is itself an
// arp.Player through the embedded Instrument.
func OpenRealtime(inst *Instrument) (*RealtimeOutput, error) {
	ctx, err := otoContext(inst.SampleRate)
	if err != nil {
		return nil, &InitError{Source: inst.Name, Err: fmt.Errorf("audio device: %w", err)}
	}

	rt := &RealtimeOutput{Instrument: inst}
	rt.otoPlayer = ctx.NewPlayer(&audioStream{inst: inst})
	rt.otoPlayer.SetBufferSize(inst.SampleRate / 10 * 4) // 100ms of 16-bit stereo
	rt.otoPlayer.Play()
	return rt, nil
}

// Close stops the audio output
func (rt *RealtimeOutput) Close() error {
	if rt.otoPlayer == nil {
		return nil
	}
	return rt.otoPlayer.Close()
}

// audioStream implements io.Reader for oto
type audioStream struct {
	inst        *Instrument
	left, right []float32
}

func (s *audioStream) Read(buf []byte) (int, error) {
	frames := len(buf) / 4 // 16-bit stereo
	if frames == 0 {
		return 0, nil
	}
	if frames > len(s.left) {
		s.left = make([]float32, frames)
		s.right = make([]float32, frames)
	}

	s.inst.Render(s.left[:frames], s.right[:frames])
	encodePCM(buf, s.left[:frames], s.right[:frames])
	return frames * 4, nil
}

// encodePCM writes interleaved 16-bit little-endian stereo
func encodePCM(dst []byte, left, right []float32) {
	for i := range left {
		binary.LittleEndian.PutUint16(dst[4*i:], uint16(toInt16(left[i])))
		binary.LittleEndian.PutUint16(dst[4*i+2:], uint16(toInt16(right[i])))
	}
}

func toInt16(sample float32) int16 {
	if sample > 1.0 {
		sample = 1.0
	}
	if sample < -1.0 {
		sample = -1.0
	}
	return int16(sample * 32767)
}
