package audio

import (
	"encoding/binary"
	"io"
	"time"

	"github.com/oisee/chordpad/pkg/clock"
)

// WAVWriter writes 16-bit PCM WAV
type WAVWriter struct {
	writer      io.Writer
	sampleRate  int
	channels    int
	dataWritten int
}

// NewWAVWriter creates a WAV writer
func NewWAVWriter(w io.Writer, sampleRate, channels int) *WAVWriter {
	return &WAVWriter{
		writer:     w,
		sampleRate: sampleRate,
		channels:   channels,
	}
}

// WriteHeader writes the WAV header for dataSize bytes of samples
func (w *WAVWriter) WriteHeader(dataSize int) error {
	byteRate := w.sampleRate * w.channels * 2
	blockAlign := w.channels * 2

	var header [44]byte
	copy(header[0:], "RIFF")
	binary.LittleEndian.PutUint32(header[4:], uint32(dataSize+36))
	copy(header[8:], "WAVE")
	copy(header[12:], "fmt ")
	binary.LittleEndian.PutUint32(header[16:], 16) // Chunk size
	binary.LittleEndian.PutUint16(header[20:], 1)  // PCM format
	binary.LittleEndian.PutUint16(header[22:], uint16(w.channels))
	binary.LittleEndian.PutUint32(header[24:], uint32(w.sampleRate))
	binary.LittleEndian.PutUint32(header[28:], uint32(byteRate))
	binary.LittleEndian.PutUint16(header[32:], uint16(blockAlign))
	binary.LittleEndian.PutUint16(header[34:], 16) // Bits per sample
	copy(header[36:], "data")
	binary.LittleEndian.PutUint32(header[40:], uint32(dataSize))

	_, err := w.writer.Write(header[:])
	return err
}

// WriteStereo writes left/right frames as interleaved 16-bit PCM
func (w *WAVWriter) WriteStereo(left, right []float32) error {
	buf := make([]byte, len(left)*4)
	encodePCM(buf, left, right)
	n, err := w.writer.Write(buf)
	w.dataWritten += n
	return err
}

// Written returns the number of sample bytes written
func (w *WAVWriter) Written() int { return w.dataWritten }

// ExportWAV renders length of audio from inst into a stereo WAV. The
// manual clock is advanced in step with the rendered audio, so anything
// scheduled on it (an arpeggiator, chord changes) plays into the file.
func ExportWAV(w io.Writer, inst *Instrument, clk *clock.Manual, length time.Duration) error {
	totalFrames := int(inst.samples(length))
	wavWriter := NewWAVWriter(w, inst.SampleRate, 2)
	if err := wavWriter.WriteHeader(totalFrames * 4); err != nil {
		return err
	}

	left := make([]float32, block)
	right := make([]float32, block)
	rendered := 0
	for rendered < totalFrames {
		n := block
		if totalFrames-rendered < n {
			n = totalFrames - rendered
		}
		clk.Advance(blockDuration(n, inst.SampleRate))
		inst.Render(left[:n], right[:n])
		if err := wavWriter.WriteStereo(left[:n], right[:n]); err != nil {
			return err
		}
		rendered += n
	}
	return nil
}

func blockDuration(frames, sampleRate int) time.Duration {
	return time.Duration(frames) * time.Second / time.Duration(sampleRate)
}
