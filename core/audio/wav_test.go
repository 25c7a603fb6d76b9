package audio

import (
	"encoding/binary"
	"testing"
)

func TestEncodeWAVHeader(t *testing.T) {
	frames := [][]int16{{1, -1, 300}, {-300, 0}}
	encoded := EncodeWAV(frames, 16000)

	if len(encoded) != 44+10 {
		t.Fatalf("expected 44 byte header plus 10 data bytes, got %d", len(encoded))
	}
	if string(encoded[0:4]) != "RIFF" || string(encoded[8:12]) != "WAVE" {
		t.Fatalf("expected RIFF/WAVE markers, got %q %q", encoded[0:4], encoded[8:12])
	}
	if got := binary.LittleEndian.Uint32(encoded[4:]); got != 36+10 {
		t.Fatalf("expected chunk size %d, got %d", 36+10, got)
	}
	if got := binary.LittleEndian.Uint16(encoded[22:]); got != 1 {
		t.Fatalf("expected mono channel count, got %d", got)
	}
	if got := binary.LittleEndian.Uint32(encoded[24:]); got != 16000 {
		t.Fatalf("expected sample rate 16000, got %d", got)
	}
	if got := binary.LittleEndian.Uint16(encoded[34:]); got != 16 {
		t.Fatalf("expected 16 bits per sample, got %d", got)
	}
	if string(encoded[36:40]) != "data" {
		t.Fatalf("expected data chunk marker, got %q", encoded[36:40])
	}
	if got := binary.LittleEndian.Uint32(encoded[40:]); got != 10 {
		t.Fatalf("expected data size 10, got %d", got)
	}

	if got := int16(binary.LittleEndian.Uint16(encoded[44:])); got != 1 {
		t.Fatalf("expected first sample 1, got %d", got)
	}
	if got := int16(binary.LittleEndian.Uint16(encoded[46:])); got != -1 {
		t.Fatalf("expected second sample -1, got %d", got)
	}
}

func TestFrameBytesRoundTrip(t *testing.T) {
	frame := []int16{0, 1, -1, 32767, -32768}
	if got := BytesToFrame(FrameBytes(frame)); len(got) != len(frame) {
		t.Fatalf("expected %d samples, got %d", len(frame), len(got))
	} else {
		for i := range frame {
			if got[i] != frame[i] {
				t.Fatalf("expected sample %d back at %d, got %d", frame[i], i, got[i])
			}
		}
	}
}

func TestBytesToFrameDropsTrailingOddByte(t *testing.T) {
	if got := BytesToFrame([]byte{0x01, 0x00, 0xFF}); len(got) != 1 || got[0] != 1 {
		t.Fatalf("expected single sample 1, got %v", got)
	}
}
