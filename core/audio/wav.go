package audio

import (
	"bytes"
	"encoding/binary"
)

// EncodeWAV wraps mono 16-bit PCM frames in a minimal RIFF header so the
// recording can be handed to file-based transcription APIs.
func EncodeWAV(frames [][]int16, sampleRate int) []byte {
	samples := 0
	for _, frame := range frames {
		samples += len(frame)
	}
	dataSize := samples * 2

	buf := bytes.Buffer{}
	buf.Grow(44 + dataSize)
	buf.WriteString("RIFF")
	binary.Write(&buf, binary.LittleEndian, uint32(36+dataSize))
	buf.WriteString("WAVE")
	buf.WriteString("fmt ")
	binary.Write(&buf, binary.LittleEndian, uint32(16))
	binary.Write(&buf, binary.LittleEndian, uint16(1)) // PCM
	binary.Write(&buf, binary.LittleEndian, uint16(1)) // mono
	binary.Write(&buf, binary.LittleEndian, uint32(sampleRate))
	binary.Write(&buf, binary.LittleEndian, uint32(sampleRate*2))
	binary.Write(&buf, binary.LittleEndian, uint16(2))
	binary.Write(&buf, binary.LittleEndian, uint16(16))
	buf.WriteString("data")
	binary.Write(&buf, binary.LittleEndian, uint32(dataSize))
	for _, frame := range frames {
		binary.Write(&buf, binary.LittleEndian, frame)
	}
	return buf.Bytes()
}

// FrameBytes converts a PCM frame to little-endian bytes.
func FrameBytes(frame []int16) []byte {
	out := make([]byte, len(frame)*2)
	for i, sample := range frame {
		binary.LittleEndian.PutUint16(out[i*2:], uint16(sample))
	}
	return out
}

// BytesToFrame parses little-endian 16-bit PCM into samples. A trailing odd
// byte is dropped.
func BytesToFrame(data []byte) []int16 {
	frame := make([]int16, 0, len(data)/2)
	for i := 0; i+1 < len(data); i += 2 {
		frame = append(frame, int16(binary.LittleEndian.Uint16(data[i:])))
	}
	return frame
}
