// Package wav encodes linear 16-bit PCM sample buffers into playable WAV
// containers. The header layout is an external compatibility contract: any
// deviation breaks playback in standard audio players.
package wav

import "encoding/binary"

const (
	// HeaderSize is the fixed RIFF/fmt/data header length in bytes.
	HeaderSize = 44

	bitsPerSample = 16
	bytesPerSample = bitsPerSample / 8

	formatLinearPCM = 1
	fmtChunkLength  = 16

	// ChannelCount is fixed: the TTS service produces mono PCM.
	ChannelCount = 1
)

// Encode produces a complete WAV file buffer from mono 16-bit samples at the
// given sample rate. It is a pure function with no failure modes for
// well-formed input.
func Encode(samples []int16, sampleRate int) []byte {
	dataSize := len(samples) * bytesPerSample
	buffer := make([]byte, HeaderSize+dataSize)

	byteRate := sampleRate * ChannelCount * bytesPerSample
	blockAlign := ChannelCount * bytesPerSample

	copy(buffer[0:4], "RIFF")
	binary.LittleEndian.PutUint32(buffer[4:8], uint32(36+dataSize))
	copy(buffer[8:12], "WAVE")

	copy(buffer[12:16], "fmt ")
	binary.LittleEndian.PutUint32(buffer[16:20], fmtChunkLength)
	binary.LittleEndian.PutUint16(buffer[20:22], formatLinearPCM)
	binary.LittleEndian.PutUint16(buffer[22:24], ChannelCount)
	binary.LittleEndian.PutUint32(buffer[24:28], uint32(sampleRate))
	binary.LittleEndian.PutUint32(buffer[28:32], uint32(byteRate))
	binary.LittleEndian.PutUint16(buffer[32:34], uint16(blockAlign))
	binary.LittleEndian.PutUint16(buffer[34:36], bitsPerSample)

	copy(buffer[36:40], "data")
	binary.LittleEndian.PutUint32(buffer[40:44], uint32(dataSize))

	for i, sample := range samples {
		offset := HeaderSize + i*bytesPerSample
		binary.LittleEndian.PutUint16(buffer[offset:offset+2], uint16(sample))
	}

	return buffer
}

// DecodePCM16 interprets raw little-endian bytes as 16-bit signed samples.
// A trailing odd byte is dropped so the sample count stays aligned to 16-bit
// boundaries.
func DecodePCM16(raw []byte) []int16 {
	sampleCount := len(raw) / bytesPerSample
	samples := make([]int16, sampleCount)

	for i := range samples {
		samples[i] = int16(binary.LittleEndian.Uint16(raw[i*bytesPerSample:]))
	}

	return samples
}
