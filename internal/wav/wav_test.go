package wav_test

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/eduforge/assetgen/internal/wav"
)

func TestEncode_HeaderLayout(t *testing.T) {
	t.Parallel()

	samples := []int16{0, 32767, -32768, 100}
	buffer := wav.Encode(samples, 24000)

	require.Len(t, buffer, 52)

	require.Equal(t, []byte("RIFF"), buffer[0:4])
	require.Equal(t, uint32(36+8), binary.LittleEndian.Uint32(buffer[4:8]))
	require.Equal(t, []byte("WAVE"), buffer[8:12])

	require.Equal(t, []byte("fmt "), buffer[12:16])
	require.Equal(t, uint32(16), binary.LittleEndian.Uint32(buffer[16:20]))
	require.Equal(t, uint16(1), binary.LittleEndian.Uint16(buffer[20:22]))
	require.Equal(t, uint16(1), binary.LittleEndian.Uint16(buffer[22:24]))
	require.Equal(t, uint32(24000), binary.LittleEndian.Uint32(buffer[24:28]))
	require.Equal(t, uint32(48000), binary.LittleEndian.Uint32(buffer[28:32]))
	require.Equal(t, uint16(2), binary.LittleEndian.Uint16(buffer[32:34]))
	require.Equal(t, uint16(16), binary.LittleEndian.Uint16(buffer[34:36]))

	require.Equal(t, []byte("data"), buffer[36:40])
	require.Equal(t, uint32(8), binary.LittleEndian.Uint32(buffer[40:44]))
}

func TestEncode_SampleOrder(t *testing.T) {
	t.Parallel()

	samples := []int16{0, 32767, -32768, 100}
	buffer := wav.Encode(samples, 24000)

	payload := buffer[wav.HeaderSize:]
	for i, want := range samples {
		got := int16(binary.LittleEndian.Uint16(payload[i*2:]))
		require.Equal(t, want, got, "sample %d", i)
	}
}

func TestEncode_EmptyInput(t *testing.T) {
	t.Parallel()

	buffer := wav.Encode(nil, 24000)

	require.Len(t, buffer, wav.HeaderSize)
	require.Equal(t, uint32(0), binary.LittleEndian.Uint32(buffer[40:44]))
}

func TestDecodePCM16(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name string
		raw  []byte
		want []int16
	}{
		{
			name: "two whole samples",
			raw:  []byte{0x01, 0x00, 0xFF, 0x7F},
			want: []int16{1, 32767},
		},
		{
			name: "negative sample",
			raw:  []byte{0x00, 0x80},
			want: []int16{-32768},
		},
		{
			name: "trailing odd byte dropped",
			raw:  []byte{0x64, 0x00, 0xAB},
			want: []int16{100},
		},
		{
			name: "empty",
			raw:  nil,
			want: []int16{},
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			require.Equal(t, testCase.want, wav.DecodePCM16(testCase.raw))
		})
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	t.Parallel()

	samples := []int16{-1, 0, 1, 12345, -12345}
	buffer := wav.Encode(samples, 24000)

	require.Equal(t, samples, wav.DecodePCM16(buffer[wav.HeaderSize:]))
}
