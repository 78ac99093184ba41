package media

import (
	"bytes"
	"encoding/binary"
	"errors"
)

var errNotWAV = errors.New("not a wav file")

// WAVDuration parses a RIFF/WAVE header and returns frames / sample rate.
func WAVDuration(data []byte) (float64, error) {
	if len(data) < 12 || !bytes.Equal(data[0:4], []byte("RIFF")) || !bytes.Equal(data[8:12], []byte("WAVE")) {
		return 0, errNotWAV
	}

	var (
		sampleRate uint32
		blockAlign uint16
		haveFmt    bool
	)

	off := 12
	for off+8 <= len(data) {
		id := string(data[off : off+4])
		size := int(binary.LittleEndian.Uint32(data[off+4 : off+8]))
		body := off + 8

		switch id {
		case "fmt ":
			if size < 16 || body+16 > len(data) {
				return 0, errors.New("wav: short fmt chunk")
			}
			sampleRate = binary.LittleEndian.Uint32(data[body+4 : body+8])
			blockAlign = binary.LittleEndian.Uint16(data[body+12 : body+14])
			haveFmt = true
		case "data":
			if !haveFmt {
				return 0, errors.New("wav: data before fmt")
			}
			if sampleRate == 0 || blockAlign == 0 {
				return 0, errors.New("wav: zero sample rate or block align")
			}
			// streaming writers leave the size at 0 or 0xFFFFFFFF
			if size == 0 || body+size > len(data) {
				size = len(data) - body
			}
			frames := size / int(blockAlign)
			return float64(frames) / float64(sampleRate), nil
		}

		// chunks are padded to even sizes
		off = body + size + size%2
	}
	return 0, errors.New("wav: no data chunk")
}
