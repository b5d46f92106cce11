package base

import (
	"encoding/binary"
	"fmt"
	"io"
	"net"
)

const (
	// headerSize is the length of the frame header (payload length, uint32 big endian)
	headerSize = 4
	// MaxFrameSize is the largest payload accepted by readFrame
	MaxFrameSize = 64 * 1024 * 1024 // 64 MB
)

// writeFrame writes a frame to the connection with the format:
// - 4 bytes: data length (uint32, big endian)
// - N bytes: data payload
func writeFrame(conn io.Writer, data []byte) error {
	if len(data) > MaxFrameSize {
		return fmt.Errorf("frame too large: %d bytes", len(data))
	}
	header := make([]byte, headerSize)
	binary.BigEndian.PutUint32(header, uint32(len(data)))

	b := net.Buffers{header, data}
	_, err := b.WriteTo(conn)
	return err
}

// readFrame reads a frame from the connection using the provided buffer
// If the buffer is too small, it will allocate a new buffer for the data.
// The returned slice is only valid until the buffer is reused.
func readFrame(conn io.Reader, buf []byte) ([]byte, error) {
	var header [headerSize]byte

	// Read header. A clean close before the header is reported as io.EOF
	if _, err := io.ReadFull(conn, header[:]); err != nil {
		return nil, err
	}

	contentLength := binary.BigEndian.Uint32(header[:])
	if contentLength > MaxFrameSize {
		return nil, fmt.Errorf("frame too large: %d bytes", contentLength)
	}

	// If no data, return empty slice
	if contentLength == 0 {
		return []byte{}, nil
	}

	// Check if buffer is large enough for data
	if len(buf) < int(contentLength) {
		buf = make([]byte, contentLength)
	}

	// A close in the middle of a frame is an error, not a clean EOF
	if _, err := io.ReadFull(conn, buf[:contentLength]); err != nil {
		if err == io.EOF {
			err = io.ErrUnexpectedEOF
		}
		return nil, err
	}

	return buf[:contentLength], nil
}
