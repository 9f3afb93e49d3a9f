package format

import (
	"encoding/binary"
	"io"
	"math"
)

// Stream is a concrete snapshot byte stream over an io.Reader/Writer
// pair: little-endian fixed-width records, strings length-prefixed. The
// host supplies its own stream in production; this one backs tests and
// the CLI snapshot files.
type Stream struct {
	R io.Reader
	W io.Writer
}

func (s *Stream) WriteUnsigned(u uint64) error {
	return binary.Write(s.W, binary.LittleEndian, u)
}

func (s *Stream) WriteSigned(i int64) error {
	return binary.Write(s.W, binary.LittleEndian, i)
}

func (s *Stream) WriteDouble(f float64) error {
	return binary.Write(s.W, binary.LittleEndian, math.Float64bits(f))
}

func (s *Stream) WriteStringBuffer(b []byte) error {
	if err := s.WriteUnsigned(uint64(len(b))); err != nil {
		return err
	}
	_, err := s.W.Write(b)
	return err
}

func (s *Stream) ReadUnsigned() (uint64, error) {
	var u uint64
	err := binary.Read(s.R, binary.LittleEndian, &u)
	return u, err
}

func (s *Stream) ReadSigned() (int64, error) {
	var i int64
	err := binary.Read(s.R, binary.LittleEndian, &i)
	return i, err
}

func (s *Stream) ReadDouble() (float64, error) {
	u, err := s.ReadUnsigned()
	return math.Float64frombits(u), err
}

func (s *Stream) ReadStringBuffer() ([]byte, error) {
	length, err := s.ReadUnsigned()
	if err != nil {
		return nil, err
	}
	buf := make([]byte, length)
	if _, err := io.ReadFull(s.R, buf); err != nil {
		return nil, err
	}
	return buf, nil
}
