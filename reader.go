package pd0

import (
	"bytes"
	"encoding/binary"

	tiledb "github.com/TileDB-Inc/TileDB-Go"
)

// Stream caters for a generic reader type so that we can handle both
// a stream of data from a file on disk or object store, as well as
// an in-memory byte stream.
// This module deals with either a *tiledb.VFSfh or *bytes.Reader,
// and all we care about are two methods, Read and Seek,
// which both implement.
type Stream interface {
	Read(p []byte) (int, error)
	Seek(offset int64, whence int) (int64, error)
}

// function to handle whether we build an in-memory byte stream or leave
// it as a stream handled by *tiledb.VFSfh
func GenericStream(stream *tiledb.VFSfh, size uint64, inmem bool) (Stream, error) {
	if inmem {
		buffer := make([]byte, size)
		err := binary.Read(stream, binary.LittleEndian, &buffer)
		if err != nil {
			return nil, err
		}
		reader := bytes.NewReader(buffer)
		return reader, nil
	} else {
		return stream, nil
	}
}

// Tell is a small helper function for telling the current position within a
// binary file opened for reading.
func Tell(stream Stream) (int64, error) {
	pos, err := stream.Seek(0, 1)

	return pos, err
}

// All multi byte scalars within a PD0 ensemble are little endian.
// The readers below are offset addressed over the raw ensemble buffer,
// each checking that the read lies within the buffer before unpacking.

func u8At(buffer []byte, offset int) (uint8, error) {
	if offset < 0 || offset+1 > len(buffer) {
		return 0, &TruncatedError{Offset: offset, Width: 1}
	}

	return buffer[offset], nil
}

func u16At(buffer []byte, offset int) (uint16, error) {
	if offset < 0 || offset+2 > len(buffer) {
		return 0, &TruncatedError{Offset: offset, Width: 2}
	}

	return binary.LittleEndian.Uint16(buffer[offset:]), nil
}

func i16At(buffer []byte, offset int) (int16, error) {
	value, err := u16At(buffer, offset)
	if err != nil {
		return 0, err
	}

	return int16(value), nil
}

func u32At(buffer []byte, offset int) (uint32, error) {
	if offset < 0 || offset+4 > len(buffer) {
		return 0, &TruncatedError{Offset: offset, Width: 4}
	}

	return binary.LittleEndian.Uint32(buffer[offset:]), nil
}
