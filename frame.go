package pd0

import (
	"bufio"
	"encoding/binary"
	"io"
)

// EnsembleScanner frames self delimited ensembles out of a byte stream.
// PD0 files and live serial feeds simply concatenate ensembles, so the
// scanner searches for the 7F7F id pair, reads the declared byte count,
// and hands back the raw buffer for one ensemble at a time.
// Garbage between ensembles (line turn around noise on serial feeds,
// partial records at the head of a capture) is skipped by resyncing on
// the next id pair.
type EnsembleScanner struct {
	reader *bufio.Reader
	pos    int64
}

// NewEnsembleScanner constructs an EnsembleScanner over a generic
// reader.
func NewEnsembleScanner(r io.Reader) *EnsembleScanner {
	return &EnsembleScanner{reader: bufio.NewReader(r)}
}

// readByte is a small wrapper tracking the byte index within the stream.
func (s *EnsembleScanner) readByte() (byte, error) {
	b, err := s.reader.ReadByte()
	if err != nil {
		return 0, err
	}
	s.pos++

	return b, nil
}

// Next returns the byte index and raw buffer of the next ensemble
// within the stream. io.EOF is returned once the stream is exhausted;
// io.ErrUnexpectedEOF when the stream ends inside an ensemble body.
// The returned buffer spans the header through the checksum trailer
// inclusive, ready for DecodeEnsemble.
func (s *EnsembleScanner) Next() (offset int64, buffer []byte, err error) {
	// resync on the 7F7F id pair
	for {
		b, err := s.readByte()
		if err != nil {
			return 0, nil, err
		}
		if b != HEADER_ID {
			continue
		}

		peek, err := s.reader.Peek(1)
		if err != nil {
			if err == io.EOF {
				return 0, nil, io.EOF
			}
			return 0, nil, err
		}
		if peek[0] != HEADER_ID {
			continue
		}

		offset = s.pos - 1
		_, _ = s.readByte()
		break
	}

	// the rest of the fixed prefix carries the byte count
	prefix := make([]byte, HEADER_SIZE-2)
	n, err := io.ReadFull(s.reader, prefix)
	s.pos += int64(n)
	if err != nil {
		if err == io.EOF {
			err = io.ErrUnexpectedEOF
		}
		return offset, nil, err
	}

	num_bytes := binary.LittleEndian.Uint16(prefix[0:2])

	// num_bytes counts from the start of the header and excludes the
	// two checksum trailer bytes
	total := int(num_bytes) + CHECKSUM_SIZE
	if total < HEADER_SIZE+CHECKSUM_SIZE {
		// implausible byte count; treat the id pair as noise and resync
		return s.Next()
	}

	buffer = make([]byte, total)
	buffer[0] = HEADER_ID
	buffer[1] = HEADER_ID
	copy(buffer[2:HEADER_SIZE], prefix)

	n, err = io.ReadFull(s.reader, buffer[HEADER_SIZE:])
	s.pos += int64(n)
	if err != nil {
		if err == io.EOF {
			err = io.ErrUnexpectedEOF
		}
		return offset, nil, err
	}

	return offset, buffer, nil
}
