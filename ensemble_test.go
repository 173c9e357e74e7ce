package pd0

import (
	"encoding/binary"
	"errors"
	"reflect"
	"testing"

	"github.com/stretchr/testify/require"
)

// appendChecksum computes the modulo-65536 byte sum of the buffer and
// appends it as the little endian trailer.
func appendChecksum(buffer []byte) []byte {
	var sum uint32
	for _, b := range buffer {
		sum += uint32(b)
	}

	return binary.LittleEndian.AppendUint16(buffer, uint16(sum&0xFFFF))
}

// buildEnsemble assembles a complete ensemble buffer from the supplied
// records, computing the address offset table and checksum trailer.
func buildEnsemble(records ...[]byte) []byte {
	n := len(records)
	size := HEADER_SIZE + n*ADDRESS_SIZE

	offsets := make([]uint16, n)
	for i, rec := range records {
		offsets[i] = uint16(size)
		size += len(rec)
	}

	buffer := make([]byte, 0, size+CHECKSUM_SIZE)
	buffer = append(buffer, HEADER_ID, HEADER_ID)
	buffer = binary.LittleEndian.AppendUint16(buffer, uint16(size))
	buffer = append(buffer, 0, uint8(n))
	for _, offset := range offsets {
		buffer = binary.LittleEndian.AppendUint16(buffer, offset)
	}
	for _, rec := range records {
		buffer = append(buffer, rec...)
	}

	return appendChecksum(buffer)
}

// fixedLeaderRecord builds a minimal FIXED_LEADER record; the id of
// 0x0000 is implied by the zeroed buffer.
func fixedLeaderRecord(num_beams, num_cells uint8) []byte {
	rec := make([]byte, FIXED_LEADER_SIZE)
	rec[8] = num_beams
	rec[9] = num_cells

	return rec
}

// variableLeaderRecord builds a minimal VARIABLE_LEADER record with the
// given RTC components.
func variableLeaderRecord(year, month, day, hour, minute, second, hundredths uint8) []byte {
	rec := make([]byte, VARIABLE_LEADER_SIZE)
	binary.LittleEndian.PutUint16(rec[0:2], uint16(VARIABLE_LEADER))
	rec[4] = year
	rec[5] = month
	rec[6] = day
	rec[7] = hour
	rec[8] = minute
	rec[9] = second
	rec[10] = hundredths

	return rec
}

// recordingSink captures unknown type id warnings for assertions.
type recordingSink struct {
	ids     []TypeID
	offsets []uint16
}

func (s *recordingSink) UnknownTypeId(id TypeID, offset uint16) {
	s.ids = append(s.ids, id)
	s.offsets = append(s.offsets, offset)
}

// The minimal header-only ensemble with its checksum of 0x0106.
var headerOnly = []byte{0x7F, 0x7F, 0x08, 0x00, 0x00, 0x00, 0x00, 0x00, 0x06, 0x01}

func TestDecodeHeaderOnly(t *testing.T) {
	require := require.New(t)

	ensemble, err := DecodeEnsemble(headerOnly, nil)
	require.NoError(err)

	require.Equal(uint8(0x7F), ensemble.Header.Id)
	require.Equal(uint8(0x7F), ensemble.Header.Data_source)
	require.Equal(uint16(8), ensemble.Header.Num_bytes)
	require.Equal(uint8(0), ensemble.Header.Spare)
	require.Equal(uint8(0), ensemble.Header.Num_data_types)
	require.Empty(ensemble.Header.Address_offsets)

	require.Nil(ensemble.Fixed_leader)
	require.Nil(ensemble.Variable_leader)
	require.Nil(ensemble.Velocity)
	require.Nil(ensemble.Bottom_track)
	require.True(ensemble.Timestamp.IsZero())
}

func TestDecodeInvalidMagic(t *testing.T) {
	require := require.New(t)

	buffer := append([]byte{}, headerOnly...)
	buffer[1] = 0x7E

	_, err := DecodeEnsemble(buffer, nil)
	require.ErrorIs(err, ErrInvalidHeader)

	var hdr_err *InvalidHeaderError
	require.ErrorAs(err, &hdr_err)
	require.Equal(uint8(0x7F), hdr_err.Id)
	require.Equal(uint8(0x7E), hdr_err.Data_source)
}

func TestDecodeChecksumMismatch(t *testing.T) {
	require := require.New(t)

	buffer := append([]byte{}, headerOnly...)
	buffer[8] = 0x00
	buffer[9] = 0x00

	_, err := DecodeEnsemble(buffer, nil)
	require.ErrorIs(err, ErrChecksum)

	var cks_err *ChecksumError
	require.ErrorAs(err, &cks_err)
	require.Equal(uint16(0x0106), cks_err.Computed)
	require.Equal(uint16(0x0000), cks_err.Expected)
}

func TestDecodeFixedLeaderEnsemble(t *testing.T) {
	require := require.New(t)

	buffer := buildEnsemble(fixedLeaderRecord(4, 2))
	require.Equal(66, int(binary.LittleEndian.Uint16(buffer[2:4])))

	ensemble, err := DecodeEnsemble(buffer, nil)
	require.NoError(err)

	require.NotNil(ensemble.Fixed_leader)
	require.Equal(uint8(4), ensemble.Fixed_leader.Num_beams)
	require.Equal(uint8(2), ensemble.Fixed_leader.Num_cells)
}

func TestDecodeVelocityEnsemble(t *testing.T) {
	require := require.New(t)

	cell := []byte{0x00, 0x00, 0xFF, 0xFF, 0x00, 0x80, 0xFF, 0x7F}
	velocity := []byte{0x00, 0x01}
	velocity = append(velocity, cell...)
	velocity = append(velocity, cell...)

	buffer := buildEnsemble(fixedLeaderRecord(4, 2), velocity)

	ensemble, err := DecodeEnsemble(buffer, nil)
	require.NoError(err)

	require.NotNil(ensemble.Velocity)
	require.Equal(uint16(VELOCITY), ensemble.Velocity.Id)
	require.Len(ensemble.Velocity.Data, 2)

	for _, row := range ensemble.Velocity.Data {
		require.Len(row, 4)
		require.Equal(int16(0), row[0])
		require.Equal(int16(-1), row[1])
		require.Equal(int16(-32768), row[2])
		require.Equal(int16(32767), row[3])
	}
}

func TestDecodeUnknownTypeId(t *testing.T) {
	require := require.New(t)

	unknown := []byte{0x99, 0x99, 0xAA, 0xBB}
	buffer := buildEnsemble(fixedLeaderRecord(4, 0), unknown)

	sink := &recordingSink{}
	ensemble, err := DecodeEnsemble(buffer, sink)
	require.NoError(err)

	require.NotNil(ensemble.Fixed_leader)
	require.Len(sink.ids, 1)
	require.Equal(TypeID(0x9999), sink.ids[0])
	require.Equal(ensemble.Header.Address_offsets[1], sink.offsets[0])
}

func TestDecodeZeroCells(t *testing.T) {
	require := require.New(t)

	velocity := []byte{0x00, 0x01}
	correlation := []byte{0x00, 0x02}

	buffer := buildEnsemble(fixedLeaderRecord(4, 0), velocity, correlation)

	ensemble, err := DecodeEnsemble(buffer, nil)
	require.NoError(err)

	require.NotNil(ensemble.Velocity)
	require.Empty(ensemble.Velocity.Data)
	require.NotNil(ensemble.Correlation)
	require.Empty(ensemble.Correlation.Data)
}

func TestDecodeProfilingBeforeFixedLeader(t *testing.T) {
	require := require.New(t)

	cell := []byte{0x01, 0x02, 0x03, 0x04}
	echo := []byte{0x00, 0x03}
	echo = append(echo, cell...)

	// the address table places the profiling record ahead of the fixed
	// leader; the two pass resolution must still succeed
	buffer := buildEnsemble(echo, fixedLeaderRecord(4, 1))

	ensemble, err := DecodeEnsemble(buffer, nil)
	require.NoError(err)

	require.NotNil(ensemble.Echo_intensity)
	require.Equal([][]uint8{{1, 2, 3, 4}}, ensemble.Echo_intensity.Data)
}

func TestDecodeMissingFixedLeader(t *testing.T) {
	require := require.New(t)

	velocity := []byte{0x00, 0x01, 0x00, 0x00}
	buffer := buildEnsemble(velocity)

	_, err := DecodeEnsemble(buffer, nil)
	require.ErrorIs(err, ErrMissingDependency)

	var dep_err *MissingDependencyError
	require.ErrorAs(err, &dep_err)
	require.Equal(VELOCITY, dep_err.Id)
}

func TestDecodeVariableLeaderTimestamp(t *testing.T) {
	require := require.New(t)

	buffer := buildEnsemble(variableLeaderRecord(19, 9, 12, 14, 30, 15, 25))

	ensemble, err := DecodeEnsemble(buffer, nil)
	require.NoError(err)

	require.NotNil(ensemble.Variable_leader)
	require.Equal(2019, ensemble.Timestamp.Year())
	require.Equal(2000+int(ensemble.Variable_leader.Rtc_year), ensemble.Timestamp.Year())
	require.Equal(9, int(ensemble.Timestamp.Month()))
	require.Equal(12, ensemble.Timestamp.Day())
	require.Equal(14, ensemble.Timestamp.Hour())
	require.Equal(30, ensemble.Timestamp.Minute())
	require.Equal(15, ensemble.Timestamp.Second())
	require.Equal(250_000_000, ensemble.Timestamp.Nanosecond())
}

func TestDecodeMalformedTimestamp(t *testing.T) {
	require := require.New(t)

	// month 13 does not compose into a valid calendar time
	buffer := buildEnsemble(variableLeaderRecord(19, 13, 1, 0, 0, 0, 0))

	_, err := DecodeEnsemble(buffer, nil)
	require.ErrorIs(err, ErrMalformedTimestamp)
}

func TestDecodeIdempotent(t *testing.T) {
	require := require.New(t)

	cell := []byte{0x00, 0x00, 0xFF, 0xFF, 0x00, 0x80, 0xFF, 0x7F}
	velocity := []byte{0x00, 0x01}
	velocity = append(velocity, cell...)

	buffer := buildEnsemble(
		fixedLeaderRecord(4, 1),
		variableLeaderRecord(21, 3, 4, 5, 6, 7, 8),
		velocity,
	)

	first, err := DecodeEnsemble(buffer, nil)
	require.NoError(err)
	second, err := DecodeEnsemble(buffer, nil)
	require.NoError(err)

	require.True(reflect.DeepEqual(first, second))
}

func TestDecodeTruncatedBuffers(t *testing.T) {
	require := require.New(t)

	buffer := buildEnsemble(fixedLeaderRecord(4, 2))

	// truncating by any positive amount yields either a checksum
	// mismatch or a truncation error
	for cut := 1; cut < len(buffer); cut++ {
		_, err := DecodeEnsemble(buffer[:len(buffer)-cut], nil)
		require.Error(err)

		mismatch := errors.Is(err, ErrChecksum) || errors.Is(err, ErrTruncated)
		require.True(mismatch, "cut=%d err=%v", cut, err)
	}
}

func TestDecodeCorruption(t *testing.T) {
	require := require.New(t)

	buffer := buildEnsemble(fixedLeaderRecord(4, 2), variableLeaderRecord(20, 1, 2, 3, 4, 5, 6))
	num_bytes := binary.LittleEndian.Uint16(buffer[2:4])

	// flipping a bit anywhere inside the checksummed region changes the
	// byte sum, so the validator must reject every corrupt copy
	for i := 0; i < int(num_bytes); i++ {
		corrupt := append([]byte{}, buffer...)
		corrupt[i] ^= 0x10

		err := ValidateChecksum(corrupt, num_bytes)
		require.ErrorIs(err, ErrChecksum, "byte=%d", i)
	}

	// likewise for the trailer itself
	corrupt := append([]byte{}, buffer...)
	corrupt[len(corrupt)-1] ^= 0x01
	err := ValidateChecksum(corrupt, num_bytes)
	require.ErrorIs(err, ErrChecksum)
}
