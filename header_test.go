package pd0

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDecodeHeaderAddressTable(t *testing.T) {
	require := require.New(t)

	buffer := buildEnsemble(
		fixedLeaderRecord(4, 2),
		variableLeaderRecord(20, 6, 1, 0, 0, 0, 0),
	)

	header, err := DecodeHeader(buffer)
	require.NoError(err)

	require.Equal(uint8(0x7F), header.Id)
	require.Equal(uint8(0x7F), header.Data_source)
	require.Equal(uint8(2), header.Num_data_types)
	require.Len(header.Address_offsets, int(header.Num_data_types))

	// the first record starts directly after the address table
	require.Equal(uint16(HEADER_SIZE+2*ADDRESS_SIZE), header.Address_offsets[0])
	require.Equal(
		header.Address_offsets[0]+uint16(FIXED_LEADER_SIZE),
		header.Address_offsets[1],
	)

	// every address lands strictly inside the checksummed region
	for _, address := range header.Address_offsets {
		require.Less(address, header.Num_bytes)
	}

	// num_bytes is the offset of the checksum trailer
	require.Equal(int(header.Num_bytes)+CHECKSUM_SIZE, len(buffer))
}

func TestDecodeHeaderTruncated(t *testing.T) {
	require := require.New(t)

	_, err := DecodeHeader([]byte{0x7F, 0x7F, 0x08})
	require.ErrorIs(err, ErrTruncated)

	var trunc_err *TruncatedError
	require.ErrorAs(err, &trunc_err)

	// a declared address table longer than the buffer
	short := []byte{0x7F, 0x7F, 0x20, 0x00, 0x00, 0x03, 0x0C, 0x00}
	_, err = DecodeHeader(short)
	require.ErrorIs(err, ErrTruncated)
}

func TestValidateChecksumTruncated(t *testing.T) {
	require := require.New(t)

	buffer := buildEnsemble()
	num_bytes := binary.LittleEndian.Uint16(buffer[2:4])

	require.NoError(ValidateChecksum(buffer, num_bytes))

	err := ValidateChecksum(buffer[:len(buffer)-1], num_bytes)
	require.ErrorIs(err, ErrTruncated)
}

func TestReaderPrimitives(t *testing.T) {
	require := require.New(t)

	buffer := []byte{0x01, 0xFF, 0xFF, 0x00, 0x80, 0x78, 0x56, 0x34, 0x12}

	u8, err := u8At(buffer, 0)
	require.NoError(err)
	require.Equal(uint8(1), u8)

	u16, err := u16At(buffer, 1)
	require.NoError(err)
	require.Equal(uint16(0xFFFF), u16)

	i16, err := i16At(buffer, 1)
	require.NoError(err)
	require.Equal(int16(-1), i16)

	i16, err = i16At(buffer, 3)
	require.NoError(err)
	require.Equal(int16(-32768), i16)

	u32, err := u32At(buffer, 5)
	require.NoError(err)
	require.Equal(uint32(0x12345678), u32)

	_, err = u32At(buffer, 6)
	require.ErrorIs(err, ErrTruncated)

	_, err = u8At(buffer, len(buffer))
	require.ErrorIs(err, ErrTruncated)
}
