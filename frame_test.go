package pd0

import (
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEnsembleScanner(t *testing.T) {
	require := require.New(t)

	first := buildEnsemble(fixedLeaderRecord(4, 1))
	second := buildEnsemble(variableLeaderRecord(20, 5, 6, 7, 8, 9, 10))

	// line noise ahead of and between the ensembles, including a lone
	// 7F that must not trigger a false frame
	stream := []byte{0x00, 0x7F, 0x01}
	offset_first := int64(len(stream))
	stream = append(stream, first...)
	stream = append(stream, 0xDE, 0xAD)
	offset_second := int64(len(stream))
	stream = append(stream, second...)

	scanner := NewEnsembleScanner(bytes.NewReader(stream))

	offset, buffer, err := scanner.Next()
	require.NoError(err)
	require.Equal(offset_first, offset)
	require.Equal(first, buffer)

	offset, buffer, err = scanner.Next()
	require.NoError(err)
	require.Equal(offset_second, offset)
	require.Equal(second, buffer)

	_, _, err = scanner.Next()
	require.ErrorIs(err, io.EOF)
}

func TestEnsembleScannerDecodes(t *testing.T) {
	require := require.New(t)

	raw := buildEnsemble(fixedLeaderRecord(4, 2))
	scanner := NewEnsembleScanner(bytes.NewReader(raw))

	_, buffer, err := scanner.Next()
	require.NoError(err)

	ensemble, err := DecodeEnsemble(buffer, nil)
	require.NoError(err)
	require.Equal(uint8(2), ensemble.Fixed_leader.Num_cells)
}

func TestEnsembleScannerTruncatedTail(t *testing.T) {
	require := require.New(t)

	raw := buildEnsemble(fixedLeaderRecord(4, 2))
	scanner := NewEnsembleScanner(bytes.NewReader(raw[:len(raw)-10]))

	_, _, err := scanner.Next()
	require.ErrorIs(err, io.ErrUnexpectedEOF)
}

func TestEnsembleScannerEmpty(t *testing.T) {
	require := require.New(t)

	scanner := NewEnsembleScanner(bytes.NewReader(nil))
	_, _, err := scanner.Next()
	require.ErrorIs(err, io.EOF)
}

func TestMockDvlPortMonitor(t *testing.T) {
	require := require.New(t)

	first := buildEnsemble(fixedLeaderRecord(4, 1))
	second := buildEnsemble(bottomTrackRecord())
	stream := append(append([]byte{0x13, 0x37}, first...), second...)

	mock := &MockDvlPort{
		Data:          bytes.NewReader(stream),
		EnsemblesChan: make(chan []byte, 4),
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- mock.Monitor(ctx)
	}()

	buffer := <-mock.Ensembles()
	require.Equal(first, buffer)

	buffer = <-mock.Ensembles()
	ensemble, err := DecodeEnsemble(buffer, nil)
	require.NoError(err)
	require.NotNil(ensemble.Bottom_track)

	cancel()
	require.NoError(<-done)
	require.NoError(mock.Close())
}
