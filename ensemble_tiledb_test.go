package pd0

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEnsembleDataAppend(t *testing.T) {
	require := require.New(t)

	cell := []byte{0x00, 0x00, 0xFF, 0xFF, 0x00, 0x80, 0xFF, 0x7F}
	velocity := []byte{0x00, 0x01}
	velocity = append(velocity, cell...)

	variable := variableLeaderRecord(21, 3, 4, 5, 6, 7, 8)
	buffer := buildEnsemble(
		fixedLeaderRecord(4, 1),
		variable,
		velocity,
		bottomTrackRecord(),
	)

	ensemble, err := DecodeEnsemble(buffer, nil)
	require.NoError(err)

	data := EnsembleData{}
	data.AppendEnsemble(&ensemble)

	// one ensemble header row
	require.Len(data.Ensemble_headers.Timestamp, 1)
	require.Equal(ensemble.Timestamp, data.Ensemble_headers.Timestamp[0])

	// one row per (cell, beam) sample
	require.Len(data.Beam_records.Velocity, 4)
	require.Equal([]int16{0, -1, -32768, 32767}, data.Beam_records.Velocity)
	require.Equal([]uint8{0, 0, 0, 0}, data.Beam_records.Cell_number)
	require.Equal([]uint8{0, 1, 2, 3}, data.Beam_records.Beam_number)

	// the ensemble carried no correlation record; rows are padded
	require.Equal([]uint8{0, 0, 0, 0}, data.Beam_records.Correlation)

	// one bottom track row with the composed 24 bit ranges
	require.Len(data.Bottom_track_records.Beam1_range, 1)
	require.Equal(uint32(1)<<16|uint32(5000), data.Bottom_track_records.Beam1_range[0])
}

func TestEnsembleHeadersScaling(t *testing.T) {
	require := require.New(t)

	variable := &VariableLeader{
		Ensemble_number: 7,
		Heading:         35999,
		Pitch:           -200,
		Roll:            150,
		Temperature:     1250,
	}
	ensemble := Ensemble{Variable_leader: variable}

	headers := EnsembleHeaders{}
	headers.appendEnsemble(&ensemble)

	require.Equal([]uint16{7}, headers.Ensemble_number)
	require.InDelta(359.99, float64(headers.Heading[0]), 1e-4)
	require.InDelta(-2.0, float64(headers.Pitch[0]), 1e-6)
	require.InDelta(1.5, float64(headers.Roll[0]), 1e-6)
	require.InDelta(12.5, float64(headers.Temperature[0]), 1e-6)
}

func TestEnsembleDataSkipsAbsentRecords(t *testing.T) {
	require := require.New(t)

	ensemble, err := DecodeEnsemble(headerOnly, nil)
	require.NoError(err)

	data := EnsembleData{}
	data.AppendEnsemble(&ensemble)

	require.Empty(data.Ensemble_headers.Timestamp)
	require.Empty(data.Beam_records.Velocity)
	require.Empty(data.Bottom_track_records.Ensemble_number)
}
