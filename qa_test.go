package pd0

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestQInfoConsistent(t *testing.T) {
	require := require.New(t)

	base := time.Date(2021, 6, 1, 12, 0, 0, 0, time.UTC)
	fi := FileInfo{
		Ensemble_Info: []EnsembleInfo{
			{Num_cells: 40, Num_beams: 4, Timestamp: base},
			{Num_cells: 40, Num_beams: 4, Timestamp: base.Add(time.Second)},
			{Num_cells: 40, Num_beams: 4, Timestamp: base.Add(2 * time.Second)},
		},
	}

	fi.QInfo()

	qa := fi.Metadata.Quality_Info
	require.Equal([]uint8{40, 40}, qa.Min_Max_Cells)
	require.Equal([]uint8{4, 4}, qa.Min_Max_Beams)
	require.True(qa.Consistent_Cells)
	require.True(qa.Consistent_Beams)
	require.False(qa.Duplicate_Ensembles)
	require.Empty(qa.Duplicates)
}

func TestQInfoInconsistent(t *testing.T) {
	require := require.New(t)

	base := time.Date(2021, 6, 1, 12, 0, 0, 0, time.UTC)
	fi := FileInfo{
		Ensemble_Info: []EnsembleInfo{
			{Num_cells: 40, Num_beams: 4, Timestamp: base},
			{Num_cells: 20, Num_beams: 4, Timestamp: base},
		},
	}

	fi.QInfo()

	qa := fi.Metadata.Quality_Info
	require.Equal([]uint8{20, 40}, qa.Min_Max_Cells)
	require.False(qa.Consistent_Cells)
	require.True(qa.Consistent_Beams)
	require.True(qa.Duplicate_Ensembles)
	require.Equal([]time.Time{base}, qa.Duplicates)
}

func TestSummaryInfo(t *testing.T) {
	require := require.New(t)

	start := time.Date(2019, 9, 12, 8, 0, 0, 0, time.UTC)
	end := start.Add(90 * time.Minute)

	fi := FileInfo{
		Ensemble_Info: []EnsembleInfo{
			{Num_cells: 40, Num_beams: 4, Timestamp: end},
			{Num_cells: 40, Num_beams: 4, Timestamp: start},
			{Num_cells: 40, Num_beams: 4}, // no variable leader; zero time
		},
	}

	fi.SummaryInfo()

	summary := fi.Metadata.Summary
	require.Equal(start, summary.Start_datetime)
	require.Equal(end, summary.End_datetime)
	require.Equal(uint64(3), summary.Ensemble_count)
	require.Equal(uint64(3*40*4), summary.Measurement_count)

	// ninety minutes apart on the julian day axis
	require.Greater(summary.Start_julian_day, float64(2_450_000))
	require.InDelta(0.0625, summary.End_julian_day-summary.Start_julian_day, 1e-8)
}

func TestSummaryInfoEmpty(t *testing.T) {
	require := require.New(t)

	fi := FileInfo{}
	fi.SummaryInfo()

	summary := fi.Metadata.Summary
	require.Equal(uint64(0), summary.Ensemble_count)
	require.True(summary.Start_datetime.IsZero())
	require.Equal(float64(0), summary.Start_julian_day)
}

func TestLookupBathy(t *testing.T) {
	require := require.New(t)

	raster, err := LookupBathy("Kolumbo")
	require.NoError(err)
	require.Equal("Kolumbo Volcano, Greece", raster.Name)
	require.Equal([]int{700, 1501, 700, 1300}, raster.Crop)
	require.True(raster.Latlon_format)

	_, err = LookupBathy("Atlantis")
	require.ErrorIs(err, ErrUnknownBathy)
}
