package pd0

import (
	"time"

	"github.com/samber/lo"
)

// QualityInfo reports generic consistency checks over the ensembles of
// a single PD0 file.
type QualityInfo struct {
	Min_Max_Cells       []uint8
	Min_Max_Beams       []uint8
	Consistent_Cells    bool
	Consistent_Beams    bool
	Duplicate_Ensembles bool
	Duplicates          []time.Time
}

// QInfo computes the quality information for the file.
// The cell count is a user setting and the beam count fixed hardware,
// so both should be constant across a deployment; a change mid file
// usually indicates a reconfiguration or a corrupt fixed leader.
// Duplicate RTC timestamps have been observed when a deck box replays
// buffered ensembles after a dropout.
func (fi *FileInfo) QInfo() {
	var (
		qa QualityInfo
	)

	nensembles := len(fi.Ensemble_Info)
	ncells := make([]uint8, nensembles)
	nbeams := make([]uint8, nensembles)
	timestamps := make([]time.Time, nensembles)

	for i, info := range fi.Ensemble_Info {
		ncells[i] = info.Num_cells
		nbeams[i] = info.Num_beams
		timestamps[i] = info.Timestamp
	}

	// domain for the cell and beam counts
	if nensembles > 0 {
		max_cells := lo.Max(ncells)
		min_cells := lo.Min(ncells)
		max_beams := lo.Max(nbeams)
		min_beams := lo.Min(nbeams)

		qa.Min_Max_Cells = []uint8{min_cells, max_cells}
		qa.Min_Max_Beams = []uint8{min_beams, max_beams}
		qa.Consistent_Cells = min_cells == max_cells
		qa.Consistent_Beams = min_beams == max_beams
	}

	duplicates := lo.FindDuplicates(timestamps)
	qa.Duplicate_Ensembles = len(duplicates) > 0
	if qa.Duplicate_Ensembles {
		qa.Duplicates = duplicates
	} else {
		qa.Duplicates = make([]time.Time, 0)
	}

	fi.Metadata.Quality_Info = qa
}
