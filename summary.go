package pd0

import (
	"time"

	"github.com/soniakeys/meeus/v3/julian"
)

// DeploymentSummary contains the time envelope and observation counts
// for a PD0 file.
// The start and end are taken from the composed RTC timestamps, so
// ensembles lacking a variable leader do not contribute.
// Julian days are included as they remain the working time axis for a
// lot of downstream navigation processing.
type DeploymentSummary struct {
	Start_datetime    time.Time
	End_datetime      time.Time
	Start_julian_day  float64
	End_julian_day    float64
	Ensemble_count    uint64
	Measurement_count uint64
}

// SummaryInfo computes the deployment summary for the file.
// The measurement count is the total number of beam grid samples;
// cells x beams summed over every ensemble.
func (fi *FileInfo) SummaryInfo() {
	var (
		summary DeploymentSummary
		start   time.Time
		end     time.Time
	)

	for _, info := range fi.Ensemble_Info {
		summary.Measurement_count += uint64(info.Num_cells) * uint64(info.Num_beams)

		if info.Timestamp.IsZero() {
			continue
		}
		if start.IsZero() || info.Timestamp.Before(start) {
			start = info.Timestamp
		}
		if end.IsZero() || info.Timestamp.After(end) {
			end = info.Timestamp
		}
	}

	summary.Ensemble_count = uint64(len(fi.Ensemble_Info))
	summary.Start_datetime = start
	summary.End_datetime = end

	if !start.IsZero() {
		summary.Start_julian_day = julian.TimeToJD(start)
		summary.End_julian_day = julian.TimeToJD(end)
	}

	fi.Metadata.Summary = summary
}
