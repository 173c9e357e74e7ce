package pd0

import (
	"log"
	"time"
)

// DiagnosticSink receives the non fatal warnings raised while decoding
// an ensemble. Unknown data type IDs are reported here and skipped;
// the decode itself carries on.
type DiagnosticSink interface {
	UnknownTypeId(id TypeID, offset uint16)
}

// LogSink is the default DiagnosticSink; warnings are written to the
// standard logger.
type LogSink struct{}

func (LogSink) UnknownTypeId(id TypeID, offset uint16) {
	log.Printf("Warning: no decoder found for data type %#04x at offset %d", uint16(id), offset)
}

// Ensemble contains one fully decoded PD0 ensemble. The record pointers
// are nil for any data type not listed in the headers address offset
// table. Timestamp is composed from the variable leaders real time
// clock and is the zero time when no variable leader is present.
type Ensemble struct {
	Header          Header
	Fixed_leader    *FixedLeader
	Variable_leader *VariableLeader
	Velocity        *Velocity
	Correlation     *Profiling
	Echo_intensity  *Profiling
	Percent_good    *Profiling
	Bottom_track    *BottomTrack
	Timestamp       time.Time
}

// DecodeEnsemble acts as the constructor for Ensemble by decoding a
// single self delimited PD0 ensemble buffer; header through checksum
// trailer inclusive.
//
// Pseudocode for decoding a pd0 ensemble:
// 1. decode the header and validate the 7F7F id pair
// 2. validate the checksum to confirm a valid ensemble
// 3. resolve the fixed leader (the profiling records depend on its cell
//    and beam counts, wherever the address table happens to place it)
// 4. walk the address offset table in order, dispatching each data
//    type id to its decoder
//
// Unknown data type ids are reported to the sink and skipped. A nil
// sink falls back to LogSink. All other failures abort the decode; no
// partial ensemble is returned.
func DecodeEnsemble(buffer []byte, sink DiagnosticSink) (ensemble Ensemble, err error) {
	if sink == nil {
		sink = LogSink{}
	}

	ensemble.Header, err = DecodeHeader(buffer)
	if err != nil {
		return Ensemble{}, err
	}

	err = ValidateChecksum(buffer, ensemble.Header.Num_bytes)
	if err != nil {
		return Ensemble{}, err
	}

	// first pass; peek every type id and resolve the fixed leader.
	// each address must land strictly inside the checksummed region.
	ids := make([]TypeID, len(ensemble.Header.Address_offsets))
	for i, address := range ensemble.Header.Address_offsets {
		offset := int(address)
		if offset+TYPE_ID_SIZE > int(ensemble.Header.Num_bytes) {
			return Ensemble{}, &TruncatedError{Offset: offset, Width: TYPE_ID_SIZE}
		}

		id, err := u16At(buffer, offset)
		if err != nil {
			return Ensemble{}, err
		}
		ids[i] = TypeID(id)

		if ids[i] == FIXED_LEADER && ensemble.Fixed_leader == nil {
			fixed, err := DecodeFixedLeader(buffer, offset)
			if err != nil {
				return Ensemble{}, err
			}
			ensemble.Fixed_leader = &fixed
		}
	}

	// second pass; decode every record in address table order
	for i, address := range ensemble.Header.Address_offsets {
		offset := int(address)

		switch ids[i] {
		case FIXED_LEADER:
			// already resolved during the first pass
		case VARIABLE_LEADER:
			variable, err := DecodeVariableLeader(buffer, offset)
			if err != nil {
				return Ensemble{}, err
			}
			ensemble.Variable_leader = &variable

			ensemble.Timestamp, err = variable.Timestamp()
			if err != nil {
				return Ensemble{}, err
			}
		case VELOCITY:
			if ensemble.Fixed_leader == nil {
				return Ensemble{}, &MissingDependencyError{Id: ids[i], Offset: address}
			}
			velocity, err := DecodeVelocity(buffer, offset, ensemble.Fixed_leader)
			if err != nil {
				return Ensemble{}, err
			}
			ensemble.Velocity = &velocity
		case CORRELATION, ECHO_INTENSITY, PERCENT_GOOD:
			if ensemble.Fixed_leader == nil {
				return Ensemble{}, &MissingDependencyError{Id: ids[i], Offset: address}
			}
			profiling, err := DecodeProfiling(buffer, offset, ensemble.Fixed_leader)
			if err != nil {
				return Ensemble{}, err
			}

			switch ids[i] {
			case CORRELATION:
				ensemble.Correlation = &profiling
			case ECHO_INTENSITY:
				ensemble.Echo_intensity = &profiling
			case PERCENT_GOOD:
				ensemble.Percent_good = &profiling
			}
		case BOTTOM_TRACK:
			bottom, err := DecodeBottomTrack(buffer, offset)
			if err != nil {
				return Ensemble{}, err
			}
			ensemble.Bottom_track = &bottom
		default:
			sink.UnknownTypeId(ids[i], address)
		}
	}

	return ensemble, nil
}
