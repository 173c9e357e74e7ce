package pd0

// Velocity contains the water profiling velocity record.
// Data[i][j] is the signed velocity sample at the i-th depth cell for
// the j-th beam. A value of NULL_VELOCITY indicates the instrument
// found no valid solution for that cell.
type Velocity struct {
	Id   uint16
	Data [][]int16
}

// Profiling contains one of the single byte water profiling records;
// correlation magnitude, echo intensity or percent good.
// Data[i][j] is the sample at the i-th depth cell for the j-th beam.
type Profiling struct {
	Id   uint16
	Data [][]uint8
}

// The profiling records lay their samples out cell major then beam
// minor; sample (cell, beam) lives at
// offset + (cell*num_beams + beam) * sample_size.

// decodeVelocityGrid reads a num_cells x num_beams grid of signed two
// byte samples starting at the given offset.
func decodeVelocityGrid(buffer []byte, offset int, num_cells, num_beams uint8) ([][]int16, error) {
	data := make([][]int16, 0, num_cells)

	for cell := 0; cell < int(num_cells); cell++ {
		cell_start := offset + cell*int(num_beams)*2
		cell_data := make([]int16, 0, num_beams)

		for beam := 0; beam < int(num_beams); beam++ {
			sample, err := i16At(buffer, cell_start+beam*2)
			if err != nil {
				return nil, err
			}
			cell_data = append(cell_data, sample)
		}
		data = append(data, cell_data)
	}

	return data, nil
}

// decodeProfilingGrid reads a num_cells x num_beams grid of single byte
// samples starting at the given offset.
func decodeProfilingGrid(buffer []byte, offset int, num_cells, num_beams uint8) ([][]uint8, error) {
	data := make([][]uint8, 0, num_cells)

	for cell := 0; cell < int(num_cells); cell++ {
		cell_start := offset + cell*int(num_beams)

		cell_data := make([]uint8, 0, num_beams)
		for beam := 0; beam < int(num_beams); beam++ {
			sample, err := u8At(buffer, cell_start+beam)
			if err != nil {
				return nil, err
			}
			cell_data = append(cell_data, sample)
		}
		data = append(data, cell_data)
	}

	return data, nil
}

// DecodeVelocity acts as the constructor for Velocity by decoding the
// VELOCITY record starting at the given offset. The grid dimensions are
// supplied by the ensembles fixed leader.
func DecodeVelocity(buffer []byte, offset int, fixed *FixedLeader) (velocity Velocity, err error) {
	velocity.Id, err = u16At(buffer, offset)
	if err != nil {
		return velocity, err
	}

	velocity.Data, err = decodeVelocityGrid(
		buffer,
		offset+TYPE_ID_SIZE,
		fixed.Num_cells,
		fixed.Num_beams,
	)

	return velocity, err
}

// DecodeProfiling acts as the constructor for Profiling by decoding a
// CORRELATION, ECHO_INTENSITY or PERCENT_GOOD record starting at the
// given offset. The grid dimensions are supplied by the ensembles fixed
// leader.
func DecodeProfiling(buffer []byte, offset int, fixed *FixedLeader) (profiling Profiling, err error) {
	profiling.Id, err = u16At(buffer, offset)
	if err != nil {
		return profiling, err
	}

	profiling.Data, err = decodeProfilingGrid(
		buffer,
		offset+TYPE_ID_SIZE,
		fixed.Num_cells,
		fixed.Num_beams,
	)

	return profiling, err
}
