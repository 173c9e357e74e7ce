package pd0

// FixedLeader contains the instrument configuration snapshot for the
// ensemble. The configuration is fixed for the life of a deployment.
// Num_beams and Num_cells size the beam grids within the velocity,
// correlation, echo intensity and percent good records.
// The layout is defined in the Pathfinder manual; bit packed words such
// as System_configuration and Coordinate_transformation are surfaced in
// their raw integer form.
type FixedLeader struct {
	Id                        uint16 `pd0:"offset=0,dtype=uint16"`
	Cpu_firmware_version      uint8  `pd0:"offset=2,dtype=uint8"`
	Cpu_firmware_revision     uint8  `pd0:"offset=3,dtype=uint8"`
	System_configuration      uint16 `pd0:"offset=4,dtype=uint16"`
	Simulation_flag           uint8  `pd0:"offset=6,dtype=uint8"`
	Lag_length                uint8  `pd0:"offset=7,dtype=uint8"`
	Num_beams                 uint8  `pd0:"offset=8,dtype=uint8"`
	Num_cells                 uint8  `pd0:"offset=9,dtype=uint8"`
	Pings_per_ensemble        uint16 `pd0:"offset=10,dtype=uint16"`
	Depth_cell_length         uint16 `pd0:"offset=12,dtype=uint16"`
	Blank_after_transmit      uint16 `pd0:"offset=14,dtype=uint16"`
	Profiling_mode            uint8  `pd0:"offset=16,dtype=uint8"`
	Low_correlation_threshold uint8  `pd0:"offset=17,dtype=uint8"`
	Num_code_repetitions      uint8  `pd0:"offset=18,dtype=uint8"`
	Percent_good_minimum      uint8  `pd0:"offset=19,dtype=uint8"`
	Error_velocity_threshold  uint16 `pd0:"offset=20,dtype=uint16"`
	Minutes                   uint8  `pd0:"offset=22,dtype=uint8"`
	Seconds                   uint8  `pd0:"offset=23,dtype=uint8"`
	Hundredths                uint8  `pd0:"offset=24,dtype=uint8"`
	Coordinate_transformation uint8  `pd0:"offset=25,dtype=uint8"`
	Heading_alignment         uint16 `pd0:"offset=26,dtype=uint16"`
	Heading_bias              uint16 `pd0:"offset=28,dtype=uint16"`
	Sensor_source             uint8  `pd0:"offset=30,dtype=uint8"`
	Sensor_available          uint8  `pd0:"offset=31,dtype=uint8"`
	Bin_1_distance            uint16 `pd0:"offset=32,dtype=uint16"`
	Transmit_pulse_length     uint16 `pd0:"offset=34,dtype=uint16"`
	Starting_depth_cell       uint8  `pd0:"offset=36,dtype=uint8"`
	Ending_depth_cell         uint8  `pd0:"offset=37,dtype=uint8"`
	False_target_threshold    uint8  `pd0:"offset=38,dtype=uint8"`
	Transmit_lag_distance     uint16 `pd0:"offset=40,dtype=uint16"`
	System_bandwidth          uint16 `pd0:"offset=50,dtype=uint16"`
	System_serial_number      uint32 `pd0:"offset=54,dtype=uint32"`
}

// DecodeFixedLeader acts as the constructor for FixedLeader by decoding
// the FIXED_LEADER record starting at the given offset within the
// ensemble buffer.
func DecodeFixedLeader(buffer []byte, offset int) (fixed FixedLeader, err error) {
	err = unpackLayout(buffer, offset, &fixed)

	return fixed, err
}
