package pd0

// BottomTrack contains the bottom tracking solution; per beam range to
// the seafloor, velocity, correlation, evaluation amplitude and percent
// good, along with the reference layer envelope and RSSI readings.
// The Beam*_most_significant_byte fields widen the corresponding beam
// range to 24 bits; see Ranges for the composed values.
type BottomTrack struct {
	Id                             uint16 `pd0:"offset=0,dtype=uint16"`
	Pings_per_ensemble             uint16 `pd0:"offset=2,dtype=uint16"`
	Min_correlation_mag            uint8  `pd0:"offset=6,dtype=uint8"`
	Min_evaluation_amp             uint8  `pd0:"offset=7,dtype=uint8"`
	Bottom_track_mode              uint8  `pd0:"offset=9,dtype=uint8"`
	Max_error_velocity             uint16 `pd0:"offset=10,dtype=uint16"`
	Beam1_range                    uint16 `pd0:"offset=16,dtype=uint16"`
	Beam2_range                    uint16 `pd0:"offset=18,dtype=uint16"`
	Beam3_range                    uint16 `pd0:"offset=20,dtype=uint16"`
	Beam4_range                    uint16 `pd0:"offset=22,dtype=uint16"`
	Beam1_velocity                 uint16 `pd0:"offset=24,dtype=uint16"`
	Beam2_velocity                 uint16 `pd0:"offset=26,dtype=uint16"`
	Beam3_velocity                 uint16 `pd0:"offset=28,dtype=uint16"`
	Beam4_velocity                 uint16 `pd0:"offset=30,dtype=uint16"`
	Beam1_correlation              uint8  `pd0:"offset=32,dtype=uint8"`
	Beam2_correlation              uint8  `pd0:"offset=33,dtype=uint8"`
	Beam3_correlation              uint8  `pd0:"offset=34,dtype=uint8"`
	Beam4_correlation              uint8  `pd0:"offset=35,dtype=uint8"`
	Beam1_evaluation_amp           uint8  `pd0:"offset=36,dtype=uint8"`
	Beam2_evaluation_amp           uint8  `pd0:"offset=37,dtype=uint8"`
	Beam3_evaluation_amp           uint8  `pd0:"offset=38,dtype=uint8"`
	Beam4_evaluation_amp           uint8  `pd0:"offset=39,dtype=uint8"`
	Beam1_percent_good             uint8  `pd0:"offset=40,dtype=uint8"`
	Beam2_percent_good             uint8  `pd0:"offset=41,dtype=uint8"`
	Beam3_percent_good             uint8  `pd0:"offset=42,dtype=uint8"`
	Beam4_percent_good             uint8  `pd0:"offset=43,dtype=uint8"`
	Ref_layer_min                  uint16 `pd0:"offset=44,dtype=uint16"`
	Ref_layer_near                 uint16 `pd0:"offset=46,dtype=uint16"`
	Ref_layer_far                  uint16 `pd0:"offset=48,dtype=uint16"`
	Beam1_ref_layer_velocity       uint16 `pd0:"offset=50,dtype=uint16"`
	Beam2_ref_layer_velocity       uint16 `pd0:"offset=52,dtype=uint16"`
	Beam3_ref_layer_velocity       uint16 `pd0:"offset=54,dtype=uint16"`
	Beam4_ref_layer_velocity       uint16 `pd0:"offset=56,dtype=uint16"`
	Beam1_ref_layer_correlation    uint8  `pd0:"offset=58,dtype=uint8"`
	Beam2_ref_layer_correlation    uint8  `pd0:"offset=59,dtype=uint8"`
	Beam3_ref_layer_correlation    uint8  `pd0:"offset=60,dtype=uint8"`
	Beam4_ref_layer_correlation    uint8  `pd0:"offset=61,dtype=uint8"`
	Beam1_ref_layer_echo_intensity uint8  `pd0:"offset=62,dtype=uint8"`
	Beam2_ref_layer_echo_intensity uint8  `pd0:"offset=63,dtype=uint8"`
	Beam3_ref_layer_echo_intensity uint8  `pd0:"offset=64,dtype=uint8"`
	Beam4_ref_layer_echo_intensity uint8  `pd0:"offset=65,dtype=uint8"`
	Beam1_ref_layer_percent_good   uint8  `pd0:"offset=66,dtype=uint8"`
	Beam2_ref_layer_percent_good   uint8  `pd0:"offset=67,dtype=uint8"`
	Beam3_ref_layer_percent_good   uint8  `pd0:"offset=68,dtype=uint8"`
	Beam4_ref_layer_percent_good   uint8  `pd0:"offset=69,dtype=uint8"`
	Max_tracking_depth             uint16 `pd0:"offset=70,dtype=uint16"`
	Beam1_rssi                     uint8  `pd0:"offset=72,dtype=uint8"`
	Beam2_rssi                     uint8  `pd0:"offset=73,dtype=uint8"`
	Beam3_rssi                     uint8  `pd0:"offset=74,dtype=uint8"`
	Beam4_rssi                     uint8  `pd0:"offset=75,dtype=uint8"`
	Shallow_water_gain             uint8  `pd0:"offset=76,dtype=uint8"`
	Beam1_most_significant_byte    uint8  `pd0:"offset=77,dtype=uint8"`
	Beam2_most_significant_byte    uint8  `pd0:"offset=78,dtype=uint8"`
	Beam3_most_significant_byte    uint8  `pd0:"offset=79,dtype=uint8"`
	Beam4_most_significant_byte    uint8  `pd0:"offset=80,dtype=uint8"`
}

// DecodeBottomTrack acts as the constructor for BottomTrack by decoding
// the BOTTOM_TRACK record starting at the given offset within the
// ensemble buffer.
func DecodeBottomTrack(buffer []byte, offset int) (bottom BottomTrack, err error) {
	err = unpackLayout(buffer, offset, &bottom)

	return bottom, err
}

// Ranges composes the 24 bit range to the seafloor for each beam by
// concatenating the most significant byte extension onto the 16 bit
// range field. Both raw halves remain available on the struct.
func (bt *BottomTrack) Ranges() [4]uint32 {
	return [4]uint32{
		uint32(bt.Beam1_most_significant_byte)<<16 | uint32(bt.Beam1_range),
		uint32(bt.Beam2_most_significant_byte)<<16 | uint32(bt.Beam2_range),
		uint32(bt.Beam3_most_significant_byte)<<16 | uint32(bt.Beam3_range),
		uint32(bt.Beam4_most_significant_byte)<<16 | uint32(bt.Beam4_range),
	}
}
