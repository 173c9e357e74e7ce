package pd0

import (
	"github.com/samber/lo"
)

// TypeID identifies the kind of data type record contained within a PD0
// ensemble. Each record within the ensemble body starts with a little
// endian uint16 holding one of these identifiers.
type TypeID uint16

// Data type record IDs for the Pathfinder class of DVL.
const (
	FIXED_LEADER    TypeID = 0x0000
	VARIABLE_LEADER TypeID = 0x0080
	VELOCITY        TypeID = 0x0100
	CORRELATION     TypeID = 0x0200
	ECHO_INTENSITY  TypeID = 0x0300
	PERCENT_GOOD    TypeID = 0x0400
	BOTTOM_TRACK    TypeID = 0x0600
)

// Header and framing constants.
const (
	HEADER_ID     uint8 = 0x7F
	HEADER_SIZE   int   = 6
	ADDRESS_SIZE  int   = 2
	CHECKSUM_SIZE int   = 2
	TYPE_ID_SIZE  int   = 2
)

// Record sizes in bytes as defined by the Pathfinder manual.
const (
	FIXED_LEADER_SIZE    int = 58
	VARIABLE_LEADER_SIZE int = 77
	BOTTOM_TRACK_SIZE    int = 81
)

// The RTC year within the variable leader is the year within the century.
const RTC_MILLENNIUM int = 2000

// float32 and float64 scale factors applied when converting the raw
// scaled integers into engineering units.
// in general I think they're a bit more readable than 1.0e2
const (
	SCALE_2_F32 float32 = 100.0
	SCALE_2_F64 float64 = 100.0
	SCALE_3_F32 float32 = 1_000.0
	SCALE_3_F64 float64 = 1_000.0
)

// Null values for missing data.
// The instrument reports a velocity of -32768 (0x8000) when a cell has
// no valid solution.
const (
	NULL_VELOCITY int16 = -32768
)

// Data type labels. Used for defining the output schema as well as
// the section keys within serialised metadata.
var TypeNames = map[TypeID]string{
	FIXED_LEADER:    "FIXED_LEADER", // 0x0000
	VARIABLE_LEADER: "VARIABLE_LEADER",
	VELOCITY:        "VELOCITY",
	CORRELATION:     "CORRELATION",
	ECHO_INTENSITY:  "ECHO_INTENSITY",
	PERCENT_GOOD:    "PERCENT_GOOD",
	BOTTOM_TRACK:    "BOTTOM_TRACK", // 0x0600
}

var InvTypeNames = lo.Invert(TypeNames)
