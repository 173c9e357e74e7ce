package pd0

import (
	"time"
)

// VariableLeader contains the per ping dynamic state of the instrument:
// ensemble counter, real time clock, attitude, and environmental
// readings. Heading is a scaled unsigned 16 bit integer; Pitch and Roll
// are scaled signed 16 bit integers as per the instrument specification
// (the raw unsigned view remains recoverable as uint16(v)).
type VariableLeader struct {
	Id                         uint16 `pd0:"offset=0,dtype=uint16"`
	Ensemble_number            uint16 `pd0:"offset=2,dtype=uint16"`
	Rtc_year                   uint8  `pd0:"offset=4,dtype=uint8"`
	Rtc_month                  uint8  `pd0:"offset=5,dtype=uint8"`
	Rtc_day                    uint8  `pd0:"offset=6,dtype=uint8"`
	Rtc_hour                   uint8  `pd0:"offset=7,dtype=uint8"`
	Rtc_minute                 uint8  `pd0:"offset=8,dtype=uint8"`
	Rtc_second                 uint8  `pd0:"offset=9,dtype=uint8"`
	Rtc_hundredths             uint8  `pd0:"offset=10,dtype=uint8"`
	Ensemble_roll_over         uint8  `pd0:"offset=11,dtype=uint8"`
	Bit_result                 uint16 `pd0:"offset=12,dtype=uint16"`
	Speed_of_sound             uint16 `pd0:"offset=14,dtype=uint16"`
	Depth_of_transducer        uint16 `pd0:"offset=16,dtype=uint16"`
	Heading                    uint16 `pd0:"offset=18,dtype=uint16"`
	Pitch                      int16  `pd0:"offset=20,dtype=int16"`
	Roll                       int16  `pd0:"offset=22,dtype=int16"`
	Salinity                   uint16 `pd0:"offset=24,dtype=uint16"`
	Temperature                uint16 `pd0:"offset=26,dtype=uint16"`
	Min_ping_wait_minutes      uint8  `pd0:"offset=28,dtype=uint8"`
	Min_ping_wait_seconds      uint8  `pd0:"offset=29,dtype=uint8"`
	Min_ping_wait_hundredths   uint8  `pd0:"offset=30,dtype=uint8"`
	Heading_standard_deviation uint8  `pd0:"offset=31,dtype=uint8"`
	Pitch_standard_deviation   uint8  `pd0:"offset=32,dtype=uint8"`
	Roll_standard_deviation    uint8  `pd0:"offset=33,dtype=uint8"`
	Adc_rounded_voltage        uint8  `pd0:"offset=35,dtype=uint8"`
	Pressure                   uint32 `pd0:"offset=48,dtype=uint32"`
	Pressure_variance          uint32 `pd0:"offset=52,dtype=uint32"`
	Spare                      uint32 `pd0:"offset=56,dtype=uint32"`
}

// DecodeVariableLeader acts as the constructor for VariableLeader by
// decoding the VARIABLE_LEADER record starting at the given offset
// within the ensemble buffer.
func DecodeVariableLeader(buffer []byte, offset int) (variable VariableLeader, err error) {
	err = unpackLayout(buffer, offset, &variable)

	return variable, err
}

// Timestamp composes the seven RTC components into a single UTC instant.
// The year stored by the instrument is the year within the century, and
// the sub second component is in units of hundredths (10ms).
// time.Date normalises out of range components rather than rejecting
// them, so the composition is checked against the raw components to
// catch corrupt clocks.
func (v *VariableLeader) Timestamp() (time.Time, error) {
	year := RTC_MILLENNIUM + int(v.Rtc_year)
	nanoseconds := int(v.Rtc_hundredths) * 10_000_000

	timestamp := time.Date(
		year,
		time.Month(v.Rtc_month),
		int(v.Rtc_day),
		int(v.Rtc_hour),
		int(v.Rtc_minute),
		int(v.Rtc_second),
		nanoseconds,
		time.UTC,
	)

	malformed := timestamp.Year() != year ||
		timestamp.Month() != time.Month(v.Rtc_month) ||
		timestamp.Day() != int(v.Rtc_day) ||
		timestamp.Hour() != int(v.Rtc_hour) ||
		timestamp.Minute() != int(v.Rtc_minute) ||
		timestamp.Second() != int(v.Rtc_second)

	if malformed {
		err := &MalformedTimestampError{
			Year:       year,
			Month:      v.Rtc_month,
			Day:        v.Rtc_day,
			Hour:       v.Rtc_hour,
			Minute:     v.Rtc_minute,
			Second:     v.Rtc_second,
			Hundredths: v.Rtc_hundredths,
		}
		return time.Time{}, err
	}

	return timestamp, nil
}
