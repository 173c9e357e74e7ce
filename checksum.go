package pd0

// ValidateChecksum computes the modulo-65536 sum of the unsigned bytes
// in buffer[0:num_bytes] and compares it against the little endian
// uint16 trailer stored at offset num_bytes.
func ValidateChecksum(buffer []byte, num_bytes uint16) error {
	offset := int(num_bytes)
	if offset > len(buffer) {
		return &TruncatedError{Offset: 0, Width: offset}
	}

	var calc uint32
	for _, b := range buffer[:offset] {
		calc += uint32(b)
	}
	computed := uint16(calc & 0xFFFF)

	expected, err := u16At(buffer, offset)
	if err != nil {
		return err
	}

	if computed != expected {
		return &ChecksumError{Computed: computed, Expected: expected}
	}

	return nil
}
