package pd0

// Header contains the fixed six byte prefix of a PD0 ensemble along with
// the address offset table. Each address points at the start of a data
// type record within the same ensemble buffer, and Num_bytes gives the
// byte offset of the two byte checksum trailer.
type Header struct {
	Id              uint8
	Data_source     uint8
	Num_bytes       uint16
	Spare           uint8
	Num_data_types  uint8
	Address_offsets []uint16
}

// DecodeHeader acts as the constructor for Header by decoding the fixed
// prefix at the front of the ensemble buffer.
// The header size is: 6 + [2 * num_data_types] bytes.
func DecodeHeader(buffer []byte) (header Header, err error) {
	header.Id, err = u8At(buffer, 0)
	if err != nil {
		return header, err
	}
	header.Data_source, err = u8At(buffer, 1)
	if err != nil {
		return header, err
	}

	// check that the header has the correct ID before reading any further
	if header.Id != HEADER_ID || header.Data_source != HEADER_ID {
		return header, &InvalidHeaderError{Id: header.Id, Data_source: header.Data_source}
	}

	header.Num_bytes, err = u16At(buffer, 2)
	if err != nil {
		return header, err
	}
	header.Spare, err = u8At(buffer, 4)
	if err != nil {
		return header, err
	}
	header.Num_data_types, err = u8At(buffer, 5)
	if err != nil {
		return header, err
	}

	// the address offset for each data type record
	header.Address_offsets = make([]uint16, 0, header.Num_data_types)
	for i := 0; i < int(header.Num_data_types); i++ {
		address, err := u16At(buffer, HEADER_SIZE+i*ADDRESS_SIZE)
		if err != nil {
			return header, err
		}
		header.Address_offsets = append(header.Address_offsets, address)
	}

	return header, nil
}
