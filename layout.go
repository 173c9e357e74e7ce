package pd0

import (
	"errors"
	"reflect"

	stgpsr "github.com/yuin/stagparser"
)

var ErrLayoutTag = errors.New("Error Malformed pd0 Layout Tag")

// The Pathfinder manual presents each record as a table of
// (field, type, offset) rows. Rather than unrolling every read by hand,
// each record struct carries that table in its field tags, e.g.
//
//	Num_beams uint8 `pd0:"offset=8,dtype=uint8"`
//
// and unpackLayout interprets the table at decode time. Offsets are
// relative to the start of the record within the ensemble buffer.
// Fields without a pd0 tag are ignored.
func unpackLayout(buffer []byte, base int, record any) error {
	var (
		field_defs map[string]stgpsr.Definition
		def        stgpsr.Definition
		status     bool
	)

	defs, err := stgpsr.ParseStruct(record, "pd0")
	if err != nil {
		return errors.Join(ErrLayoutTag, err)
	}

	values := reflect.ValueOf(record).Elem()
	types := values.Type()

	// process every field in the struct
	for i := 0; i < values.NumField(); i++ {
		name := types.Field(i).Name

		layout, found := defs[name]
		if !found || len(layout) == 0 {
			continue
		}

		// a mapping just seemed easier to pull required defs
		// rather than a simple listing
		field_defs = make(map[string]stgpsr.Definition)
		for _, v := range layout {
			field_defs[v.Name()] = v
		}

		def, status = field_defs["offset"]
		if !status {
			return errors.Join(ErrLayoutTag, errors.New("offset tag not found: "+name))
		}
		off, ok := def.Attribute("offset")
		if !ok {
			return errors.Join(ErrLayoutTag, errors.New("offset value not found: "+name))
		}
		offset := base + int(off.(int64))

		def, status = field_defs["dtype"]
		if !status {
			return errors.Join(ErrLayoutTag, errors.New("dtype tag not found: "+name))
		}
		dtype, _ := def.Attribute("dtype")

		field := values.Field(i)

		switch dtype {
		case "uint8":
			value, err := u8At(buffer, offset)
			if err != nil {
				return err
			}
			field.SetUint(uint64(value))
		case "uint16":
			value, err := u16At(buffer, offset)
			if err != nil {
				return err
			}
			field.SetUint(uint64(value))
		case "int16":
			value, err := i16At(buffer, offset)
			if err != nil {
				return err
			}
			field.SetInt(int64(value))
		case "uint32":
			value, err := u32At(buffer, offset)
			if err != nil {
				return err
			}
			field.SetUint(uint64(value))
		default:
			return errors.Join(ErrLayoutTag, errors.New("unsupported dtype: "+name))
		}
	}

	return nil
}
