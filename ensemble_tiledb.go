package pd0

import (
	"errors"
	"math"
	"reflect"
	"time"

	tiledb "github.com/TileDB-Inc/TileDB-Go"
	"github.com/samber/lo"
	stgpsr "github.com/yuin/stagparser"
)

var ErrCreateEnsTdb = errors.New("Error Creating Ensemble TileDB Array")
var ErrWriteEnsTdb = errors.New("Error Writing Ensemble TileDB Array")
var ErrCreateBeamTdb = errors.New("Error Creating Beam Data TileDB Array")
var ErrWriteBeamTdb = errors.New("Error Writing Beam Data TileDB Array")
var ErrCreateBtTdb = errors.New("Error Creating Bottom Track TileDB Array")
var ErrWriteBtTdb = errors.New("Error Writing Bottom Track TileDB Array")

// schemaAttrs establishes the tiledb attributes for a struct of slices
// data block. The per field configuration is pulled from the tiledb and
// filters struct tags.
func schemaAttrs(block any, schema *tiledb.ArraySchema, ctx *tiledb.Context) error {
	var (
		field_tdb_defs map[string]stgpsr.Definition
		def            stgpsr.Definition
		status         bool
	)
	values := reflect.ValueOf(block).Elem()
	types := values.Type()
	filt_defs, _ := stgpsr.ParseStruct(block, "filters")
	tdb_defs, _ := stgpsr.ParseStruct(block, "tiledb")

	// process every field in the struct
	for i := 0; i < values.NumField(); i++ {
		name := types.Field(i).Name

		field_filt_defs := filt_defs[name]

		// a mapping just seemed easier to pull required defs
		// rather than a simple listing
		field_tdb_defs = make(map[string]stgpsr.Definition)
		for _, v := range tdb_defs[name] {
			field_tdb_defs[v.Name()] = v
		}

		// pull the field type and ignore dimension fields
		def, status = field_tdb_defs["ftype"]
		if !status {
			return errors.Join(ErrCreateEnsTdb, errors.New("ftype tag not found"))
		}
		ftype, _ := def.Attribute("ftype")
		if ftype == "dim" {
			// ignore dimensions
			continue
		}

		err := CreateAttr(name, field_filt_defs, field_tdb_defs, schema, ctx)
		if err != nil {
			return errors.Join(ErrCreateEnsTdb, err)
		}
	}

	return nil
}

// denseRowArray establishes a dense array on disk/object store with a
// single __tiledb_rows dimension and the attributes defined by the
// blocks struct tags.
// Using a combination of delta filter (ascending rows) and zstandard
// on the dimension.
func denseRowArray(block any, file_uri string, ctx *tiledb.Context, nrows uint64) error {
	// an arbitrary choice; maybe at a future date we evaluate a good number
	tile_sz := uint64(math.Min(float64(50000), float64(nrows)))

	// array domain
	domain, err := tiledb.NewDomain(ctx)
	if err != nil {
		return errors.Join(ErrCreateEnsTdb, err)
	}
	defer domain.Free()

	dim, err := tiledb.NewDimension(ctx, "__tiledb_rows", tiledb.TILEDB_UINT64, []uint64{0, nrows - uint64(1)}, tile_sz)
	if err != nil {
		return errors.Join(ErrCreateEnsTdb, err)
	}
	defer dim.Free()

	dim_filters, err := tiledb.NewFilterList(ctx)
	if err != nil {
		return errors.Join(ErrCreateEnsTdb, err)
	}
	defer dim_filters.Free()

	dim_f1, err := tiledb.NewFilter(ctx, tiledb.TILEDB_FILTER_POSITIVE_DELTA)
	if err != nil {
		return errors.Join(ErrCreateEnsTdb, err)
	}
	defer dim_f1.Free()

	level := int32(16)
	dim_f2, err := ZstdFilter(ctx, level)
	if err != nil {
		return errors.Join(ErrCreateEnsTdb, err)
	}
	defer dim_f2.Free()

	// attach filters to the pipeline
	err = AddFilters(dim_filters, dim_f1, dim_f2)
	if err != nil {
		return errors.Join(ErrCreateEnsTdb, err)
	}
	err = dim.SetFilterList(dim_filters)
	if err != nil {
		return errors.Join(ErrCreateEnsTdb, err)
	}

	err = domain.AddDimensions(dim)
	if err != nil {
		return errors.Join(ErrCreateEnsTdb, err)
	}

	// setup schema
	schema, err := tiledb.NewArraySchema(ctx, tiledb.TILEDB_DENSE)
	if err != nil {
		return errors.Join(ErrCreateEnsTdb, err)
	}
	defer schema.Free()

	err = schema.SetDomain(domain)
	if err != nil {
		return errors.Join(ErrCreateEnsTdb, err)
	}

	// cell and tile ordering was an arbitrary choice
	err = schema.SetCellOrder(tiledb.TILEDB_ROW_MAJOR)
	if err != nil {
		return errors.Join(ErrCreateEnsTdb, err)
	}

	err = schema.SetTileOrder(tiledb.TILEDB_ROW_MAJOR)
	if err != nil {
		return errors.Join(ErrCreateEnsTdb, err)
	}

	// add the struct fields as tiledb attributes
	err = schemaAttrs(block, schema, ctx)
	if err != nil {
		return err
	}

	// finally, create the empty array on disk, object store, etc
	array, err := tiledb.NewArray(ctx, file_uri)
	if err != nil {
		return errors.Join(ErrCreateEnsTdb, err)
	}
	defer array.Free()

	err = array.Create(schema)
	if err != nil {
		return errors.Join(ErrCreateEnsTdb, err)
	}

	return nil
}

// writeRowQuery is a helper wrapping the row-major write query over the
// __tiledb_rows dimension.
func writeRowQuery(array *tiledb.Array, ctx *tiledb.Context, nrows uint64, set func(query *tiledb.Query) error) error {
	query, err := tiledb.NewQuery(ctx, array)
	if err != nil {
		return err
	}
	defer query.Free()

	err = query.SetLayout(tiledb.TILEDB_ROW_MAJOR)
	if err != nil {
		return err
	}

	err = set(query)
	if err != nil {
		return err
	}

	// define the subarray (dim coordinates that we'll write into)
	subarr, err := array.NewSubarray()
	if err != nil {
		return err
	}
	defer subarr.Free()

	rng := tiledb.MakeRange(uint64(0), nrows-uint64(1))
	subarr.AddRangeByName("__tiledb_rows", rng)
	err = query.SetSubarray(subarr)
	if err != nil {
		return err
	}

	// write the data flush
	err = query.Submit()
	if err != nil {
		return err
	}

	err = query.Finalize()
	if err != nil {
		return err
	}

	return nil
}

// EnsembleHeaders contains the per ensemble state as a struct of
// slices; one row per ensemble. The raw scaled integers from the
// variable leader are converted into engineering units on append.
type EnsembleHeaders struct {
	Timestamp           []time.Time `tiledb:"dtype=datetime_ns,ftype=attr" filters:"zstd(level=16)"`
	Ensemble_number     []uint16    `tiledb:"dtype=uint16,ftype=attr" filters:"zstd(level=16)"`
	Bit_result          []uint16    `tiledb:"dtype=uint16,ftype=attr" filters:"zstd(level=16)"`
	Speed_of_sound      []uint16    `tiledb:"dtype=uint16,ftype=attr" filters:"zstd(level=16)"`
	Depth_of_transducer []uint16    `tiledb:"dtype=uint16,ftype=attr" filters:"zstd(level=16)"`
	Heading             []float32   `tiledb:"dtype=float32,ftype=attr" filters:"zstd(level=16)"`
	Pitch               []float32   `tiledb:"dtype=float32,ftype=attr" filters:"zstd(level=16)"`
	Roll                []float32   `tiledb:"dtype=float32,ftype=attr" filters:"zstd(level=16)"`
	Salinity            []uint16    `tiledb:"dtype=uint16,ftype=attr" filters:"zstd(level=16)"`
	Temperature         []float32   `tiledb:"dtype=float32,ftype=attr" filters:"zstd(level=16)"`
	Pressure            []uint32    `tiledb:"dtype=uint32,ftype=attr" filters:"zstd(level=16)"`
	Pressure_variance   []uint32    `tiledb:"dtype=uint32,ftype=attr" filters:"zstd(level=16)"`
	Adc_voltage         []uint8     `tiledb:"dtype=uint8,ftype=attr" filters:"zstd(level=16)"`
}

// appendEnsemble appends the variable leader state of a single decoded
// ensemble. Heading, pitch, roll and temperature arrive as hundredths
// of a degree (or degree C) and are scaled on the way through.
func (eh *EnsembleHeaders) appendEnsemble(e *Ensemble) {
	v := e.Variable_leader
	if v == nil {
		return
	}

	eh.Timestamp = append(eh.Timestamp, e.Timestamp)
	eh.Ensemble_number = append(eh.Ensemble_number, v.Ensemble_number)
	eh.Bit_result = append(eh.Bit_result, v.Bit_result)
	eh.Speed_of_sound = append(eh.Speed_of_sound, v.Speed_of_sound)
	eh.Depth_of_transducer = append(eh.Depth_of_transducer, v.Depth_of_transducer)
	eh.Heading = append(eh.Heading, float32(float64(v.Heading)/SCALE_2_F64))
	eh.Pitch = append(eh.Pitch, float32(float64(v.Pitch)/SCALE_2_F64))
	eh.Roll = append(eh.Roll, float32(float64(v.Roll)/SCALE_2_F64))
	eh.Salinity = append(eh.Salinity, v.Salinity)
	eh.Temperature = append(eh.Temperature, float32(float64(v.Temperature)/SCALE_2_F64))
	eh.Pressure = append(eh.Pressure, v.Pressure)
	eh.Pressure_variance = append(eh.Pressure_variance, v.Pressure_variance)
	eh.Adc_voltage = append(eh.Adc_voltage, v.Adc_rounded_voltage)
}

// ToTileDB writes the ensemble header data to a dense TileDB array with
// __tiledb_rows as the queryable dimension.
// Column structure:
// [__tiledb_rows (dim), timestamp (attr), ensemble_number (attr), ...].
func (eh *EnsembleHeaders) ToTileDB(file_uri string, ctx *tiledb.Context) error {
	nrows := uint64(len(eh.Timestamp))
	if nrows == 0 {
		return nil
	}

	err := denseRowArray(eh, file_uri, ctx, nrows)
	if err != nil {
		return errors.Join(ErrCreateEnsTdb, err)
	}

	array, err := ArrayOpenWrite(ctx, file_uri)
	if err != nil {
		return errors.Join(ErrWriteEnsTdb, err)
	}
	defer array.Free()
	defer array.Close()

	err = writeRowQuery(array, ctx, nrows, func(query *tiledb.Query) error {
		// time arrays need an additional conversion for serialisation
		timestamps := make([]int64, nrows)
		for i := uint64(0); i < nrows; i++ {
			timestamps[i] = eh.Timestamp[i].UnixNano()
		}
		if _, err := query.SetDataBuffer("Timestamp", timestamps); err != nil {
			return err
		}
		if _, err := query.SetDataBuffer("Ensemble_number", eh.Ensemble_number); err != nil {
			return err
		}
		if _, err := query.SetDataBuffer("Bit_result", eh.Bit_result); err != nil {
			return err
		}
		if _, err := query.SetDataBuffer("Speed_of_sound", eh.Speed_of_sound); err != nil {
			return err
		}
		if _, err := query.SetDataBuffer("Depth_of_transducer", eh.Depth_of_transducer); err != nil {
			return err
		}
		if _, err := query.SetDataBuffer("Heading", eh.Heading); err != nil {
			return err
		}
		if _, err := query.SetDataBuffer("Pitch", eh.Pitch); err != nil {
			return err
		}
		if _, err := query.SetDataBuffer("Roll", eh.Roll); err != nil {
			return err
		}
		if _, err := query.SetDataBuffer("Salinity", eh.Salinity); err != nil {
			return err
		}
		if _, err := query.SetDataBuffer("Temperature", eh.Temperature); err != nil {
			return err
		}
		if _, err := query.SetDataBuffer("Pressure", eh.Pressure); err != nil {
			return err
		}
		if _, err := query.SetDataBuffer("Pressure_variance", eh.Pressure_variance); err != nil {
			return err
		}
		if _, err := query.SetDataBuffer("Adc_voltage", eh.Adc_voltage); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return errors.Join(ErrWriteEnsTdb, err)
	}

	// attach some metadata to preserve python pandas functionality
	md := map[string]string{"__tiledb_rows": "uint64"}
	jsn, err := JsonDumps(md)
	if err != nil {
		return err
	}
	err = array.PutMetadata("__pandas_index_dims", jsn)

	return err
}

// BeamRecords contains the water profiling samples flattened into a
// struct of slices; one row per (ensemble, cell, beam) triple.
// Missing subrecords are padded with null samples so the rows stay
// aligned across the four profiling data types.
type BeamRecords struct {
	Ensemble_number []uint16 `tiledb:"dtype=uint16,ftype=attr" filters:"zstd(level=16)"`
	Cell_number     []uint8  `tiledb:"dtype=uint8,ftype=attr" filters:"zstd(level=16)"`
	Beam_number     []uint8  `tiledb:"dtype=uint8,ftype=attr" filters:"zstd(level=16)"`
	Velocity        []int16  `tiledb:"dtype=int16,ftype=attr" filters:"zstd(level=16)"`
	Correlation     []uint8  `tiledb:"dtype=uint8,ftype=attr" filters:"zstd(level=16)"`
	Echo_intensity  []uint8  `tiledb:"dtype=uint8,ftype=attr" filters:"zstd(level=16)"`
	Percent_good    []uint8  `tiledb:"dtype=uint8,ftype=attr" filters:"zstd(level=16)"`
}

// nullGrid builds a padding grid for a profiling record that wasn't
// present in the ensemble.
func nullGrid[T any](num_cells, num_beams uint8, null T) [][]T {
	grid := make([][]T, num_cells)
	for i := range grid {
		row := make([]T, num_beams)
		for j := range row {
			row[j] = null
		}
		grid[i] = row
	}

	return grid
}

// appendEnsemble flattens the profiling grids of a single decoded
// ensemble onto the block. Nothing is appended when the ensemble lacks
// a fixed leader (no grid dimensions) or carries no profiling records.
func (br *BeamRecords) appendEnsemble(e *Ensemble) {
	if e.Fixed_leader == nil {
		return
	}
	if e.Velocity == nil && e.Correlation == nil && e.Echo_intensity == nil && e.Percent_good == nil {
		return
	}

	num_cells := e.Fixed_leader.Num_cells
	num_beams := e.Fixed_leader.Num_beams

	ensemble_number := uint16(0)
	if e.Variable_leader != nil {
		ensemble_number = e.Variable_leader.Ensemble_number
	}

	velocity := nullGrid(num_cells, num_beams, NULL_VELOCITY)
	if e.Velocity != nil {
		velocity = e.Velocity.Data
	}
	correlation := nullGrid(num_cells, num_beams, uint8(0))
	if e.Correlation != nil {
		correlation = e.Correlation.Data
	}
	echo := nullGrid(num_cells, num_beams, uint8(0))
	if e.Echo_intensity != nil {
		echo = e.Echo_intensity.Data
	}
	percent := nullGrid(num_cells, num_beams, uint8(0))
	if e.Percent_good != nil {
		percent = e.Percent_good.Data
	}

	for cell := uint8(0); cell < num_cells; cell++ {
		for beam := uint8(0); beam < num_beams; beam++ {
			br.Ensemble_number = append(br.Ensemble_number, ensemble_number)
			br.Cell_number = append(br.Cell_number, cell)
			br.Beam_number = append(br.Beam_number, beam)
		}
	}

	br.Velocity = append(br.Velocity, lo.Flatten(velocity)...)
	br.Correlation = append(br.Correlation, lo.Flatten(correlation)...)
	br.Echo_intensity = append(br.Echo_intensity, lo.Flatten(echo)...)
	br.Percent_good = append(br.Percent_good, lo.Flatten(percent)...)
}

// ToTileDB writes the flattened beam data to a dense TileDB array with
// __tiledb_rows as the queryable dimension.
// Column structure:
// [__tiledb_rows (dim), ensemble_number, cell_number, beam_number,
// velocity, correlation, echo_intensity, percent_good].
func (br *BeamRecords) ToTileDB(file_uri string, ctx *tiledb.Context) error {
	nrows := uint64(len(br.Velocity))
	if nrows == 0 {
		return nil
	}

	err := denseRowArray(br, file_uri, ctx, nrows)
	if err != nil {
		return errors.Join(ErrCreateBeamTdb, err)
	}

	array, err := ArrayOpenWrite(ctx, file_uri)
	if err != nil {
		return errors.Join(ErrWriteBeamTdb, err)
	}
	defer array.Free()
	defer array.Close()

	err = writeRowQuery(array, ctx, nrows, func(query *tiledb.Query) error {
		if _, err := query.SetDataBuffer("Ensemble_number", br.Ensemble_number); err != nil {
			return err
		}
		if _, err := query.SetDataBuffer("Cell_number", br.Cell_number); err != nil {
			return err
		}
		if _, err := query.SetDataBuffer("Beam_number", br.Beam_number); err != nil {
			return err
		}
		if _, err := query.SetDataBuffer("Velocity", br.Velocity); err != nil {
			return err
		}
		if _, err := query.SetDataBuffer("Correlation", br.Correlation); err != nil {
			return err
		}
		if _, err := query.SetDataBuffer("Echo_intensity", br.Echo_intensity); err != nil {
			return err
		}
		if _, err := query.SetDataBuffer("Percent_good", br.Percent_good); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return errors.Join(ErrWriteBeamTdb, err)
	}

	md := map[string]string{"__tiledb_rows": "uint64"}
	jsn, err := JsonDumps(md)
	if err != nil {
		return err
	}
	err = array.PutMetadata("__pandas_index_dims", jsn)

	return err
}

// BottomTrackRecords contains the bottom tracking solutions as a struct
// of slices; one row per ensemble carrying a BOTTOM_TRACK record.
// Ranges are the composed 24 bit values; velocities stay in their raw
// on-wire form.
type BottomTrackRecords struct {
	Ensemble_number []uint16 `tiledb:"dtype=uint16,ftype=attr" filters:"zstd(level=16)"`
	Beam1_range     []uint32 `tiledb:"dtype=uint32,ftype=attr" filters:"zstd(level=16)"`
	Beam2_range     []uint32 `tiledb:"dtype=uint32,ftype=attr" filters:"zstd(level=16)"`
	Beam3_range     []uint32 `tiledb:"dtype=uint32,ftype=attr" filters:"zstd(level=16)"`
	Beam4_range     []uint32 `tiledb:"dtype=uint32,ftype=attr" filters:"zstd(level=16)"`
	Beam1_velocity  []uint16 `tiledb:"dtype=uint16,ftype=attr" filters:"zstd(level=16)"`
	Beam2_velocity  []uint16 `tiledb:"dtype=uint16,ftype=attr" filters:"zstd(level=16)"`
	Beam3_velocity  []uint16 `tiledb:"dtype=uint16,ftype=attr" filters:"zstd(level=16)"`
	Beam4_velocity  []uint16 `tiledb:"dtype=uint16,ftype=attr" filters:"zstd(level=16)"`
	Beam1_rssi      []uint8  `tiledb:"dtype=uint8,ftype=attr" filters:"zstd(level=16)"`
	Beam2_rssi      []uint8  `tiledb:"dtype=uint8,ftype=attr" filters:"zstd(level=16)"`
	Beam3_rssi      []uint8  `tiledb:"dtype=uint8,ftype=attr" filters:"zstd(level=16)"`
	Beam4_rssi      []uint8  `tiledb:"dtype=uint8,ftype=attr" filters:"zstd(level=16)"`
}

// appendEnsemble appends the bottom track solution of a single decoded
// ensemble.
func (bt *BottomTrackRecords) appendEnsemble(e *Ensemble) {
	if e.Bottom_track == nil {
		return
	}

	ensemble_number := uint16(0)
	if e.Variable_leader != nil {
		ensemble_number = e.Variable_leader.Ensemble_number
	}

	ranges := e.Bottom_track.Ranges()

	bt.Ensemble_number = append(bt.Ensemble_number, ensemble_number)
	bt.Beam1_range = append(bt.Beam1_range, ranges[0])
	bt.Beam2_range = append(bt.Beam2_range, ranges[1])
	bt.Beam3_range = append(bt.Beam3_range, ranges[2])
	bt.Beam4_range = append(bt.Beam4_range, ranges[3])
	bt.Beam1_velocity = append(bt.Beam1_velocity, e.Bottom_track.Beam1_velocity)
	bt.Beam2_velocity = append(bt.Beam2_velocity, e.Bottom_track.Beam2_velocity)
	bt.Beam3_velocity = append(bt.Beam3_velocity, e.Bottom_track.Beam3_velocity)
	bt.Beam4_velocity = append(bt.Beam4_velocity, e.Bottom_track.Beam4_velocity)
	bt.Beam1_rssi = append(bt.Beam1_rssi, e.Bottom_track.Beam1_rssi)
	bt.Beam2_rssi = append(bt.Beam2_rssi, e.Bottom_track.Beam2_rssi)
	bt.Beam3_rssi = append(bt.Beam3_rssi, e.Bottom_track.Beam3_rssi)
	bt.Beam4_rssi = append(bt.Beam4_rssi, e.Bottom_track.Beam4_rssi)
}

// ToTileDB writes the bottom track data to a dense TileDB array with
// __tiledb_rows as the queryable dimension.
func (bt *BottomTrackRecords) ToTileDB(file_uri string, ctx *tiledb.Context) error {
	nrows := uint64(len(bt.Ensemble_number))
	if nrows == 0 {
		return nil
	}

	err := denseRowArray(bt, file_uri, ctx, nrows)
	if err != nil {
		return errors.Join(ErrCreateBtTdb, err)
	}

	array, err := ArrayOpenWrite(ctx, file_uri)
	if err != nil {
		return errors.Join(ErrWriteBtTdb, err)
	}
	defer array.Free()
	defer array.Close()

	err = writeRowQuery(array, ctx, nrows, func(query *tiledb.Query) error {
		if _, err := query.SetDataBuffer("Ensemble_number", bt.Ensemble_number); err != nil {
			return err
		}
		if _, err := query.SetDataBuffer("Beam1_range", bt.Beam1_range); err != nil {
			return err
		}
		if _, err := query.SetDataBuffer("Beam2_range", bt.Beam2_range); err != nil {
			return err
		}
		if _, err := query.SetDataBuffer("Beam3_range", bt.Beam3_range); err != nil {
			return err
		}
		if _, err := query.SetDataBuffer("Beam4_range", bt.Beam4_range); err != nil {
			return err
		}
		if _, err := query.SetDataBuffer("Beam1_velocity", bt.Beam1_velocity); err != nil {
			return err
		}
		if _, err := query.SetDataBuffer("Beam2_velocity", bt.Beam2_velocity); err != nil {
			return err
		}
		if _, err := query.SetDataBuffer("Beam3_velocity", bt.Beam3_velocity); err != nil {
			return err
		}
		if _, err := query.SetDataBuffer("Beam4_velocity", bt.Beam4_velocity); err != nil {
			return err
		}
		if _, err := query.SetDataBuffer("Beam1_rssi", bt.Beam1_rssi); err != nil {
			return err
		}
		if _, err := query.SetDataBuffer("Beam2_rssi", bt.Beam2_rssi); err != nil {
			return err
		}
		if _, err := query.SetDataBuffer("Beam3_rssi", bt.Beam3_rssi); err != nil {
			return err
		}
		if _, err := query.SetDataBuffer("Beam4_rssi", bt.Beam4_rssi); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return errors.Join(ErrWriteBtTdb, err)
	}

	md := map[string]string{"__tiledb_rows": "uint64"}
	jsn, err := JsonDumps(md)
	if err != nil {
		return err
	}
	err = array.PutMetadata("__pandas_index_dims", jsn)

	return err
}

// EnsembleData aggregates the decoded ensembles of a whole PD0 file
// into the three struct of slices blocks ready for writing to TileDB.
type EnsembleData struct {
	Ensemble_headers     EnsembleHeaders
	Beam_records         BeamRecords
	Bottom_track_records BottomTrackRecords
	n_ensembles          uint64
}

// AppendEnsemble appends one decoded ensemble onto each data block.
func (ed *EnsembleData) AppendEnsemble(e *Ensemble) {
	ed.Ensemble_headers.appendEnsemble(e)
	ed.Beam_records.appendEnsemble(e)
	ed.Bottom_track_records.appendEnsemble(e)
	ed.n_ensembles++
}
