package pd0

import (
	"io"
	"log"
	"time"

	tiledb "github.com/TileDB-Inc/TileDB-Go"
)

// Pd0File contains the relevant information for an opened PD0 file to
// enable streamed reading.
type Pd0File struct {
	Uri      string
	filesize uint64
	config   *tiledb.Config
	ctx      *tiledb.Context
	vfs      *tiledb.VFS
	handler  *tiledb.VFSfh
	Stream
}

// OpenPd0 opens a PD0 file for streamed IO and constructs a Pd0File type.
// The TileDB VFS layer handles both local filesystems and object stores
// such as s3; a TileDB config is required for stores with permission
// constraints.
func OpenPd0(pd0_uri string, config_uri string, in_memory bool) Pd0File {
	var (
		pd0    Pd0File
		config *tiledb.Config
		err    error
	)

	pd0.Uri = pd0_uri

	// get a generic config if no path provided
	if config_uri == "" {
		config, err = tiledb.NewConfig()
		if err != nil {
			panic(err)
		}
	} else {
		config, err = tiledb.LoadConfig(config_uri)
		if err != nil {
			panic(err)
		}
	}

	pd0.config = config

	ctx, err := tiledb.NewContext(config)
	if err != nil {
		panic(err)
	}
	pd0.ctx = ctx

	vfs, err := tiledb.NewVFS(ctx, config)
	if err != nil {
		panic(err)
	}
	pd0.vfs = vfs

	handler, err := vfs.Open(pd0_uri, tiledb.TILEDB_VFS_READ)
	if err != nil {
		panic(err)
	}
	pd0.handler = handler

	filesize, _ := vfs.FileSize(pd0_uri)
	pd0.filesize = filesize

	// generic stream
	stream, err := GenericStream(handler, filesize, in_memory)

	pd0.Stream = stream

	return pd0
}

// Close releases the open tiledb file handler connections.
func (p *Pd0File) Close() {
	p.handler.Close()
	p.vfs.Free()
	p.ctx.Free()
	p.config.Free()
}

// EnsembleInfo contains some basic information regarding an ensemble
// such as the byte location within the file, the declared size, and the
// per ping state needed for QA; cell and beam counts plus the RTC
// timestamp.
type EnsembleInfo struct {
	Byte_index      int64
	Num_bytes       uint16
	Num_data_types  uint8
	Ensemble_number uint16
	Num_cells       uint8
	Num_beams       uint8
	Timestamp       time.Time
}

// Pd0Details stores the information relevant to the PD0 file such as the
// path location and the size of the file in bytes.
type Pd0Details struct {
	PD0_URI string
	Size    uint64
}

// Metadata contains various metadata relevant to the PD0 file such as
// ensemble and data type counts, and generic quality information about
// the contents of the file (not necessarily the quality of the
// underlying data).
type Metadata struct {
	PD0_Details      Pd0Details
	Ensemble_Count   uint64
	Failed_Ensembles uint64
	Type_Counts      map[string]uint64
	Quality_Info     QualityInfo
	Summary          DeploymentSummary
}

// FileInfo is the overarching structure containing basic info about the
// PD0 file; file location, file size, counts of each data type, as well
// as basic per ensemble info such as cell and beam counts and
// timestamps.
type FileInfo struct {
	Metadata
	Ensemble_Info []EnsembleInfo
}

// Info builds a file index of every ensemble as well as generic
// information and metadata such as data type counts, the deployment
// summary and basic QA.
// Ensembles that fail to decode (corruption, truncation) are counted
// and skipped; the scanner resyncs on the next 7F7F id pair.
func (p *Pd0File) Info() FileInfo {
	var (
		finfo       FileInfo
		type_counts map[string]uint64
		infos       []EnsembleInfo
	)

	type_counts = make(map[string]uint64)
	infos = make([]EnsembleInfo, 0)

	one := uint64(1)

	// get the original starting point so we can jump back when done
	original_pos, _ := Tell(p.Stream)
	_, _ = p.Stream.Seek(0, 0)

	scanner := NewEnsembleScanner(p.Stream)
	sink := LogSink{}

	for {
		offset, buffer, err := scanner.Next()
		if err == io.EOF {
			break
		}
		if err == io.ErrUnexpectedEOF {
			finfo.Metadata.Failed_Ensembles += one
			break
		}
		if err != nil {
			log.Println("Error scanning PD0 stream:", err)
			break
		}

		ensemble, err := DecodeEnsemble(buffer, sink)
		if err != nil {
			finfo.Metadata.Failed_Ensembles += one
			continue
		}

		info := EnsembleInfo{
			Byte_index:     offset,
			Num_bytes:      ensemble.Header.Num_bytes,
			Num_data_types: ensemble.Header.Num_data_types,
			Timestamp:      ensemble.Timestamp,
		}
		if ensemble.Fixed_leader != nil {
			info.Num_cells = ensemble.Fixed_leader.Num_cells
			info.Num_beams = ensemble.Fixed_leader.Num_beams
		}
		if ensemble.Variable_leader != nil {
			info.Ensemble_number = ensemble.Variable_leader.Ensemble_number
		}
		infos = append(infos, info)

		for id, name := range TypeNames {
			if hasRecord(&ensemble, id) {
				type_counts[name] += one
			}
		}
	}

	// reset file position
	_, _ = p.Stream.Seek(original_pos, 0)

	finfo.Metadata.PD0_Details = Pd0Details{PD0_URI: p.Uri, Size: p.filesize}
	finfo.Metadata.Ensemble_Count = uint64(len(infos))
	finfo.Metadata.Type_Counts = type_counts
	finfo.Ensemble_Info = infos

	finfo.QInfo()
	finfo.SummaryInfo()

	return finfo
}

// hasRecord reports whether the decoded ensemble carries the given data
// type record.
func hasRecord(e *Ensemble, id TypeID) bool {
	switch id {
	case FIXED_LEADER:
		return e.Fixed_leader != nil
	case VARIABLE_LEADER:
		return e.Variable_leader != nil
	case VELOCITY:
		return e.Velocity != nil
	case CORRELATION:
		return e.Correlation != nil
	case ECHO_INTENSITY:
		return e.Echo_intensity != nil
	case PERCENT_GOOD:
		return e.Percent_good != nil
	case BOTTOM_TRACK:
		return e.Bottom_track != nil
	}

	return false
}

// Ensembles decodes every ensemble within the file into memory.
// Corrupt ensembles are skipped, matching the counting behaviour of
// Info.
func (p *Pd0File) Ensembles() []Ensemble {
	ensembles := make([]Ensemble, 0)

	original_pos, _ := Tell(p.Stream)
	_, _ = p.Stream.Seek(0, 0)

	scanner := NewEnsembleScanner(p.Stream)
	sink := LogSink{}

	for {
		_, buffer, err := scanner.Next()
		if err != nil {
			break
		}

		ensemble, err := DecodeEnsemble(buffer, sink)
		if err != nil {
			continue
		}
		ensembles = append(ensembles, ensemble)
	}

	_, _ = p.Stream.Seek(original_pos, 0)

	return ensembles
}
