package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"

	tiledb "github.com/TileDB-Inc/TileDB-Go"
	"github.com/alitto/pond"
	"github.com/urfave/cli/v2"

	pd0 "github.com/sixy6e/go-pd0"
)

// convert_pd0 handles the conversion process for a single PD0 file.
func convert_pd0(pd0_uri, config_uri, outdir_uri string, in_memory, metadata_only bool) error {
	var (
		out_uri string
		err     error
		dir     string
		file    string
		config  *tiledb.Config
	)

	dir, file = filepath.Split(pd0_uri)
	if outdir_uri == "" {
		outdir_uri = dir
	}

	log.Println("Processing PD0:", pd0_uri)
	src := pd0.OpenPd0(pd0_uri, config_uri, in_memory)
	defer src.Close()

	log.Println("Building index; Collating metadata; Computing general QA")
	file_info := src.Info()

	log.Println("Writing metadata")
	out_uri = filepath.Join(outdir_uri, file+"-metadata.json")
	_, err = pd0.WriteJson(out_uri, config_uri, file_info.Metadata)
	if err != nil {
		return err
	}

	log.Println("Writing index")
	out_uri = filepath.Join(outdir_uri, file+"-index.json")
	_, err = pd0.WriteJson(out_uri, config_uri, file_info.Ensemble_Info)
	if err != nil {
		return err
	}

	if !metadata_only {
		// get a generic config if no path provided
		if config_uri == "" {
			config, err = tiledb.NewConfig()
			if err != nil {
				return err
			}
		} else {
			config, err = tiledb.LoadConfig(config_uri)
			if err != nil {
				return err
			}
		}

		defer config.Free()

		ctx, err := tiledb.NewContext(config)
		if err != nil {
			return err
		}
		defer ctx.Free()

		grp_uri := filepath.Join(outdir_uri, file+".tiledb")
		grp, err := tiledb.NewGroup(ctx, grp_uri)
		if err != nil {
			return err
		}
		defer grp.Free()

		err = grp.Create()
		if err != nil {
			return errors.Join(err, errors.New("Error creating tiledb group"))
		}

		err = grp.Open(tiledb.TILEDB_WRITE)
		if err != nil {
			return errors.Join(err, errors.New("Error opening tiledb group in write mode"))
		}

		log.Println("Writing deployment summary to group metadata")
		jsn, err := pd0.JsonIndentDumps(file_info.Metadata.Summary)
		if err != nil {
			return err
		}
		err = grp.PutMetadata("Deployment-Summary", jsn)
		if err != nil {
			return err
		}

		log.Println("Decoding ensembles")
		data := pd0.EnsembleData{}
		for _, ensemble := range src.Ensembles() {
			e := ensemble
			data.AppendEnsemble(&e)
		}

		log.Println("Processing Ensemble Headers")
		hdr_name := "EnsembleHeaders.tiledb"
		out_uri = filepath.Join(grp_uri, hdr_name)
		err = data.Ensemble_headers.ToTileDB(out_uri, ctx)
		if err != nil {
			return err
		}
		err = grp.AddMember(hdr_name, "EnsembleHeaders", true)
		if err != nil {
			return errors.Join(err, errors.New("Error adding ensemble headers to group"))
		}

		log.Println("Processing Beam Data")
		beam_name := "BeamData.tiledb"
		out_uri = filepath.Join(grp_uri, beam_name)
		err = data.Beam_records.ToTileDB(out_uri, ctx)
		if err != nil {
			return err
		}
		err = grp.AddMember(beam_name, "BeamData", true)
		if err != nil {
			return errors.Join(err, errors.New("Error adding beam data to group"))
		}

		log.Println("Processing Bottom Track")
		bt_name := "BottomTrack.tiledb"
		out_uri = filepath.Join(grp_uri, bt_name)
		err = data.Bottom_track_records.ToTileDB(out_uri, ctx)
		if err != nil {
			return err
		}
		err = grp.AddMember(bt_name, "BottomTrack", true)
		if err != nil {
			return errors.Join(err, errors.New("Error adding bottom track to group"))
		}
	}

	log.Println("Finished PD0:", pd0_uri)

	return nil
}

// convert_pd0_list is responsible for submitting a list of PD0 files to
// a processing pool that converts each PD0 file. The processing pool
// uses 2 * n_CPUs workers to spread the work across.
func convert_pd0_list(uri, config_uri, outdir_uri string, in_memory, metadata_only bool) error {
	log.Println("Searching uri:", uri)
	items := pd0.FindPd0(uri, config_uri)
	log.Println("Number of PD0s to process:", len(items))

	// Create a context that will be cancelled when the user presses Ctrl+C (process receives termination signal).
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	// fixed pool
	n := runtime.NumCPU() * 2
	pool := pond.New(n, 0, pond.MinWorkers(n), pond.Context(ctx))
	defer pool.StopAndWait()

	for _, name := range items {
		item_uri := name
		pool.Submit(func() {
			_ = convert_pd0(item_uri, config_uri, outdir_uri, in_memory, metadata_only)
		})
	}

	return nil
}

// monitor_port frames and decodes live ensembles arriving over the
// serial line, logging a one line summary per ensemble.
func monitor_port(port_name string, baud_rate int) error {
	port, err := pd0.NewDvlPort(port_name, baud_rate)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	go func() {
		_ = port.Monitor(ctx)
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case buffer := <-port.Ensembles():
			ensemble, err := pd0.DecodeEnsemble(buffer, nil)
			if err != nil {
				log.Println("Error decoding ensemble:", err)
				continue
			}

			if ensemble.Variable_leader != nil {
				log.Println(
					"Ensemble:", ensemble.Variable_leader.Ensemble_number,
					"Timestamp:", ensemble.Timestamp,
				)
			}
			if ensemble.Bottom_track != nil {
				log.Println("Bottom track ranges:", ensemble.Bottom_track.Ranges())
			}
		}
	}
}

func main() {
	app := &cli.App{
		Commands: []*cli.Command{
			&cli.Command{
				Name: "convert",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "pd0-uri",
						Usage: "URI or pathname to a PD0 file.",
					},
					&cli.StringFlag{
						Name:  "config-uri",
						Usage: "URI or pathname to a TileDB config file.",
					},
					&cli.StringFlag{
						Name:  "outdir-uri",
						Usage: "URI or pathname to an output directory.",
					},
					&cli.BoolFlag{
						Name:  "in-memory",
						Usage: "Read the entire contents of a PD0 file into memory before processing.",
					},
					&cli.BoolFlag{
						Name:  "metadata-only",
						Usage: "Only decode and export metadata relating to the PD0 file.",
					},
				},
				Action: func(cCtx *cli.Context) error {
					err := convert_pd0(cCtx.String("pd0-uri"), cCtx.String("config-uri"), cCtx.String("outdir-uri"), cCtx.Bool("in-memory"), cCtx.Bool("metadata-only"))
					return err
				},
			},
			&cli.Command{
				Name: "convert-trawl",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "uri",
						Usage: "URI or pathname to a directory containing pd0 files.",
					},
					&cli.StringFlag{
						Name:  "config-uri",
						Usage: "URI or pathname to a TileDB config file.",
					},
					&cli.StringFlag{
						Name:  "outdir-uri",
						Usage: "URI or pathname to an output directory.",
					},
					&cli.BoolFlag{
						Name:  "in-memory",
						Usage: "Read the entire contents of a PD0 file into memory before processing.",
					},
					&cli.BoolFlag{
						Name:  "metadata-only",
						Usage: "Only decode and export metadata relating to the PD0 files.",
					},
				},
				Action: func(cCtx *cli.Context) error {
					err := convert_pd0_list(cCtx.String("uri"), cCtx.String("config-uri"), cCtx.String("outdir-uri"), cCtx.Bool("in-memory"), cCtx.Bool("metadata-only"))
					return err
				},
			},
			&cli.Command{
				Name: "monitor",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "port",
						Usage: "Serial port the DVL is connected to.",
					},
					&cli.IntFlag{
						Name:  "baud",
						Value: 115200,
						Usage: "Baud rate for the serial connection.",
					},
				},
				Action: func(cCtx *cli.Context) error {
					err := monitor_port(cCtx.String("port"), cCtx.Int("baud"))
					return err
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
