package main

import (
	"encoding/hex"
	"fmt"
	"os"
	"runtime"
	"text/tabwriter"

	"pc7300/disc"
	"pc7300/emu"
	"pc7300/emu/log"

	"golang.org/x/sync/errgroup"
	"golang.org/x/term"
)

// infoMain probes all images concurrently, then prints them in the order
// given on the command line.
func infoMain(args Info) {
	g := args.geometry()
	infos := make([]disc.Info, len(args.Images))
	errs := make([]error, len(args.Images))

	var eg errgroup.Group
	eg.SetLimit(runtime.NumCPU())
	for i, path := range args.Images {
		eg.Go(func() error {
			infos[i], errs[i] = disc.Probe(path, g)
			return nil
		})
	}
	eg.Wait()

	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "IMAGE\tSIZE\tGEOMETRY\tTRACKS")
	nerrs := 0
	for i, info := range infos {
		if errs[i] != nil {
			fmt.Fprintf(tw, "%s\t-\t%v\terror: %v\n", args.Images[i], g, errs[i])
			nerrs++
			continue
		}
		fmt.Fprintf(tw, "%s\t%d\t%v\t%d\n", info.Path, info.Size, info.Geometry, info.Tracks)
	}
	tw.Flush()
	if nerrs != 0 {
		os.Exit(1)
	}
}

func mkdiscMain(args Mkdisc) {
	g := args.geometry()
	checkf(disc.Create(args.Path, g, args.Tracks), "failed to create disc image")
	fmt.Printf("created %s: %d tracks, %v\n", args.Path, args.Tracks, g)
}

func sectorMain(args Sector, cfg emu.Config) {
	cfg.Disc = emu.DiscConfig{
		Image:           args.Image,
		SectorSize:      args.SectorSize,
		SectorsPerTrack: args.SectorsPerTrack,
		Heads:           args.Heads,
	}

	var host emu.Probe
	m, err := emu.PowerUp(cfg, &host)
	checkf(err, "power up failed")
	defer m.Close()

	buf, err := emu.ReadSector(m, args.Track, args.Head, args.Sector, args.Multi)
	checkf(err, "failed to read sector")

	log.ModEmu.InfoZ("sector read").
		Int("len", len(buf)).
		Int("reschedules", host.Reschedules).
		End()

	if term.IsTerminal(int(os.Stdout.Fd())) {
		fmt.Print(hex.Dump(buf))
		return
	}
	_, err = os.Stdout.Write(buf)
	checkf(err, "failed to write sector data")
}

func stateMain(cfg emu.Config) {
	m, err := emu.PowerUp(cfg, &emu.Probe{})
	checkf(err, "power up failed")
	defer m.Close()

	fmt.Printf("%s\n", m.Snapshot().MarshalIndent())
}
