package main

import (
	"fmt"
	"os"
	"strings"

	"pc7300/disc"
	"pc7300/emu/log"

	"github.com/alecthomas/kong"
)

type mode byte

const (
	infoMode    mode = iota // Show disc image geometry
	mkdiscMode              // Create a blank disc image
	sectorMode              // Read sectors through the floppy controller
	stateMode               // Dump machine state
	configMode              // Show effective configuration
	versionMode             // Show version
)

type (
	CLI struct {
		Info    Info    `cmd:"" help:"Show disc images geometry."`
		Mkdisc  Mkdisc  `cmd:"" help:"Create a blank, formatted, disc image."`
		Sector  Sector  `cmd:"" help:"Read sectors from a disc image through the floppy controller."`
		State   State   `cmd:"" help:"Power up the machine and dump its state as JSON."`
		Config  Config  `cmd:"" help:"Show the effective configuration."`
		Version Version `cmd:"" help:"Show pc7300 version."`

		Log        logModMask `help:"${log_help}" placeholder:"mod0,mod1,..."`
		ConfigPath string     `name:"config" help:"${config_help}" type:"path" placeholder:"FILE"`

		mode mode
	}

	// Geometry flags, shared by commands dealing with disc images.
	Geometry struct {
		SectorSize      int `name:"sector-size" help:"Bytes per sector." default:"${sector_size}"`
		SectorsPerTrack int `name:"spt" help:"Sectors per track." default:"${spt}"`
		Heads           int `name:"heads" help:"Number of heads." default:"${heads}"`
	}

	Info struct {
		Images []string `arg:"" name:"image" help:"Disc image files."`
		Geometry `embed:""`
	}

	Mkdisc struct {
		Path   string `arg:"" name:"image" help:"Disc image to create." type:"path"`
		Tracks int    `name:"tracks" help:"Number of cylinders." default:"${tracks}"`
		Geometry `embed:""`
	}

	Sector struct {
		Image  string `arg:"" name:"image" help:"Disc image file." type:"existingfile"`
		Track  int    `name:"track" help:"Cylinder number." default:"0"`
		Head   int    `name:"head" help:"Head number." default:"0"`
		Sector int    `name:"sector" help:"Sector number, starting at 1." default:"1"`
		Multi  bool   `name:"multi" help:"Read a whole track's worth of sectors."`
		Geometry `embed:""`
	}

	State   struct{}
	Config  struct{}
	Version struct{}
)

func (g Geometry) geometry() disc.Geometry {
	return disc.Geometry{
		SectorSize:      g.SectorSize,
		SectorsPerTrack: g.SectorsPerTrack,
		Heads:           g.Heads,
	}
}

var vars = kong.Vars{
	"log_help":    "Enable logging for specified modules.",
	"config_help": "Configuration file (default: user configuration directory).",
	"sector_size": fmt.Sprint(disc.Floppy.SectorSize),
	"spt":         fmt.Sprint(disc.Floppy.SectorsPerTrack),
	"heads":       fmt.Sprint(disc.Floppy.Heads),
	"tracks":      fmt.Sprint(disc.FloppyTracks),
}

func newParser(cli *CLI) (*kong.Kong, error) {
	return kong.New(cli,
		kong.Name("pc7300"),
		kong.Description("AT&T UNIX PC memory subsystem and floppy controller."),
		kong.UsageOnError(),
		kong.Help(printHelp),
		vars)
}

func parseArgs(args []string) CLI {
	var cli CLI
	parser, err := newParser(&cli)
	if err != nil {
		panic(err)
	}

	ctx, err := parser.Parse(args)
	checkf(err, "failed to parse command line")
	checkf(ctx.Error, "failed to parse command line")
	cli.mode = commandMode(ctx.Command())
	return cli
}

func commandMode(cmd string) mode {
	name, _, _ := strings.Cut(cmd, " ")
	switch name {
	case "info":
		return infoMode
	case "mkdisc":
		return mkdiscMode
	case "sector":
		return sectorMode
	case "state":
		return stateMode
	case "config":
		return configMode
	}
	return versionMode
}

func printHelp(options kong.HelpOptions, ctx *kong.Context) error {
	if err := kong.DefaultHelpPrinter(options, ctx); err != nil {
		return err
	}
	if ctx.Command() == "" {
		loggingHelp := `
Log modules:
  The --log flag accepts a comma-separated list of modules.

  Valid log modules are:
%s

  As a special case, the following values are accepted:
    - no                     Disable all logging.
    - all                    Enable all logs.
`
		var strs []string
		for _, m := range log.ModuleNames() {
			strs = append(strs, "    - "+m)
		}

		fmt.Fprintf(os.Stderr, loggingHelp, strings.Join(strs, "\n"))
	}

	return nil
}

type logModMask log.ModuleMask

// Decode decodes a comma-separated list of module names into a module mask.
//
// Implements kong.MapperValue interface.
func (lm *logModMask) Decode(ctx *kong.DecodeContext) error {
	var tok string
	if err := ctx.Scan.PopValueInto("log", &tok); err != nil {
		return err
	}
	mask, nolog, err := parseLogModules(tok)
	if err != nil {
		return err
	}
	if nolog {
		log.Disable()
		return nil
	}
	*lm = logModMask(mask)
	log.EnableDebugModules(mask)
	return nil
}

func parseLogModules(list string) (mask log.ModuleMask, nolog bool, err error) {
	allLogs := false
	for _, v := range strings.Split(list, ",") {
		switch v {
		case "all":
			allLogs = true
		case "no":
			nolog = true
		default:
			mod, ok := log.ModuleByName(v)
			if !ok {
				return 0, false, fmt.Errorf("unknown log module %s", v)
			}
			mask |= mod.Mask()
		}
	}

	if nolog {
		if allLogs {
			return 0, false, fmt.Errorf("cannot use 'all' and 'no' together")
		}
		if mask != 0 {
			return 0, false, fmt.Errorf("cannot combine 'no' with other log modules")
		}
		return 0, true, nil
	}
	if allLogs {
		mask = log.ModuleMaskAll
	}
	return mask, false, nil
}
