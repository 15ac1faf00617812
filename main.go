package main

import (
	"fmt"
	"os"
	"runtime/debug"

	"pc7300/emu"
)

func main() {
	cli := parseArgs(os.Args[1:])

	switch cli.mode {
	case infoMode:
		infoMain(cli.Info)
	case mkdiscMode:
		mkdiscMain(cli.Mkdisc)
	case sectorMode:
		sectorMain(cli.Sector, cli.loadConfig())
	case stateMode:
		stateMain(cli.loadConfig())
	case configMode:
		cfg := cli.loadConfig()
		checkf(cfg.Encode(os.Stdout), "failed to encode configuration")
	case versionMode:
		fmt.Println("pc7300", version())
	}
}

func (cli *CLI) loadConfig() emu.Config {
	if cli.ConfigPath == "" {
		return emu.LoadConfigOrDefault("")
	}
	cfg, err := emu.LoadConfig(cli.ConfigPath)
	checkf(err, "failed to load configuration")
	return cfg
}

func version() string {
	bi, ok := debug.ReadBuildInfo()
	if !ok || bi.Main.Version == "" {
		return "(devel)"
	}
	return bi.Main.Version
}

func checkf(err error, format string, args ...any) {
	if err == nil {
		return
	}
	fatalf(format+".\n"+err.Error(), args...)
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "fatal error:")
	fmt.Fprintf(os.Stderr, "\n\t%s\n", fmt.Sprintf(format, args...))
	os.Exit(1)
}
