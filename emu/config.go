package emu

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"pc7300/disc"
	"pc7300/emu/log"
	"pc7300/hw"

	"github.com/BurntSushi/toml"
	"github.com/kirsle/configdir"
)

type Config struct {
	Machine MachineConfig `toml:"machine"`
	Disc    DiscConfig    `toml:"disc"`
}

type MachineConfig struct {
	ROM       string `toml:"rom"` // empty for an unpopulated socket
	BaseRAMKB int    `toml:"base_ram_kb"`
	ExpRAMKB  int    `toml:"exp_ram_kb"`
}

type DiscConfig struct {
	Image           string `toml:"image"` // empty for no disc
	SectorSize      int    `toml:"sector_size"`
	SectorsPerTrack int    `toml:"sectors_per_track"`
	Heads           int    `toml:"heads"`
	Writable        bool   `toml:"writable"`
}

func (dc DiscConfig) Geometry() disc.Geometry {
	return disc.Geometry{
		SectorSize:      dc.SectorSize,
		SectorsPerTrack: dc.SectorsPerTrack,
		Heads:           dc.Heads,
	}
}

var ErrBadConfig = errors.New("invalid configuration")

// DefaultConfig returns the configuration of a 1MB machine with a standard
// floppy drive and no disc.
func DefaultConfig() Config {
	return Config{
		Machine: MachineConfig{
			BaseRAMKB: 1024,
		},
		Disc: DiscConfig{
			SectorSize:      disc.Floppy.SectorSize,
			SectorsPerTrack: disc.Floppy.SectorsPerTrack,
			Heads:           disc.Floppy.Heads,
			Writable:        true,
		},
	}
}

// Check reports all the invalid settings of cfg.
func (cfg *Config) Check() error {
	var errs []error
	checkRAM := func(name string, kb, lo, hi int) {
		if kb < lo || kb > hi || kb%4 != 0 {
			errs = append(errs, fmt.Errorf("%w: %s = %d, want a multiple of 4 in [%d, %d]", ErrBadConfig, name, kb, lo, hi))
		}
	}
	checkRAM("machine.base_ram_kb", cfg.Machine.BaseRAMKB, 4, hw.MaxBaseRAM>>10)
	checkRAM("machine.exp_ram_kb", cfg.Machine.ExpRAMKB, 0, hw.MaxExpRAM>>10)

	if cfg.Disc.Image != "" && !cfg.Disc.Geometry().Valid() {
		errs = append(errs, fmt.Errorf("%w: disc geometry %v", ErrBadConfig, cfg.Disc.Geometry()))
	}
	return errors.Join(errs...)
}

// ConfigDir returns the user configuration directory.
var ConfigDir = sync.OnceValue(func() string {
	return configdir.LocalConfig("pc7300")
})

const cfgFilename = "config.toml"

// DefaultConfigPath returns the path of the configuration file in the user
// configuration directory.
func DefaultConfigPath() string {
	return filepath.Join(ConfigDir(), cfgFilename)
}

// LoadConfig loads the configuration file at path. Settings missing from the
// file keep their default value.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("failed to load config: %w", err)
	}
	if undec := md.Undecoded(); len(undec) > 0 {
		keys := make([]string, len(undec))
		for i, k := range undec {
			keys[i] = k.String()
		}
		log.ModEmu.WarnZ("unknown config keys").
			String("path", path).
			String("keys", strings.Join(keys, ",")).
			End()
	}
	if err := cfg.Check(); err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// LoadConfigOrDefault loads the configuration at path, or in the user
// configuration directory if path is empty. It falls back to the default
// configuration if the file can't be loaded.
func LoadConfigOrDefault(path string) Config {
	if path == "" {
		path = DefaultConfigPath()
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			log.ModEmu.WarnZ("using default configuration").Error("err", err).End()
		}
		return DefaultConfig()
	}
	return cfg
}

// SaveConfig writes cfg at path, creating the parent directories if needed.
func SaveConfig(path string, cfg Config) error {
	buf, err := toml.Marshal(cfg)
	if err != nil {
		return err
	}
	if err := configdir.MakePath(filepath.Dir(path)); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	return os.WriteFile(path, buf, 0644)
}

// Encode writes cfg in TOML format to w.
func (cfg *Config) Encode(w io.Writer) error {
	return toml.NewEncoder(w).Encode(cfg)
}
