package emu

import (
	"fmt"
	"os"

	"pc7300/disc"
	"pc7300/emu/log"
	"pc7300/hw"
)

// PowerUp builds a machine from cfg: it loads the boot ROM and inserts the
// configured disc in the floppy drive.
func PowerUp(cfg Config, host hw.Host) (*hw.Machine, error) {
	if err := cfg.Check(); err != nil {
		return nil, err
	}

	var rom []byte
	if cfg.Machine.ROM != "" {
		var err error
		if rom, err = os.ReadFile(cfg.Machine.ROM); err != nil {
			return nil, fmt.Errorf("failed to read boot rom: %w", err)
		}
	} else {
		log.ModEmu.WarnZ("no boot rom configured").End()
	}

	m, err := hw.New(hw.Config{
		ROM:         rom,
		BaseRAMSize: cfg.Machine.BaseRAMKB << 10,
		ExpRAMSize:  cfg.Machine.ExpRAMKB << 10,
		Host:        host,
	})
	if err != nil {
		return nil, err
	}

	if dc := cfg.Disc; dc.Image != "" {
		img, err := disc.Open(dc.Image, dc.Writable)
		if err != nil {
			return nil, fmt.Errorf("failed to open disc image: %w", err)
		}
		if err := m.FDC.Load(img, dc.Geometry(), dc.Writable); err != nil {
			img.Close()
			return nil, fmt.Errorf("failed to load disc image %s: %w", dc.Image, err)
		}
	}

	log.ModEmu.InfoZ("power up").
		String("rom", cfg.Machine.ROM).
		String("disc", cfg.Disc.Image).
		End()
	return m, nil
}

// Probe stands in for the processor when the machine is driven directly,
// from tools and tests. It runs in supervisor mode unless User is set.
type Probe struct {
	User bool

	BusErrors   int
	Reschedules int
}

func (p *Probe) Supervisor() bool { return !p.User }
func (p *Probe) BusError()        { p.BusErrors++ }
func (p *Probe) Reschedule()      { p.Reschedules++ }
