package fdc

//go:generate go tool stringer -type=Command

// Command is a controller command, decoded from the top nibble of the value
// written to the command register. The low nibble holds command flags.
type Command uint8

const (
	Restore Command = iota
	Seek
	Step
	StepUpdate
	StepIn
	StepInUpdate
	StepOut
	StepOutUpdate
	ReadSector
	ReadSectorMulti
	WriteSector
	WriteSectorMulti
	ReadAddress
	ForceInterrupt
	ReadTrack
	FormatTrack
)

// Command flag bits (low nibble of the command byte).
const (
	flagHeadSelect = 1 // side select, for sector and track commands
	flagImmIRQ     = 3 // immediate interrupt, for Force Interrupt
)

func decodeCommand(val uint8) Command { return Command(val >> 4) }

// seek reports whether c is a Type I (head positioning) command.
func (c Command) seek() bool { return c <= StepOutUpdate }

// updatesTrackReg reports whether a step command copies the new track into
// the track register.
func (c Command) updatesTrackReg() bool { return c >= Step && c&1 != 0 }

func (c Command) multi() bool { return c == ReadSectorMulti || c == WriteSectorMulti }

// writes reports whether c modifies the disc.
func (c Command) writes() bool {
	return c == WriteSector || c == WriteSectorMulti || c == FormatTrack
}
