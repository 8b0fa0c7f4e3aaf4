// Package service renders, parses and installs the systemd unit that
// reapplies a parameter set at boot.
package service

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/kombatant/nvidia-oc/internal/settings"
)

// Flag names shared by the set subcommand and the unit parser.
const (
	FlagIndex       = "--index"
	FlagPowerLimit  = "--power-limit"
	FlagFreqOffset  = "--freq-offset"
	FlagMemOffset   = "--mem-offset"
	FlagMinClock    = "--min-clock"
	FlagMaxClock    = "--max-clock"
	FlagMinMemClock = "--min-mem-clock"
	FlagMaxMemClock = "--max-mem-clock"

	setCommand = "set"
)

// Command is a "<program> set ..." invocation. Nil fields are omitted
// when rendering.
type Command struct {
	Program  string
	Index    *uint32
	Settings settings.Settings
}

// NewCommand builds the invocation for a GPU index and parameter set.
func NewCommand(program string, index uint32, s settings.Settings) Command {
	return Command{Program: program, Index: &index, Settings: s}
}

// Args returns the argv after the program name, starting with "set".
// Flags appear in a fixed order: index, power limit, frequency offset,
// memory offset, then the clock pairs.
func (c Command) Args() []string {
	args := []string{setCommand}
	u := func(flag string, v *uint32) {
		if v != nil {
			args = append(args, flag, strconv.FormatUint(uint64(*v), 10))
		}
	}
	i := func(flag string, v *int32) {
		if v != nil {
			args = append(args, flag, strconv.FormatInt(int64(*v), 10))
		}
	}

	s := c.Settings
	u(FlagIndex, c.Index)
	u(FlagPowerLimit, s.PowerLimit)
	i(FlagFreqOffset, s.FreqOffset)
	i(FlagMemOffset, s.MemOffset)
	u(FlagMinClock, s.MinClock)
	u(FlagMaxClock, s.MaxClock)
	u(FlagMinMemClock, s.MinMemClock)
	u(FlagMaxMemClock, s.MaxMemClock)
	return args
}

// String renders the full command line.
func (c Command) String() string {
	return strings.Join(append([]string{c.Program}, c.Args()...), " ")
}

// Equal reports whether both commands carry the same index and values.
// The program path is not compared.
func (c Command) Equal(o Command) bool {
	return fmt.Sprint(c.Args()) == fmt.Sprint(o.Args())
}

// ParseExecStart recovers a Command from an ExecStart value. The
// "ExecStart=" prefix and one pair of surrounding double quotes are
// optional. Tokens before "set" are skipped, except that the first one
// is taken as the program. Unknown tokens are ignored and an unparsable
// value leaves its field unset.
func ParseExecStart(line string) Command {
	exec := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(line), "ExecStart="))
	if len(exec) > 1 && strings.HasPrefix(exec, `"`) && strings.HasSuffix(exec, `"`) {
		exec = exec[1 : len(exec)-1]
	}

	var cmd Command
	parts := strings.Fields(exec)
	afterSet := false
	for i := 0; i < len(parts); {
		p := parts[i]
		if !afterSet {
			if p == setCommand {
				afterSet = true
			} else if i == 0 {
				cmd.Program = p
			}
			i++
			continue
		}

		var value string
		if i+1 < len(parts) {
			value = parts[i+1]
		}
		s := &cmd.Settings
		switch p {
		case FlagIndex:
			cmd.Index = parseUint(value)
		case FlagPowerLimit:
			s.PowerLimit = parseUint(value)
		case FlagFreqOffset:
			s.FreqOffset = parseInt(value)
		case FlagMemOffset:
			s.MemOffset = parseInt(value)
		case FlagMinClock:
			s.MinClock = parseUint(value)
		case FlagMaxClock:
			s.MaxClock = parseUint(value)
		case FlagMinMemClock:
			s.MinMemClock = parseUint(value)
		case FlagMaxMemClock:
			s.MaxMemClock = parseUint(value)
		default:
			i++
			continue
		}
		i += 2
	}
	return cmd
}

// ParseUnitFile finds the ExecStart line of a unit and parses it. ok is
// false when the unit has no ExecStart line.
func ParseUnitFile(contents string) (cmd Command, ok bool) {
	for _, line := range strings.Split(contents, "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "ExecStart=") {
			return ParseExecStart(line), true
		}
	}
	return Command{}, false
}

func parseUint(s string) *uint32 {
	v, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return nil
	}
	return settings.Uint32(uint32(v))
}

func parseInt(s string) *int32 {
	v, err := strconv.ParseInt(s, 10, 32)
	if err != nil {
		return nil
	}
	return settings.Int32(int32(v))
}
