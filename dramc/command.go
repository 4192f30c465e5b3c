package dramc

import "fmt"

// CommandCode is a value of the DCR command field. Every code has the top bit
// of the field set, which doubles as the busy flag hardware clears once the
// command has been carried out.
type CommandCode uint32

// DRAM commands.
const (
	CmdSelfRefreshEnter CommandCode = 0x12
	CmdRefresh          CommandCode = 0x13
	CmdPrechargeAll     CommandCode = 0x15
	CmdModeExit         CommandCode = 0x17
	CmdPowerDown        CommandCode = 0x1e
)

func (c CommandCode) String() string {
	switch c {
	case CmdSelfRefreshEnter:
		return "self-refresh-enter"
	case CmdRefresh:
		return "refresh"
	case CmdPrechargeAll:
		return "precharge-all"
	case CmdModeExit:
		return "mode-exit"
	case CmdPowerDown:
		return "power-down"
	default:
		return fmt.Sprintf("command(0x%02x)", uint32(c))
	}
}

// State is the power state of the DRAM as tracked by the controller.
type State int

// Power states.
const (
	StateNormal State = iota
	StateEntering
	StateSelfRefresh
	StateExiting
	StatePowerDown
	StateFault
)

func (s State) String() string {
	switch s {
	case StateNormal:
		return "normal"
	case StateEntering:
		return "entering"
	case StateSelfRefresh:
		return "self-refresh"
	case StateExiting:
		return "exiting"
	case StatePowerDown:
		return "power-down"
	case StateFault:
		return "fault"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// lowPower tells if only mode-exit may be issued.
func (s State) lowPower() bool {
	return s == StateSelfRefresh || s == StatePowerDown
}
