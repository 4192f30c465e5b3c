package regs

// Base addresses of the Allwinner A20 SDRAM controller and clock-control unit.
const (
	SDRBase Addr = 0x01c01000
	CCMBase Addr = 0x01c20000
)

// SDRAM controller registers.
const (
	CCR      = SDRBase + 0x000 // controller configuration
	DCR      = SDRBase + 0x004 // DRAM configuration and command
	IOCR     = SDRBase + 0x008 // I/O configuration
	DRR      = SDRBase + 0x010 // DRAM refresh
	TPR0     = SDRBase + 0x014 // timing parameters 0
	TPR1     = SDRBase + 0x018 // timing parameters 1
	TPR2     = SDRBase + 0x01c // timing parameters 2
	ZQCR0    = SDRBase + 0x0a8 // ZQ calibration control
	ZQSR     = SDRBase + 0x0b0 // ZQ calibration status
	IDCR     = SDRBase + 0x0b4 // initialization delay
	MR       = SDRBase + 0x1f0 // mode register
	EMR      = SDRBase + 0x1f4 // extended mode register
	EMR2     = SDRBase + 0x1f8 // extended mode register 2
	EMR3     = SDRBase + 0x1fc // extended mode register 3
	DLLCR0   = SDRBase + 0x204 // master DLL; DLLCR1-4 follow
	MCR      = SDRBase + 0x230 // mode configuration (system config)
	PPWRSCTL = SDRBase + 0x23c // pad power save control
	HPCR0    = SDRBase + 0x250 // host port 0; 32 ports follow
	CFSR     = SDRBase + 0x2d0 // host port FIFO status
)

// Clock-control registers owned by the DRAM domain.
const (
	CCMPLL5      = CCMBase + 0x020 // SDRAM PLL
	CCMAHBGate0  = CCMBase + 0x060 // AHB bus clock gating
	CCMSDRAMGate = CCMBase + 0x100 // SDRAM clock gating
)

// NumHostPorts is the number of host ports of the controller.
const NumHostPorts = 32

// NumSlaveDLLs is the number of byte-lane DLL channels next to the master.
const NumSlaveDLLs = 4

// HPCR returns the gate register of a host port.
func HPCR(port int) Addr {
	return HPCR0.Offset(port)
}

// DLLCR returns DLL control register n. Zero is the master channel.
func DLLCR(n int) Addr {
	return DLLCR0.Offset(n)
}

// DCR fields.
var (
	DCRCommand = MakeField("DCR.CMD", 27, 31)
	DCRBusy    = Bit(31)
)

// DRR fields.
var DRRAutoRefreshDisable = Bit(31)

// CCR fields.
var (
	CCRInit       = Bit(31)
	CCRITMDisable = Bit(28)
)

// MCR fields.
var (
	MCRModeSelect = MakeField("MCR.MODE_SEL", 28, 29)
	MCRSysClock   = Bit(16)
	MCRDDR3Reset  = Bit(12)
	MCRDrive      = MakeField("MCR.DRIVE", 13, 14)
	MCRModeEnable = MakeField("MCR.MODE_EN", 2, 11)
	MCRModeNormal = MakeField("MCR.MODE_NORM", 0, 1)
)

// MCRModeSelfRefresh is the MCR mode-select value used while in self-refresh.
const MCRModeSelfRefresh = 0x2

// PPWRSCTL handshake. Writing a pattern asks the pad logic to hold or release
// the ODT state; bit 0 reflects the state the pads are in.
const (
	PadHoldPattern    uint32 = 0x16510001
	PadReleasePattern uint32 = 0x16510000
)

// PadAck is the pad-hold acknowledge bit.
var PadAck = Bit(0)

// HPCR fields.
var (
	HPCREnable   = Bit(0)
	HPCRPriority = MakeField("HPCR.PRIO", 2, 3)
	HPCRWait     = MakeField("HPCR.WAIT", 4, 7)
	HPCRCmdCount = MakeField("HPCR.CMD_NUM", 8, 15)
)

// DLLCR fields.
var (
	DLLOpen      = Bit(30)
	DLLReset     = Bit(31)
	DLLDelayCode = MakeField("DLLCR.DELAY", 14, 17)
)

// ZQCR0 fields.
var (
	ZQCR0Calib  = MakeField("ZQCR0.ZDATA", 0, 19)
	ZQCR0Divide = MakeField("ZQCR0.ZPROG", 20, 27)
	ZQCR0Enable = Bit(28)
	ZQCR0Extra  = Bit(29)
	ZQCR0Force  = Bit(30)
)

// IDCR fields.
var IDCRCKEDelay = MakeField("IDCR.CKE_DELAY", 0, 16)

// CCM fields.
var CCMAHBSDRAMGate = MakeField("AHB_GATE0.SDRAM", 14, 15)
