package regs

import (
	"fmt"
	"sort"
)

var regNames = map[Addr]string{
	CCR:          "SDR_CCR",
	DCR:          "SDR_DCR",
	IOCR:         "SDR_IOCR",
	DRR:          "SDR_DRR",
	TPR0:         "SDR_TPR0",
	TPR1:         "SDR_TPR1",
	TPR2:         "SDR_TPR2",
	ZQCR0:        "SDR_ZQCR0",
	ZQSR:         "SDR_ZQSR",
	IDCR:         "SDR_IDCR",
	MR:           "SDR_MR",
	EMR:          "SDR_EMR",
	EMR2:         "SDR_EMR2",
	EMR3:         "SDR_EMR3",
	MCR:          "SDR_MCR",
	PPWRSCTL:     "SDR_PPWRSCTL",
	CFSR:         "SDR_CFSR",
	CCMPLL5:      "CCM_PLL5",
	CCMAHBGate0:  "CCM_AHB_GATE0",
	CCMSDRAMGate: "CCM_SDRAM_GATE",
}

func init() {
	for i := 0; i <= NumSlaveDLLs; i++ {
		regNames[DLLCR(i)] = fmt.Sprintf("SDR_DLLCR%d", i)
	}

	for i := 0; i < NumHostPorts; i++ {
		regNames[HPCR(i)] = fmt.Sprintf("SDR_HPCR%d", i)
	}
}

// Name returns the register name of addr, or its hex address if the register
// is not part of the known map.
func Name(addr Addr) string {
	if n, ok := regNames[addr]; ok {
		return n
	}

	return addr.String()
}

// Known returns the addresses of all named registers in ascending order.
func Known() []Addr {
	addrs := make([]Addr, 0, len(regNames))
	for a := range regNames {
		addrs = append(addrs, a)
	}

	sort.Slice(addrs, func(i, j int) bool { return addrs[i] < addrs[j] })

	return addrs
}
