package retrain_test

import (
	"errors"
	"time"

	"github.com/jpillora/backoff"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/mock/gomock"

	"github.com/sarchlab/dramctl/dramc"
	"github.com/sarchlab/dramctl/emu"
	"github.com/sarchlab/dramctl/hooking"
	"github.com/sarchlab/dramctl/hostport"
	"github.com/sarchlab/dramctl/regbank"
	"github.com/sarchlab/dramctl/regs"
	"github.com/sarchlab/dramctl/retrain"
	"github.com/sarchlab/dramctl/timing"
)

// busClockResets counts the reset-and-reconfigure cycles seen on the bus.
func busClockResets(r *regbank.Recorder) int {
	n := 0
	for _, v := range r.WritesTo(regs.CCMAHBGate0) {
		if v&regs.CCMAHBSDRAMGate.Mask() == 0 {
			n++
		}
	}

	return n
}

var _ = Describe("Sequencer", func() {
	var (
		mockCtrl *gomock.Controller
		scanner  *retrain.MockReadPipeScanner
		platform *emu.Platform
		recorder *regbank.Recorder
		ctrl     *dramc.Controller
	)

	BeforeEach(func() {
		mockCtrl = gomock.NewController(GinkgoT())
		scanner = retrain.NewMockReadPipeScanner(mockCtrl)
		platform = emu.MakeBuilder().Build("Board")
		recorder = regbank.NewRecorder(platform.Bank)
		ctrl = dramc.MakeBuilder().WithBus(platform.Bank).Build("DRAMC")
	})

	AfterEach(func() {
		mockCtrl.Finish()
	})

	build := func(p retrain.Policy) *retrain.Sequencer {
		return retrain.MakeBuilder().
			WithController(ctrl).
			WithScanner(scanner).
			WithPolicy(p).
			Build("Retrain")
	}

	It("should run exactly k cycles when the k-th scan passes", func() {
		gomock.InOrder(
			scanner.EXPECT().Scan().Return(false, nil).Times(3),
			scanner.EXPECT().Scan().Return(true, nil),
		)

		res, err := build(retrain.Policy{MaxAttempts: 8}).Run()

		Expect(err).NotTo(HaveOccurred())
		Expect(res.Attempts).To(Equal(4))
		Expect(busClockResets(recorder)).To(Equal(4))
	})

	It("should pass on the first attempt", func() {
		scanner.EXPECT().Scan().Return(true, nil)

		res, err := build(retrain.DefaultPolicy()).Run()

		Expect(err).NotTo(HaveOccurred())
		Expect(res.Attempts).To(Equal(1))
		Expect(ctrl.State()).To(Equal(dramc.StateNormal))
	})

	It("should count a scan error as a failed attempt", func() {
		gomock.InOrder(
			scanner.EXPECT().Scan().Return(false, errors.New("no window")),
			scanner.EXPECT().Scan().Return(true, nil),
		)

		res, err := build(retrain.Policy{MaxAttempts: 3}).Run()

		Expect(err).NotTo(HaveOccurred())
		Expect(res.Attempts).To(Equal(2))
	})

	It("should give up after the attempt bound", func() {
		scanner.EXPECT().Scan().Return(false, nil).Times(3)
		seq := build(retrain.Policy{MaxAttempts: 3})

		var failed []hooking.HookCtx
		seq.AcceptHook(hooking.HookFunc(func(ctx hooking.HookCtx) {
			if ctx.Pos == retrain.HookPosRetrainFailed {
				failed = append(failed, ctx)
			}
		}))

		res, err := seq.Run()

		Expect(err).To(MatchError(retrain.ErrRetrainingExhausted))
		var exhausted *retrain.ExhaustedError
		Expect(errors.As(err, &exhausted)).To(BeTrue())
		Expect(exhausted.Attempts).To(Equal(3))
		Expect(res.Attempts).To(Equal(3))
		Expect(busClockResets(recorder)).To(Equal(3))
		Expect(failed).To(HaveLen(1))
	})

	It("should keep the last scan error when giving up", func() {
		scanErr := errors.New("no window")
		scanner.EXPECT().Scan().Return(false, scanErr).Times(2)

		_, err := build(retrain.Policy{MaxAttempts: 2}).Run()

		Expect(err).To(MatchError(retrain.ErrRetrainingExhausted))
		Expect(err.Error()).To(ContainSubstring("no window"))
	})

	It("should sequence DLLs, init and pads before the scan", func() {
		scanAt := -1
		scanner.EXPECT().Scan().DoAndReturn(func() (bool, error) {
			scanAt = len(recorder.Accesses())
			return true, nil
		})

		_, err := build(retrain.DefaultPolicy()).Run()
		Expect(err).NotTo(HaveOccurred())

		master := recorder.Find(0, regbank.IsWriteOf(regs.DLLCR(0), regs.DLLOpen.IsSet))
		slave := recorder.Find(0, regbank.IsWriteOf(regs.DLLCR(1),
			func(uint32) bool { return true }))
		initSet := recorder.Find(slave, regbank.IsWriteOf(regs.CCR, regs.CCRInit.IsSet))
		initDone := recorder.Find(initSet, regbank.IsReadOf(regs.CCR,
			func(v uint32) bool { return !regs.CCRInit.IsSet(v) }))
		release := recorder.Find(0, regbank.IsWriteOf(regs.PPWRSCTL,
			func(v uint32) bool { return v == regs.PadReleasePattern }))

		Expect(master).To(BeNumerically(">=", 0))
		Expect(master).To(BeNumerically("<", slave))
		Expect(initSet).To(BeNumerically(">", slave))
		Expect(initDone).To(BeNumerically(">", initSet))
		Expect(release).To(BeNumerically(">", initDone))
		Expect(scanAt).To(BeNumerically(">", release))
	})

	It("should replay the captured configuration", func() {
		scanner.EXPECT().Scan().Return(true, nil)
		want := retrain.Capture(platform.Bank)
		platform.Bank.Poke(regs.TPR0, 0)
		platform.Bank.Poke(regs.MR, 0)
		platform.Bank.Poke(regs.HPCR(16), 0)

		res, err := build(retrain.DefaultPolicy()).Run()

		Expect(err).NotTo(HaveOccurred())
		Expect(res.Context.TPR0).To(BeZero())
		Expect(platform.Bank.Peek(regs.TPR1)).To(Equal(want.TPR1))
		Expect(platform.Bank.Peek(regs.EMR)).To(Equal(want.EMR))
		Expect(platform.Bank.Peek(regs.ZQCR0)).To(Equal(want.ZQControl()))
		Expect(ctrl.SlaveDelayCodes()).To(Equal(want.DLLCodes))
		Expect(ctrl.Gate().CaptureTable()).To(Equal(hostport.DefaultTable))
	})

	It("should wait the backoff between failed attempts", func() {
		loops := func(p retrain.Policy) uint64 {
			board := emu.MakeBuilder().WithFailingScans(2).Build("Board")
			delayer := &timing.CountingDelayer{}
			c := dramc.MakeBuilder().
				WithBus(board.Bank).
				WithDelayer(delayer).
				Build("DRAMC")
			_, err := retrain.MakeBuilder().
				WithController(c).
				WithScanner(board.Scanner).
				WithPolicy(p).
				WithLoopFreq(timing.MHz).
				Build("Retrain").
				Run()
			Expect(err).NotTo(HaveOccurred())
			Expect(board.Scanner.Calls()).To(Equal(3))

			return delayer.Loops()
		}

		plain := loops(retrain.Policy{MaxAttempts: 4})
		withBackoff := loops(retrain.Policy{
			MaxAttempts: 4,
			Backoff: &backoff.Backoff{
				Min:    time.Millisecond,
				Max:    time.Millisecond,
				Factor: 2,
			},
		})

		Expect(withBackoff - plain).To(Equal(uint64(2000)))
	})
})

var _ = Describe("Context", func() {
	It("should combine the ZQ calibration with the saved divider", func() {
		ctx := retrain.Context{ZQSR: 0x0003ffe7, ZQCR0: 0x27b0_1234}

		Expect(ctx.ZQControl()).To(Equal(uint32(0x77b3_ffe7)))
	})

	It("should pack the slave delay codes", func() {
		platform := emu.MakeBuilder().Build("Board")

		ctx := retrain.Capture(platform.Bank)

		Expect(ctx.DLLCodes).To(Equal(uint32(0x8778)))
		Expect(ctx.TPR0).To(Equal(uint32(0x42d899b7)))
	})
})
