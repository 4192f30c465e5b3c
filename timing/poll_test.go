package timing

import (
	"errors"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Poller", func() {
	var (
		delayer *CountingDelayer
		poller  *Poller
	)

	BeforeEach(func() {
		delayer = &CountingDelayer{}
		poller = &Poller{Delayer: delayer, MaxPolls: 10, Interval: 4}
	})

	It("should return as soon as the condition holds", func() {
		calls := 0

		err := poller.WaitUntil("bit", func() bool {
			calls++
			return calls == 3
		})

		Expect(err).NotTo(HaveOccurred())
		Expect(calls).To(Equal(3))
		Expect(delayer.Loops()).To(Equal(uint64(8)))
	})

	It("should time out with a named error", func() {
		err := poller.WaitUntil("busy clear", func() bool { return false })

		Expect(errors.Is(err, ErrHardwareTimeout)).To(BeTrue())

		var te *TimeoutError
		Expect(errors.As(err, &te)).To(BeTrue())
		Expect(te.What).To(Equal("busy clear"))
		Expect(te.Polls).To(Equal(10))
		Expect(err.Error()).To(ContainSubstring("busy clear"))
	})

	It("should fall back to the default budget", func() {
		poller.MaxPolls = 0
		calls := 0

		err := poller.WaitUntil("x", func() bool {
			calls++
			return calls > 100
		})

		Expect(err).NotTo(HaveOccurred())
	})
})

var _ = Describe("Freq", func() {
	It("should convert durations to loops", func() {
		Expect((1 * MHz).Loops(time.Millisecond)).To(Equal(uint32(1000)))
		Expect((1 * MHz).Loops(0)).To(Equal(uint32(0)))
		Expect((1 * GHz).Loops(time.Hour)).To(Equal(^uint32(0)))
	})

	It("should convert loops to durations", func() {
		Expect((1 * MHz).Duration(1000)).To(Equal(time.Millisecond))
	})

	It("should panic on zero frequency", func() {
		Expect(func() { Freq(0).Period() }).To(Panic())
	})
})

var _ = Describe("SpinDelayer", func() {
	It("should wait at least the requested time", func() {
		d := NewSpinDelayer(1 * MHz)
		start := time.Now()

		d.Delay(2000)

		Expect(time.Since(start)).To(BeNumerically(">=", 2*time.Millisecond))
	})
})
