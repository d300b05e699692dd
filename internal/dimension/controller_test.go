package dimension_test

import (
	"bytes"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/dimcalc/internal/dimension"
	"github.com/san-kum/dimcalc/pkg/logger"
)

const eps = 1e-9

var _ = Describe("Controller", func() {
	var ctrl *dimension.Controller

	BeforeEach(func() {
		ctrl = dimension.NewController(dimension.NewState())
	})

	It("starts as a 10x10x10 cube with nothing locked", func() {
		s := ctrl.Snapshot()
		Expect(s.Length).To(Equal(10.0))
		Expect(s.Width).To(Equal(10.0))
		Expect(s.Height).To(Equal(10.0))
		Expect(s.Volume).To(Equal(1000.0))
		Expect(s.Locks).To(Equal(dimension.NoLocks))
	})

	It("recomputes volume when length changes", func() {
		s := ctrl.SetLength(20)
		Expect(s).To(Equal(dimension.State{Length: 20, Width: 10, Height: 10, Volume: 2000}))
	})

	Context("with volume locked", func() {
		BeforeEach(func() {
			ctrl.ToggleLock(dimension.Volume)
		})

		It("solves height when length changes", func() {
			s := ctrl.SetLength(5)
			Expect(s.Volume).To(Equal(1000.0))
			Expect(s.Width).To(Equal(10.0))
			Expect(s.Height).To(BeNumerically("~", 20, eps))
		})

		It("ignores writes to volume", func() {
			s := ctrl.SetVolume(42)
			Expect(s.Volume).To(Equal(1000.0))
		})

		It("keeps the product when one of length or width is also locked", func() {
			ctrl.ToggleLock(dimension.Length)
			s := ctrl.SetWidth(8)
			Expect(s.Length * s.Width * s.Height).To(BeNumerically("~", s.Volume, eps*s.Volume))
			Expect(s.Height).To(BeNumerically("~", 12.5, eps))
		})

		It("disables the volume control", func() {
			Expect(ctrl.Disabled(dimension.Volume)).To(BeTrue())
			Expect(ctrl.Disabled(dimension.Length)).To(BeFalse())
		})
	})

	Context("with length locked", func() {
		BeforeEach(func() {
			ctrl.ToggleLock(dimension.Length)
		})

		It("solves height from the new volume", func() {
			s := ctrl.SetVolume(500)
			Expect(s.Length).To(Equal(10.0))
			Expect(s.Width).To(Equal(10.0))
			Expect(s.Height).To(BeNumerically("~", 500.0/(10*10), eps))
		})

		It("ignores writes to length", func() {
			s := ctrl.SetLength(50)
			Expect(s.Length).To(Equal(10.0))
			Expect(s.Volume).To(Equal(1000.0))
		})
	})

	It("restores locks after toggling twice", func() {
		before := ctrl.SetHeight(7)
		ctrl.ToggleLock(dimension.Width)
		after := ctrl.ToggleLock(dimension.Width)
		Expect(after).To(Equal(before))
	})

	It("retains height when width and height are zero", func() {
		ctrl = dimension.NewController(dimension.State{Length: 4, Width: 0, Height: 0, Volume: 0})
		s, err := ctrl.DispatchResult(dimension.SetEvent(dimension.Volume, 80))
		Expect(err).To(MatchError(dimension.ErrUndefinedRecomputation))
		Expect(math.IsNaN(s.Height)).To(BeFalse())
		Expect(math.IsInf(s.Height, 0)).To(BeFalse())
		Expect(s.Height).To(Equal(0.0))
	})

	It("retains the previous value on non-finite input", func() {
		s := ctrl.SetWidth(math.NaN())
		Expect(s).To(Equal(dimension.NewState()))
		s = ctrl.SetWidth(math.Inf(-1))
		Expect(s).To(Equal(dimension.NewState()))
	})

	It("notifies observers with both sides of every event", func() {
		var seen []dimension.Event
		var lastErr error
		ctrl.Observe(func(ev dimension.Event, before, after dimension.State, err error) {
			seen = append(seen, ev)
			lastErr = err
			if ev.Kind == dimension.EventSet && err == nil {
				Expect(after.Get(ev.Quantity)).To(Equal(ev.Value))
				Expect(before).NotTo(Equal(after))
			}
		})

		ctrl.SetLength(2)
		ctrl.ToggleLock(dimension.Length)
		ctrl.SetLength(3)

		Expect(seen).To(HaveLen(3))
		Expect(lastErr).To(MatchError(dimension.ErrLocked))
	})

	It("resets to the initial state", func() {
		ctrl.SetLength(30)
		ctrl.ToggleLock(dimension.Height)
		Expect(ctrl.Reset()).To(Equal(dimension.NewState()))
	})

	It("logs absorbed updates at debug level", func() {
		var buf bytes.Buffer
		l, err := logger.NewWriter(logger.Config{Level: "debug", Format: "json"}, &buf)
		Expect(err).NotTo(HaveOccurred())

		ctrl = dimension.NewController(dimension.NewState(), dimension.WithLogger(l))
		ctrl.ToggleLock(dimension.Height)
		ctrl.SetHeight(3)

		Expect(buf.String()).To(ContainSubstring("update absorbed"))
		Expect(buf.String()).To(ContainSubstring("set:height=3"))
	})
})
