package sim

import (
	"math"
	"math/rand"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/onsi/gomega/gmeasure"
	"go.uber.org/mock/gomock"

	"github.com/sarchlab/eventsim/hooking"
)

var _ = Describe("SerialEngine", func() {
	var (
		mockCtrl *gomock.Controller
		engine   *SerialEngine
	)

	BeforeEach(func() {
		mockCtrl = gomock.NewController(GinkgoT())
		engine = NewSerialEngine()
	})

	AfterEach(func() {
		engine.Close()
		mockCtrl.Finish()
	})

	record := func(order *[]string, label string) func(*Event) {
		return func(*Event) { *order = append(*order, label) }
	}

	It("should start at time zero", func() {
		Expect(engine.Now()).To(Equal(VTimeInSec(0)))
		Expect(engine.Run()).To(Succeed())
		Expect(engine.Now()).To(Equal(VTimeInSec(0)))
	})

	It("should dispatch in time order", func() {
		order := []string{}
		engine.Timeout(4).AddCallback(record(&order, "t4"))
		engine.Timeout(2).AddCallback(record(&order, "t2"))
		engine.Timeout(3).AddCallback(record(&order, "t3"))

		Expect(engine.PendingTriggers()).To(Equal(3))
		next, ok := engine.Peek()
		Expect(ok).To(BeTrue())
		Expect(next).To(Equal(VTimeInSec(2)))

		Expect(engine.Run()).To(Succeed())

		Expect(order).To(Equal([]string{"t2", "t3", "t4"}))
		Expect(engine.Now()).To(Equal(VTimeInSec(4)))
		Expect(engine.PendingTriggers()).To(Equal(0))
	})

	It("should break time ties by scheduling order", func() {
		order := []string{}
		engine.Timeout(1).AddCallback(record(&order, "a"))
		engine.Timeout(1).AddCallback(record(&order, "b"))
		engine.Timeout(1).AddCallback(record(&order, "c"))

		Expect(engine.Run()).To(Succeed())

		Expect(order).To(Equal([]string{"a", "b", "c"}))
	})

	It("should run effects after their cause at the same time", func() {
		order := []string{}
		cause := engine.Timeout(1)
		other := engine.Timeout(1)
		cause.AddCallback(func(*Event) {
			order = append(order, "cause")
			effect := engine.NewEvent()
			effect.AddCallback(record(&order, "effect"))
			Expect(effect.Trigger()).To(Succeed())
		})
		other.AddCallback(record(&order, "other"))

		Expect(engine.Run()).To(Succeed())

		Expect(order).To(Equal([]string{"cause", "other", "effect"}))
	})

	It("should run until a horizon", func() {
		order := []string{}
		engine.Timeout(1).AddCallback(record(&order, "t1"))
		engine.Timeout(2).AddCallback(record(&order, "t2"))
		late := engine.Timeout(3)
		late.AddCallback(record(&order, "t3"))

		Expect(engine.RunUntil(2)).To(Succeed())

		Expect(order).To(Equal([]string{"t1", "t2"}))
		Expect(engine.Now()).To(Equal(VTimeInSec(2)))
		Expect(late.Pending()).To(BeTrue())
		Expect(engine.PendingTriggers()).To(Equal(1))

		Expect(engine.RunUntil(2.5)).To(Succeed())
		Expect(engine.Now()).To(Equal(VTimeInSec(2.5)))

		Expect(engine.Run()).To(Succeed())
		Expect(order).To(Equal([]string{"t1", "t2", "t3"}))
	})

	It("should not run backwards", func() {
		Expect(engine.RunUntil(3)).To(Succeed())
		Expect(engine.RunUntil(1)).To(MatchError(ErrTimeRewind))
		Expect(engine.Now()).To(Equal(VTimeInSec(3)))
	})

	DescribeTable("should panic on delays that are negative or not finite",
		func(delay float64) {
			Expect(func() { engine.Timeout(VTimeInSec(delay)) }).
				To(PanicWith(MatchRegexp("^sim: negative timeout delay")))
			Expect(engine.PendingTriggers()).To(BeZero())
		},
		Entry("negative", -1.0),
		Entry("NaN", math.NaN()),
		Entry("positive infinity", math.Inf(1)),
		Entry("negative infinity", math.Inf(-1)),
	)

	It("should step one trigger at a time", func() {
		engine.Timeout(1)
		engine.Timeout(2)

		Expect(engine.Step()).To(BeTrue())
		Expect(engine.Now()).To(Equal(VTimeInSec(1)))
		Expect(engine.Step()).To(BeTrue())
		Expect(engine.Now()).To(Equal(VTimeInSec(2)))
		Expect(engine.Step()).To(BeFalse())

		_, ok := engine.Peek()
		Expect(ok).To(BeFalse())
	})

	It("should invoke hooks around every dispatch", func() {
		hook := NewMockHook(mockCtrl)
		engine.AcceptHook(hook)

		evt := engine.Timeout(5)
		evt.AddCallback(func(*Event) {})

		gomock.InOrder(
			hook.EXPECT().Func(hooking.HookCtx{
				Domain: engine,
				Pos:    HookPosBeforeEvent,
				Item:   evt,
				Detail: Dispatch{Time: 5, Seq: 1, Callbacks: 1},
			}),
			hook.EXPECT().Func(hooking.HookCtx{
				Domain: engine,
				Pos:    HookPosAfterEvent,
				Item:   evt,
				Detail: Dispatch{Time: 5, Seq: 1, Callbacks: 1},
			}),
		)

		Expect(engine.Run()).To(Succeed())
	})

	It("should mark late continuations in the hook detail", func() {
		evt := engine.NewEvent()
		Expect(evt.Trigger()).To(Succeed())
		Expect(engine.Run()).To(Succeed())

		hook := NewMockHook(mockCtrl)
		engine.AcceptHook(hook)
		hook.EXPECT().Func(gomock.Any()).Do(func(ctx hooking.HookCtx) {
			Expect(ctx.Item).To(BeIdenticalTo(evt))
			Expect(ctx.Detail.(Dispatch).Late).To(BeTrue())
		}).Times(2)

		evt.AddCallback(func(*Event) {})
		Expect(engine.Run()).To(Succeed())
	})

	It("should not dispatch aborted timeouts to hooks", func() {
		hook := NewMockHook(mockCtrl)
		engine.AcceptHook(hook)
		hook.EXPECT().Func(gomock.Any()).Times(0)

		Expect(engine.Timeout(1).Abort()).To(Succeed())
		Expect(engine.Run()).To(Succeed())
	})

	It("should pause and continue", func() {
		engine.Timeout(1)

		engine.Pause()
		engine.Pause()

		done := make(chan error)
		go func() { done <- engine.Run() }()
		Consistently(done).ShouldNot(Receive())

		engine.Continue()
		engine.Continue()
		Eventually(done).Should(Receive(BeNil()))
		Expect(engine.Now()).To(Equal(VTimeInSec(1)))
	})

	It("should not run after close", func() {
		engine.Close()
		engine.Close()

		Expect(engine.Run()).To(MatchError(ErrEngineClosed))
		Expect(engine.RunUntil(1)).To(MatchError(ErrEngineClosed))
		Expect(engine.Step()).To(BeFalse())
	})

	It("should keep independent engines apart", func() {
		other := NewSerialEngine()
		defer other.Close()

		engine.Timeout(3)
		other.Timeout(7)

		Expect(engine.Run()).To(Succeed())
		Expect(engine.Now()).To(Equal(VTimeInSec(3)))
		Expect(other.Now()).To(Equal(VTimeInSec(0)))
		Expect(engine.NewEvent().ID()).To(Equal(other.NewEvent().ID()))
	})

	It("measure dispatch speed", func() {
		experiment := gmeasure.NewExperiment("Serial Engine Dispatch Speed")
		AddReportEntry(experiment.Name, experiment)

		experiment.MeasureDuration("runtime", func() {
			for i := 0; i < 10000; i++ {
				delay := VTimeInSec(float64(rand.Uint64()%10) * 0.01)
				engine.Timeout(delay).AddCallback(func(*Event) {})
			}

			Expect(engine.Run()).To(Succeed())
		})
	})
})
