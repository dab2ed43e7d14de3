package sim

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Conditions", func() {
	var engine *SerialEngine

	BeforeEach(func() {
		engine = NewSerialEngine()
	})

	AfterEach(func() {
		engine.Close()
	})

	awaiter := func(ev Awaitable, finishedAt *VTimeInSec) {
		engine.Process(func(p *Process) {
			Expect(p.Now()).To(Equal(VTimeInSec(0)))
			p.Wait(ev)
			*finishedAt = p.Now()
		})
	}

	It("should not fire any-of when no member is ever processed", func() {
		finishedAt := VTimeInSec(-1)
		awaiter(engine.AnyOf(engine.NewEvent(), engine.NewEvent()), &finishedAt)

		Expect(engine.Run()).To(Succeed())
		Expect(finishedAt).To(Equal(VTimeInSec(-1)))
	})

	It("should not fire all-of when one member is never processed", func() {
		finishedAt := VTimeInSec(-1)
		awaiter(engine.AllOf(engine.Timeout(1), engine.NewEvent()), &finishedAt)

		Expect(engine.Run()).To(Succeed())
		Expect(finishedAt).To(Equal(VTimeInSec(-1)))
		Expect(engine.Now()).To(Equal(VTimeInSec(1)))
	})

	It("should not count aborted members", func() {
		member := engine.Timeout(1)
		composite := engine.AnyOf(member)
		Expect(member.Abort()).To(Succeed())

		Expect(engine.Run()).To(Succeed())
		Expect(composite.Pending()).To(BeTrue())
	})

	It("should treat empty conditions as vacuous", func() {
		all := engine.AllOf()
		first := engine.AnyOf()

		Expect(engine.Run()).To(Succeed())
		Expect(all.Processed()).To(BeTrue())
		Expect(first.Pending()).To(BeTrue())
	})

	DescribeTable("boolean logic",
		func(a VTimeInSec, combine func(a, b *Event) *Event, target VTimeInSec) {
			evA := engine.Timeout(a)
			evB := engine.Timeout(3 - a)
			finishedAt := VTimeInSec(-1)
			awaiter(combine(evA, evB), &finishedAt)

			Expect(engine.Run()).To(Succeed())
			Expect(finishedAt).To(Equal(target))
		},
		Entry("any-of fires with the first member, a first",
			VTimeInSec(1),
			func(a, b *Event) *Event { return engine.AnyOf(a, b) },
			VTimeInSec(1)),
		Entry("any-of fires with the first member, b first",
			VTimeInSec(2),
			func(a, b *Event) *Event { return engine.AnyOf(a, b) },
			VTimeInSec(1)),
		Entry("or is any-of, a first",
			VTimeInSec(1),
			func(a, b *Event) *Event { return a.Or(b) },
			VTimeInSec(1)),
		Entry("or is any-of, b first",
			VTimeInSec(2),
			func(a, b *Event) *Event { return a.Or(b) },
			VTimeInSec(1)),
		Entry("all-of fires with the last member, a first",
			VTimeInSec(1),
			func(a, b *Event) *Event { return engine.AllOf(a, b) },
			VTimeInSec(2)),
		Entry("all-of fires with the last member, b first",
			VTimeInSec(2),
			func(a, b *Event) *Event { return engine.AllOf(a, b) },
			VTimeInSec(2)),
		Entry("and is all-of, a first",
			VTimeInSec(1),
			func(a, b *Event) *Event { return a.And(b) },
			VTimeInSec(2)),
		Entry("and is all-of, b first",
			VTimeInSec(2),
			func(a, b *Event) *Event { return a.And(b) },
			VTimeInSec(2)),
	)

	It("should accept processes and value events as members", func() {
		worker := engine.Process(func(p *Process) {
			p.Wait(engine.Timeout(4))
		})
		value := TimeoutWithValue(engine, 2, "x")

		finishedAt := VTimeInSec(-1)
		awaiter(engine.AllOf(worker, value), &finishedAt)

		Expect(engine.Run()).To(Succeed())
		Expect(finishedAt).To(Equal(VTimeInSec(4)))
	})
})
