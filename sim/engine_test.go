package sim

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("VTimeInSec", func() {
	It("should convert from durations", func() {
		Expect(Seconds(2 * time.Second)).To(Equal(VTimeInSec(2)))
		Expect(Seconds(1500 * time.Millisecond)).To(Equal(VTimeInSec(1.5)))
		Expect(Seconds(0)).To(Equal(VTimeInSec(0)))
	})

	It("should convert to durations", func() {
		Expect(VTimeInSec(3).Duration()).To(Equal(3 * time.Second))
		Expect(VTimeInSec(0.25).Duration()).To(Equal(250 * time.Millisecond))
		Expect(VTimeInSec(0.1 + 0.2).Duration()).
			To(Equal(300 * time.Millisecond))
	})

	It("should drive timeouts with durations", func() {
		engine := NewSerialEngine()
		defer engine.Close()

		var fired []time.Duration

		for _, d := range []time.Duration{time.Second, 500 * time.Millisecond} {
			engine.Timeout(Seconds(d)).AddCallback(func(*Event) {
				fired = append(fired, engine.Now().Duration())
			})
		}

		Expect(engine.Run()).To(Succeed())
		Expect(fired).To(Equal([]time.Duration{
			500 * time.Millisecond,
			time.Second,
		}))
	})
})
