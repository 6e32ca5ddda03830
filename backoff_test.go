package resilient_test

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	resilient "github.com/JohnPlummer/jp-go-resilient"
)

var _ = Describe("DelayAt", func() {
	Context("constant strategy", func() {
		It("returns the base delay for every attempt index", func() {
			config := &resilient.RetryConfig{
				Strategy: resilient.BackoffConstant,
				Delay:    250 * time.Millisecond,
			}

			for i := 0; i < 10; i++ {
				Expect(config.DelayAt(i)).To(Equal(250 * time.Millisecond))
			}
		})
	})

	Context("exponential strategy", func() {
		DescribeTable("computes min(delay * multiplier^i, cap)",
			func(index int, expected time.Duration) {
				config := &resilient.RetryConfig{
					Strategy:   resilient.BackoffExponential,
					Delay:      100 * time.Millisecond,
					Multiplier: 2.0,
					MaxDelay:   2 * time.Second,
				}
				Expect(config.DelayAt(index)).To(Equal(expected))
			},
			Entry("index 0", 0, 100*time.Millisecond),
			Entry("index 1", 1, 200*time.Millisecond),
			Entry("index 2", 2, 400*time.Millisecond),
			Entry("index 3", 3, 800*time.Millisecond),
			Entry("index 4", 4, 1600*time.Millisecond),
			Entry("index 5 hits the cap", 5, 2*time.Second),
			Entry("index 6 stays at the cap", 6, 2*time.Second),
		)

		It("grows without bound when no cap is set", func() {
			config := &resilient.RetryConfig{
				Strategy:   resilient.BackoffExponential,
				Delay:      time.Second,
				Multiplier: 2.0,
			}

			Expect(config.DelayAt(10)).To(Equal(1024 * time.Second))
		})

		It("supports non-doubling multipliers", func() {
			config := &resilient.RetryConfig{
				Strategy:   resilient.BackoffExponential,
				Delay:      100 * time.Millisecond,
				Multiplier: 1.5,
			}

			Expect(config.DelayAt(0)).To(Equal(100 * time.Millisecond))
			Expect(config.DelayAt(1)).To(Equal(150 * time.Millisecond))
			Expect(config.DelayAt(2)).To(Equal(225 * time.Millisecond))
		})

		It("defaults the multiplier to 2.0 when unset", func() {
			config := &resilient.RetryConfig{
				Strategy: resilient.BackoffExponential,
				Delay:    100 * time.Millisecond,
			}

			Expect(config.DelayAt(2)).To(Equal(400 * time.Millisecond))
		})
	})

	Context("fibonacci strategy", func() {
		DescribeTable("follows the fibonacci sequence from the base delay",
			func(index int, expected time.Duration) {
				config := &resilient.RetryConfig{
					Strategy: resilient.BackoffFibonacci,
					Delay:    time.Second,
				}
				Expect(config.DelayAt(index)).To(Equal(expected))
			},
			Entry("index 0", 0, 1*time.Second),
			Entry("index 1", 1, 1*time.Second),
			Entry("index 2", 2, 2*time.Second),
			Entry("index 3", 3, 3*time.Second),
			Entry("index 4", 4, 5*time.Second),
			Entry("index 5", 5, 8*time.Second),
		)

		It("clamps to the cap", func() {
			config := &resilient.RetryConfig{
				Strategy: resilient.BackoffFibonacci,
				Delay:    time.Second,
				MaxDelay: 4 * time.Second,
			}

			Expect(config.DelayAt(4)).To(Equal(4 * time.Second))
			Expect(config.DelayAt(9)).To(Equal(4 * time.Second))
		})
	})

	Context("degenerate inputs", func() {
		It("treats a negative index as index zero", func() {
			config := &resilient.RetryConfig{
				Strategy:   resilient.BackoffExponential,
				Delay:      100 * time.Millisecond,
				Multiplier: 2.0,
			}

			Expect(config.DelayAt(-3)).To(Equal(100 * time.Millisecond))
		})

		It("returns zero for a non-positive base delay", func() {
			config := &resilient.RetryConfig{
				Strategy: resilient.BackoffConstant,
				Delay:    -time.Second,
			}

			Expect(config.DelayAt(0)).To(Equal(time.Duration(0)))
		})
	})
})
