package caliper_test

import (
	"time"

	"github.com/bsm/caliper"
	"github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = ginkgo.Describe("Facade", func() {
	ginkgo.BeforeEach(func() {
		caliper.ResetDefaultRegistry()
	})

	ginkgo.It("should fetch-or-create a named counter", func() {
		c1, err := caliper.CounterFor("requests.total")
		Expect(err).NotTo(HaveOccurred())

		c2, err := caliper.CounterFor("requests.total")
		Expect(err).NotTo(HaveOccurred())
		Expect(c2).To(BeIdenticalTo(c1))
	})

	ginkgo.It("should auto-name an unnamed metric", func() {
		g1, err := caliper.GaugeFor("")
		Expect(err).NotTo(HaveOccurred())

		g2, err := caliper.GaugeFor("")
		Expect(err).NotTo(HaveOccurred())
		Expect(g2).NotTo(BeIdenticalTo(g1))
	})

	ginkgo.It("should reject re-requesting a name under a different type", func() {
		_, err := caliper.CounterFor("mixed")
		Expect(err).NotTo(HaveOccurred())

		_, err = caliper.GaugeFor("mixed")
		Expect(err).To(MatchError(caliper.ErrDuplicateName))
	})

	ginkgo.It("should wire a histogram end to end", func() {
		h, err := caliper.HistogramFor("latency")
		Expect(err).NotTo(HaveOccurred())

		for _, v := range []float64{1, 2, 3, 4, 5} {
			h.Update(v)
		}

		Expect(h.Count()).To(BeEquivalentTo(5))
		p95, err := h.Snapshot().GetValue(0.95)
		Expect(err).NotTo(HaveOccurred())
		Expect(p95).To(BeNumerically(">", 0))
	})

	ginkgo.It("should bind a custom Registry's clock to its fetched meters", func() {
		clock := caliper.NewFakeClock(time.Unix(0, 0))
		registry := caliper.NewRegistry(caliper.WithClock(clock))

		meter, err := registry.MeterFor("events")
		Expect(err).NotTo(HaveOccurred())

		meter.Mark(1)
		clock.Advance(20 * time.Second)
		meter.Mark(1)

		Expect(meter.Count()).To(BeEquivalentTo(2))
		// The 20s advance on the fake clock triggered catch-up ticks.
		Expect(meter.Rate1()).To(BeNumerically(">", 0))
	})

	ginkgo.It("should back a custom Registry's histograms with a configured reservoir factory", func() {
		registry := caliper.NewRegistry(caliper.WithReservoirFactory(func() caliper.Reservoir {
			return caliper.NewUniformReservoir(5, caliper.NewMathRandSource(1))
		}))

		h, err := registry.HistogramFor("sizes")
		Expect(err).NotTo(HaveOccurred())

		for i := 0; i < 20; i++ {
			h.Update(float64(i))
		}
		Expect(h.Count()).To(BeEquivalentTo(20))
		Expect(h.Snapshot().Len()).To(Equal(5))
	})
})
