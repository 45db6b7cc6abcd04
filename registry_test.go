package caliper_test

import (
	"errors"

	"github.com/bsm/caliper"
	"github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = ginkgo.Describe("Registry", func() {
	var subject *caliper.Registry

	ginkgo.BeforeEach(func() {
		subject = caliper.NewRegistry()
	})

	ginkgo.It("should register and query a leaf metric", func() {
		c := caliper.NewCounter()
		Expect(subject.Register("a.b.c", c)).To(Succeed())

		got, err := subject.Query("a.b.c")
		Expect(err).NotTo(HaveOccurred())
		Expect(got).To(BeIdenticalTo(c))
	})

	ginkgo.It("should expose an interior subtree on a prefix query", func() {
		Expect(subject.Register("a.b.c", caliper.NewCounter())).To(Succeed())

		got, err := subject.Query("a.b")
		Expect(err).NotTo(HaveOccurred())
		Expect(got).To(BeAssignableToTypeOf(map[string]interface{}{}))
	})

	ginkgo.It("should return nothing for an absent path", func() {
		got, err := subject.Query("x")
		Expect(err).NotTo(HaveOccurred())
		Expect(got).To(BeNil())
	})

	ginkgo.It("should reject registering over an existing subtree", func() {
		Expect(subject.Register("a.b.c", caliper.NewCounter())).To(Succeed())

		err := subject.Register("a.b", caliper.NewCounter())
		Expect(errors.Is(err, caliper.ErrDuplicateName)).To(BeTrue())
	})

	ginkgo.It("should reject registering over an existing leaf", func() {
		Expect(subject.Register("a.b", caliper.NewCounter())).To(Succeed())

		err := subject.Register("a.b", caliper.NewGauge())
		Expect(errors.Is(err, caliper.ErrDuplicateName)).To(BeTrue())
	})

	ginkgo.DescribeTable("should reject invalid labels",
		func(name string) {
			err := subject.Register(name, caliper.NewCounter())
			Expect(errors.Is(err, caliper.ErrInvalidLabel)).To(BeTrue())
		},

		ginkgo.Entry("leading digit", "1abc"),
		ginkgo.Entry("hyphen", "a-b"),
		ginkgo.Entry("space", "a b"),
		ginkgo.Entry("nested leading digit", "a.2b"),
	)

	ginkgo.It("should reject an empty name", func() {
		err := subject.Register("", caliper.NewCounter())
		Expect(errors.Is(err, caliper.ErrInvalidName)).To(BeTrue())
	})
})

var _ = ginkgo.Describe("DefaultRegistry", func() {
	ginkgo.BeforeEach(func() {
		caliper.ResetDefaultRegistry()
	})

	ginkgo.It("should be safe to access concurrently on first use", func() {
		done := make(chan *caliper.Registry, 8)
		for i := 0; i < 8; i++ {
			go func() { done <- caliper.DefaultRegistry() }()
		}

		first := <-done
		for i := 1; i < 8; i++ {
			Expect(<-done).To(BeIdenticalTo(first))
		}
	})
})
