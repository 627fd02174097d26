package partition

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Fragmentation Analyzer", func() {
	var s *Store

	BeforeEach(func() {
		// Free runs of length 1, 3, 2 and a trailing 1.
		s = storeWith(0, 5, 0, 0, 0, 5, 0, 0, 5, 0)
	})

	DescribeTable("counting runs no longer than the threshold",
		func(threshold, expected int) {
			Expect(s.FragmentCount(threshold)).To(Equal(expected))
		},
		Entry("threshold 0", 0, 0),
		Entry("threshold 1 counts the trailing run", 1, 2),
		Entry("threshold 2", 2, 3),
		Entry("threshold 3", 3, 4),
		Entry("large threshold", 100, 4),
		Entry("negative threshold", -1, 0),
	)

	It("should count an all-free store as one run", func() {
		s = storeWith(0, 0, 0, 0)

		Expect(s.FragmentCount(4)).To(Equal(1))
		Expect(s.FragmentCount(3)).To(Equal(0))
	})

	It("should count nothing on a full store", func() {
		s = storeWith(1, 1, 1)

		Expect(s.FragmentCount(3)).To(Equal(0))
	})

	It("should not count a long trailing run above the threshold", func() {
		s = storeWith(0, 1, 0, 0, 0)

		Expect(s.FragmentCount(1)).To(Equal(1))
	})
})
