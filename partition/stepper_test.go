package partition

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Time Stepper", func() {
	It("should decrement occupied units only", func() {
		s := storeWith(0, 3, 1, 0, 2)

		s.Tick()

		Expect(s.Snapshot()).To(Equal([]Duration{0, 2, 0, 0, 1}))
	})

	It("should leave an empty store unchanged", func() {
		s := storeWith(0, 0, 0)

		s.Tick()

		Expect(s.Occupied()).To(Equal(0))
		Expect(s.Snapshot()).To(Equal([]Duration{0, 0, 0}))
	})

	It("should make expired units available immediately", func() {
		s := storeWith(0, 1, 1, 0)

		_, err := s.Allocate(FirstFit, 4, 2)
		Expect(err).To(MatchError(ErrAllocationFailed))

		s.Tick()
		probes, err := s.Allocate(FirstFit, 4, 2)

		Expect(err).NotTo(HaveOccurred())
		Expect(probes).To(Equal(1))
		Expect(s.Snapshot()).To(Equal([]Duration{2, 2, 2, 2}))
	})
})
