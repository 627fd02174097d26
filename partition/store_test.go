package partition

import (
	"bytes"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Store", func() {
	It("should reject non-positive capacities", func() {
		_, err := NewStore(0)
		Expect(err).To(MatchError(ErrInvalidCapacity))

		_, err = NewStore(-3)
		Expect(err).To(MatchError(ErrInvalidCapacity))
	})

	It("should start all free", func() {
		s, err := NewStore(8)

		Expect(err).NotTo(HaveOccurred())
		Expect(s.Capacity()).To(Equal(8))
		Expect(s.Cursor()).To(Equal(0))
		Expect(s.Occupied()).To(Equal(0))
		Expect(s.Snapshot()).To(Equal(make([]Duration, 8)))
	})

	It("should clear without changing capacity", func() {
		s := storeWith(0, 3, 3, 0, 7)
		s.cursor = 3

		s.Clear()

		Expect(s.Capacity()).To(Equal(5))
		Expect(s.Cursor()).To(Equal(0))
		Expect(s.Snapshot()).To(Equal([]Duration{0, 0, 0, 0, 0}))
	})

	It("should not be usable after release", func() {
		s := storeWith(0, 0, 0)

		s.Release()

		Expect(func() { s.Capacity() }).To(Panic())
		Expect(func() { s.Tick() }).To(Panic())
		Expect(func() { _, _ = s.Allocate(FirstFit, 1, 1) }).To(Panic())
	})

	It("should return a snapshot that does not alias the units", func() {
		s := storeWith(0, 2, 0)

		snapshot := s.Snapshot()
		snapshot[0] = 9

		Expect(s.Unit(0)).To(Equal(Duration(0)))
	})

	It("should count occupied units", func() {
		s := storeWith(0, 2, 2, 0, 1)

		Expect(s.Occupied()).To(Equal(3))
	})

	It("should dump in blocks", func() {
		s := storeWith(5, 5, 5, 0, 0, 2)
		buf := new(bytes.Buffer)

		err := s.Dump(buf)

		Expect(err).NotTo(HaveOccurred())
		Expect(buf.String()).To(Equal(
			"[0, 3) x3 = 5\n" +
				"[3, 5) x2 free\n" +
				"[5, 6) x1 = 2\n"))
	})
})

var _ = Describe("Block Scanner", func() {
	var s *Store

	BeforeEach(func() {
		s = storeWith(0, 0, 4, 0, 0, 0, 1, 0)
	})

	DescribeTable("HasRoom",
		func(size, start int, expected bool) {
			Expect(s.HasRoom(size, start)).To(Equal(expected))
		},
		Entry("fits exactly in a run", 2, 0, true),
		Entry("crosses an occupied unit", 3, 0, false),
		Entry("starts on an occupied unit", 1, 2, false),
		Entry("fits in the middle run", 3, 3, true),
		Entry("fits at the last unit", 1, 7, true),
		Entry("reaches past the end", 2, 7, false),
		Entry("starts past the end", 1, 8, false),
	)

	DescribeTable("FreeRunLength",
		func(start, expected int) {
			Expect(s.FreeRunLength(start)).To(Equal(expected))
		},
		Entry("from the first unit", 0, 2),
		Entry("from the middle of a run", 1, 1),
		Entry("from an occupied unit", 2, 0),
		Entry("up to an occupied unit", 3, 3),
		Entry("up to the end of the store", 7, 1),
		Entry("past the end of the store", 8, 0),
	)

	It("should list free runs", func() {
		Expect(s.FreeRuns()).To(Equal([]FreeRun{
			{Offset: 0, Length: 2},
			{Offset: 3, Length: 3},
			{Offset: 7, Length: 1},
		}))
	})
})
