package partition

import (
	"fmt"
	"io"
)

// Dump prints the store as a sequence of blocks, one line per block. A block
// is a run of units that hold the same value, so a long store prints in a
// few lines.
//
//	[0, 3) x3 = 5
//	[3, 10) x7 free
func (s *Store) Dump(w io.Writer) error {
	s.mustBeAlive()

	for start := 0; start < len(s.units); {
		end := start + 1
		for end < len(s.units) && s.units[end] == s.units[start] {
			end++
		}

		var err error
		if s.units[start] == 0 {
			_, err = fmt.Fprintf(w, "[%d, %d) x%d free\n",
				start, end, end-start)
		} else {
			_, err = fmt.Fprintf(w, "[%d, %d) x%d = %d\n",
				start, end, end-start, s.units[start])
		}

		if err != nil {
			return err
		}

		start = end
	}

	return nil
}
