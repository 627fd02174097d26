// Command partsim simulates dynamic memory partitioning with first-fit,
// next-fit and best-fit placement.
package main

import "github.com/sarchlab/partsim/cmd/partsim/cmd"

func main() {
	cmd.Execute()
}
