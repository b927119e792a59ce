package design_test

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-ssb/dsp/filter/design"
)

func ExampleDesign() {
	c, err := design.Design(design.Spec{
		Type:    design.TypeLowpass,
		Order:   2,
		Cutoffs: []float64{0.5},
	})
	if err != nil {
		panic(err)
	}

	b, a := c.TransferFunction()
	fmt.Printf("b = %.4f %.4f %.4f\n", b[0], b[1], b[2])
	fmt.Printf("a = %.4f %.4f %.4f\n", a[0], math.Abs(a[1]), a[2])
	// Output:
	// b = 0.2929 0.5858 0.2929
	// a = 1.0000 0.0000 0.1716
}
