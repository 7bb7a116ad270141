package guard

import (
	"errors"
	"fmt"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// TestGuardReleaseProperty checks the release contract against arbitrary
// failure patterns: every resource is released exactly once, in order, and
// the returned error is the first failure.
func TestGuardReleaseProperty(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100

	properties := gopter.NewProperties(parameters)

	properties.Property("all resources released in order, first failure returned", prop.ForAll(
		func(failMask []bool) bool {
			g := New(nil)

			errs := make([]error, len(failMask))
			var released []int
			for i, fail := range failMask {
				i := i
				if fail {
					errs[i] = fmt.Errorf("release %d failed", i)
				}
				g.AddFunc(fmt.Sprintf("res%d", i), func() error {
					released = append(released, i)
					return errs[i]
				})
			}

			err := g.ReleaseAll()

			// Every resource released, in registration order.
			if len(released) != len(failMask) {
				return false
			}
			for i, idx := range released {
				if idx != i {
					return false
				}
			}

			// First failure (if any) is the returned error.
			var wantErr error
			for _, e := range errs {
				if e != nil {
					wantErr = e
					break
				}
			}
			if !errors.Is(err, wantErr) && err != wantErr {
				return false
			}

			// Registry cleared, second call is a no-op.
			return g.Len() == 0 && g.ReleaseAll() == nil
		},
		gen.SliceOf(gen.Bool()),
	))

	properties.TestingRun(t)
}
