package orbit

import (
	"sync"

	"github.com/fusionsim/gcorbit/internal/coords"
	"github.com/fusionsim/gcorbit/internal/equilibrium"
)

// BatchResult pairs one particle's orbit with its trace error.
type BatchResult struct {
	Coordinate coords.EPRCoordinate
	Orbit      *Orbit
	Err        error
}

// TraceBatch traces a set of particles concurrently, one goroutine per
// particle. Each trace owns its own tracking context and the equilibrium
// is read-only, so no synchronization beyond the join is needed. Results
// are returned in input order.
func TraceBatch(eq equilibrium.Equilibrium, particles []coords.EPRCoordinate, opts TraceOptions) []BatchResult {
	results := make([]BatchResult, len(particles))

	var wg sync.WaitGroup
	for i, c := range particles {
		wg.Add(1)
		go func(idx int, c coords.EPRCoordinate) {
			defer wg.Done()
			o, err := NewTracer(eq, opts).Trace(c)
			results[idx] = BatchResult{Coordinate: c, Orbit: o, Err: err}
		}(i, c)
	}
	wg.Wait()

	return results
}
