package metrics

import (
	"runtime"
	"sync"

	"github.com/rs/zerolog"
)

// Failure records one input that could not be processed.
type Failure struct {
	Source string
	Err    error
}

// Batch runs specimen computations concurrently. Specimens are independent,
// so the fan-out needs no ordering; results are reported in input order.
type Batch struct {
	computer *Computer
	workers  int
	log      zerolog.Logger
}

// NewBatch creates a batch runner over the given computer.
func NewBatch(computer *Computer) *Batch {
	return &Batch{
		computer: computer,
		workers:  runtime.NumCPU(),
		log:      zerolog.Nop(),
	}
}

// WithWorkers sets the worker count (minimum 1).
func (b *Batch) WithWorkers(n int) *Batch {
	if n < 1 {
		n = 1
	}
	b.workers = n
	return b
}

// WithLogger sets the progress logger.
func (b *Batch) WithLogger(log zerolog.Logger) *Batch {
	b.log = log
	return b
}

// Run processes all inputs and returns the successful results plus the
// per-input failures. A malformed input never aborts the batch; the caller
// receives both lists once every specimen has completed.
func (b *Batch) Run(inputs []Input) ([]SpecimenResult, []Failure) {
	type slot struct {
		result SpecimenResult
		err    error
	}
	slots := make([]slot, len(inputs))

	jobs := make(chan int)
	var wg sync.WaitGroup

	for w := 0; w < b.workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				result, err := b.computer.Compute(inputs[i])
				slots[i] = slot{result: result, err: err}
			}
		}()
	}

	for i := range inputs {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	results := make([]SpecimenResult, 0, len(inputs))
	var failures []Failure

	for i, s := range slots {
		if s.err != nil {
			b.log.Warn().
				Str("source", inputs[i].SourceName).
				Err(s.err).
				Msg("specimen skipped")
			failures = append(failures, Failure{Source: inputs[i].SourceName, Err: s.err})
			continue
		}

		b.log.Info().
			Str("sample", s.result.SampleID).
			Str("group", s.result.TreatmentGroup).
			Float64("maxLoadN", s.result.MaxLoad).
			Float64("stiffnessNmm", s.result.Stiffness()).
			Str("method", string(s.result.Region.Method)).
			Msg("specimen analyzed")
		results = append(results, s.result)
	}

	return results, failures
}
