// Package sequence provides lazy generators for integer sequences (Fibonacci
// numbers, factorials) and the bounded extraction that turns such an infinite
// generator into a finite list of terms.
package sequence

//go:generate mockgen -source=generator.go -destination=mocks/mock_generator.go -package=mocks

import (
	"context"
	"errors"
	"math/big"

	apperrors "github.com/agbru/seqtable/internal/errors"
)

const (
	// cancelCheckInterval is how many pulls happen between two context checks
	// during extraction.
	cancelCheckInterval = 64
	// maxPrealloc caps the capacity reserved up front for a term list, so an
	// absurd count fails by running out of memory progressively instead of in
	// a single allocation.
	maxPrealloc = 1 << 16
)

// ErrNilGenerator is returned when extraction is asked to pull from nothing.
var ErrNilGenerator = errors.New("sequence: nil generator")

// Generator defines the interface for a lazy, infinite integer sequence.
// A Generator owns its state exclusively; every call to Next advances it by
// exactly one term. There is no way back: to restart from the seed, construct
// a new instance.
//
// Example usage:
//
//	gen := sequence.NewFibonacci()
//	for i := 0; i < 10; i++ {
//	    fmt.Println(gen.Next())
//	}
type Generator interface {
	// Next advances the generator and returns the next term. It never fails
	// and never runs out. The returned value is a fresh copy owned by the
	// caller.
	Next() *big.Int

	// Index returns the number of terms produced so far (0 before the first
	// call to Next).
	Index() uint64
}

// ProgressFunc receives extraction progress as the number of terms pulled so
// far and the total requested.
type ProgressFunc func(done, total int)

// Take pulls exactly n terms from g, in order, and returns them. For n == 0 it
// performs no pull and returns an empty slice. A negative n is rejected with
// an InvalidCount error before the generator is touched.
//
// Extraction stops early only when ctx is canceled, in which case the context
// error is returned together with no terms.
func Take(ctx context.Context, g Generator, n int) ([]*big.Int, error) {
	return TakeWithProgress(ctx, g, n, nil)
}

// TakeWithProgress is Take with a progress callback. The callback, when not
// nil, is invoked roughly every 1% of the work and once more on completion.
func TakeWithProgress(ctx context.Context, g Generator, n int, progress ProgressFunc) ([]*big.Int, error) {
	if n < 0 {
		return nil, apperrors.NewInvalidCountError(n)
	}
	if g == nil {
		return nil, ErrNilGenerator
	}

	terms := make([]*big.Int, 0, min(n, maxPrealloc))
	step := max(n/100, 1)
	for i := 0; i < n; i++ {
		if i%cancelCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		terms = append(terms, g.Next())
		if progress != nil && (i+1)%step == 0 && i+1 < n {
			progress(i+1, n)
		}
	}
	if progress != nil {
		progress(n, n)
	}
	return terms, nil
}
