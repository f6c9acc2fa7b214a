package sequence

import "math/big"

// Fibonacci generates 0, 1, 1, 2, 3, 5, 8, ...
//
// Both seeds are real terms: the first pull yields 0 and the second yields 1.
// Every later pull emits prev+curr and shifts the window by one.
type Fibonacci struct {
	prev, curr *big.Int
	index      uint64
}

// NewFibonacci returns a generator positioned before the first term.
func NewFibonacci() *Fibonacci {
	return &Fibonacci{
		prev: big.NewInt(0),
		curr: big.NewInt(1),
	}
}

// Next implements Generator.
func (f *Fibonacci) Next() *big.Int {
	f.index++
	switch f.index {
	case 1:
		return new(big.Int).Set(f.prev)
	case 2:
		return new(big.Int).Set(f.curr)
	}
	// prev becomes prev+curr, then the two slots swap so that the window
	// reads (old curr, sum) without allocating.
	f.prev.Add(f.prev, f.curr)
	f.prev, f.curr = f.curr, f.prev
	return new(big.Int).Set(f.curr)
}

// Index implements Generator.
func (f *Fibonacci) Index() uint64 { return f.index }
