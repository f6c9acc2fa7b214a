package sequence

import "math/big"

var one = big.NewInt(1)

// Factorial generates 1!, 2!, 3!, ... that is 1, 2, 6, 24, 120, ...
//
// 0! is not part of the stream: the first pull yields 1 as 1!.
type Factorial struct {
	index   *big.Int
	product *big.Int
	pulls   uint64
}

// NewFactorial returns a generator positioned before the first term.
func NewFactorial() *Factorial {
	return &Factorial{
		index:   big.NewInt(1),
		product: big.NewInt(1),
	}
}

// Next implements Generator.
func (f *Factorial) Next() *big.Int {
	f.pulls++
	if f.pulls > 1 {
		f.index.Add(f.index, one)
		f.product.Mul(f.product, f.index)
	}
	return new(big.Int).Set(f.product)
}

// Index implements Generator.
func (f *Factorial) Index() uint64 { return f.pulls }
