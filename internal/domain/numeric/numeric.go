// Package numeric implements the operations served by the API:
// Fibonacci terms, prime filtering, and HCF/LCM folds.
//
// Inputs arrive as JSON numbers, i.e. float64. Integral values are promoted to
// math/big so that sequence terms and products never overflow. HCF/LCM over
// fractional operands fall back to float64 with a JavaScript-style remainder.
package numeric

import (
	"fmt"
	"math"
	"math/big"
)

// exactIntLimit is 2^53. Every float64 at or above it is an even integer.
const exactIntLimit = 1 << 53

// IsInteger reports whether f is a finite whole number.
func IsInteger(f float64) bool {
	return !math.IsInf(f, 0) && !math.IsNaN(f) && math.Trunc(f) == f
}

// BigInt converts an integral float64 to a big.Int. ok is false when f is not an integer.
func BigInt(f float64) (n *big.Int, ok bool) {
	if !IsInteger(f) {
		return nil, false
	}
	n, _ = big.NewFloat(f).Int(nil)
	return n, true
}

// maxFloatGCDSteps bounds the float Euclid loop. Remainders shrink at least as
// fast as a reversed Fibonacci sequence, so a finite pair of doubles settles in
// far fewer steps.
const maxFloatGCDSteps = 4096

// Integers converts values to big.Int when every element is integral.
func Integers(values []float64) ([]*big.Int, bool) {
	out := make([]*big.Int, len(values))
	for i, v := range values {
		n, ok := BigInt(v)
		if !ok {
			return nil, false
		}
		out[i] = n
	}
	return out, true
}

// Fibonacci returns the first n terms of 0, 1, 1, 2, 3, ...
// The buffer is seeded with two terms and trimmed, so n == 1 yields [0].
func Fibonacci(n int) ([]*big.Int, error) {
	if n <= 0 {
		return nil, fmt.Errorf("fibonacci(%d): %w", n, ErrNotPositive)
	}
	series := make([]*big.Int, 2, max(n, 2))
	series[0], series[1] = big.NewInt(0), big.NewInt(1)
	for i := 2; i < n; i++ {
		series = append(series, new(big.Int).Add(series[i-1], series[i-2]))
	}
	return series[:n], nil
}

// IsPrime tests n by trial division with every d in [2, floor(sqrt(n))].
func IsPrime(n int64) bool {
	if n < 2 {
		return false
	}
	for d := int64(2); d <= n/d; d++ {
		if n%d == 0 {
			return false
		}
	}
	return true
}

// FilterPrimes keeps the integral, prime elements of values in input order.
func FilterPrimes(values []float64) []int64 {
	primes := make([]int64, 0, len(values))
	for _, v := range values {
		if !IsInteger(v) || v < 2 || v >= exactIntLimit {
			continue
		}
		if n := int64(v); IsPrime(n) {
			primes = append(primes, n)
		}
	}
	return primes
}

// GCD is Euclid's algorithm with a truncated remainder: gcd(a, 0) = a,
// otherwise gcd(b, a rem b). The sign of the result follows the operands.
func GCD(a, b *big.Int) *big.Int {
	x, y := new(big.Int).Set(a), new(big.Int).Set(b)
	for y.Sign() != 0 {
		x, y = y, x.Rem(x, y)
	}
	return x
}

// HCF folds GCD over values from left to right.
func HCF(values []*big.Int) (*big.Int, error) {
	if len(values) == 0 {
		return nil, fmt.Errorf("hcf: %w", ErrEmptyInput)
	}
	acc := new(big.Int).Set(values[0])
	for _, v := range values[1:] {
		acc = GCD(acc, v)
	}
	return acc, nil
}

// LCM folds lcm(a, b) = a*b / gcd(a, b) over values from left to right.
func LCM(values []*big.Int) (*big.Int, error) {
	if len(values) == 0 {
		return nil, fmt.Errorf("lcm: %w", ErrEmptyInput)
	}
	acc := new(big.Int).Set(values[0])
	for _, v := range values[1:] {
		g := GCD(acc, v)
		if g.Sign() == 0 {
			return nil, fmt.Errorf("lcm(%s, %s): %w", acc, v, ErrDivisionByZero)
		}
		acc = new(big.Int).Quo(new(big.Int).Mul(acc, v), g)
	}
	return acc, nil
}

// GCDFloat is GCD over doubles with math.Mod as the remainder, whose sign
// follows the dividend like JavaScript's %.
func GCDFloat(a, b float64) (float64, error) {
	for i := 0; b != 0; i++ {
		if i == maxFloatGCDSteps || math.IsNaN(b) || math.IsInf(b, 0) {
			return 0, fmt.Errorf("gcd(%v, %v): %w", a, b, ErrNotFinite)
		}
		a, b = b, math.Mod(a, b)
	}
	return a, nil
}

// HCFFloat folds GCDFloat over values from left to right.
func HCFFloat(values []float64) (float64, error) {
	if len(values) == 0 {
		return 0, fmt.Errorf("hcf: %w", ErrEmptyInput)
	}
	acc := values[0]
	for _, v := range values[1:] {
		g, err := GCDFloat(acc, v)
		if err != nil {
			return 0, err
		}
		acc = g
	}
	return finite("hcf", acc)
}

// LCMFloat folds a*b / gcd(a, b) over values from left to right in float64.
func LCMFloat(values []float64) (float64, error) {
	if len(values) == 0 {
		return 0, fmt.Errorf("lcm: %w", ErrEmptyInput)
	}
	acc := values[0]
	for _, v := range values[1:] {
		g, err := GCDFloat(acc, v)
		if err != nil {
			return 0, err
		}
		if g == 0 {
			return 0, fmt.Errorf("lcm(%v, %v): %w", acc, v, ErrDivisionByZero)
		}
		acc = acc * v / g
	}
	return finite("lcm", acc)
}

func finite(op string, f float64) (float64, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("%s = %v: %w", op, f, ErrNotFinite)
	}
	return f, nil
}
