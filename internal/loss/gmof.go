// Package loss holds the robust residual kernel and convergence helpers used
// by the fitting loop.
package loss

import (
	"fmt"
	"math"

	"github.com/pkg/errors"
)

// GMoF is the Geman-McClure robust kernel rho²·r²/(r²+rho²). It behaves like
// r² near zero and saturates at rho² for large residuals.
type GMoF struct {
	Rho float64
}

// NewGMoF returns a kernel with the given scale, which must be positive.
func NewGMoF(rho float64) (GMoF, error) {
	if !(rho > 0) || math.IsInf(rho, 0) {
		return GMoF{}, errors.Errorf("rho must be a positive finite number, got %v", rho)
	}
	return GMoF{Rho: rho}, nil
}

// Apply transforms a single residual. It is written as rho²/(1+rho²/r²) so
// that r² overflowing to +Inf still yields rho² instead of NaN.
func (g GMoF) Apply(residual float64) float64 {
	sq := residual * residual
	rho2 := g.Rho * g.Rho
	return rho2 / (1 + rho2/sq)
}

// ApplyAll transforms residuals elementwise into a new slice.
func (g GMoF) ApplyAll(residuals []float64) []float64 {
	out := make([]float64, len(residuals))
	for i, r := range residuals {
		out[i] = g.Apply(r)
	}
	return out
}

// Derivative returns d/dr of Apply.
func (g GMoF) Derivative(residual float64) float64 {
	rho2 := g.Rho * g.Rho
	w := rho2 / (residual*residual + rho2)
	return residual * w * w * 2
}

func (g GMoF) String() string {
	return fmt.Sprintf("rho = %v", g.Rho)
}
