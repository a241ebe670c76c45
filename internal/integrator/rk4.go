// Package integrator provides the RK4 step primitive used by the kinetics
// integrator. The spatial engine does its own explicit-Euler update and does
// not call it.
package integrator

// Deriv evaluates the ODE right-hand side dy/dt at time t for state y.
// It must return a newly-allocated slice of the same length as y.
type Deriv func(t float64, y []float64) []float64

// Step advances state y0 by one RK4 step of size h at time t0, returning the
// new state. Unlike a general-purpose blocking solver, Step performs exactly
// one pass and returns control to the caller — the simulation driver (C9) is
// the one that decides how many passes to dispatch per advance.
func Step(f Deriv, t0 float64, y0 []float64, h float64) []float64 {
	if h <= 0 {
		panic("integrator: step size must be positive")
	}
	n := len(y0)
	const (
		half     = 0.5
		oneSixth = 1.0 / 6.0
		oneThird = 1.0 / 3.0
	)

	tmp := make([]float64, n)

	k1 := f(t0, y0)
	for i := range tmp {
		tmp[i] = y0[i] + k1[i]*h*half
	}

	k2 := f(t0+h*half, tmp)
	for i := range tmp {
		tmp[i] = y0[i] + k2[i]*h*half
	}

	k3 := f(t0+h*half, tmp)
	for i := range tmp {
		tmp[i] = y0[i] + k3[i]*h
	}

	k4 := f(t0+h, tmp)

	y1 := make([]float64, n)
	for i := range y1 {
		y1[i] = y0[i] + h*oneSixth*(k1[i]+2*k2[i]+2*k3[i]+k4[i])
	}
	return y1
}
