package rbmk

import (
	"math"

	"github.com/gonum/matrix/mat64"

	"github.com/MesaFer/RBMK-sub000/internal/integrator"
)

// lambdaDiag and betaVec are the constant six-group coefficient objects
// reused by every derivative evaluation; built once at package init so the
// hot RK4 loop (C9 dispatches many of these per advance) never allocates
// a new diagonal matrix per substep.
var (
	lambdaVec  = mat64.NewVector(6, groupLambda[:])
	betaVec    = mat64.NewVector(6, groupBeta[:])
	lambdaDiag = diagFromVector(groupLambda[:])
)

func diagFromVector(v []float64) *mat64.Dense {
	n := len(v)
	vals := make([]float64, n*n)
	for i, lv := range v {
		vals[i*n+i] = lv
	}
	return mat64.NewDense(n, n, vals)
}

// KineticsState owns the six-group point-kinetics state: neutron population,
// precursor vector and fuel temperature (C2). Precursors are carried as a
// *mat64.Vector, combined with mat64.Vector operations inside the RK4
// derivative rather than hand-rolled loops.
type KineticsState struct {
	N  float64       // normalised neutron population
	C  *mat64.Vector // six-group precursor concentrations
	Tf float64       // fuel temperature, K

	prevN       float64
	initialized bool
	minBootDnDt float64
}

// NewKineticsState returns a kinetics state with precursors initialised to
// the steady-state expression Cᵢ = βᵢ·n / (λᵢ·Λ), per invariant I5.
func NewKineticsState(n0 float64) *KineticsState {
	k := &KineticsState{minBootDnDt: 1e-3}
	k.Reset(n0)
	return k
}

// Reset restores steady-state precursors for population n0 and clears the
// integrator's precursor-initialised flag back to true (I5: initialised on
// first use and on reset).
func (k *KineticsState) Reset(n0 float64) {
	k.N = clamp(n0, NeutronPopulationMin, NeutronPopulationMax)
	k.prevN = k.N
	c := make([]float64, 6)
	for i := range c {
		c[i] = groupBeta[i] * k.N / (groupLambda[i] * Lambda)
	}
	k.C = mat64.NewVector(6, c)
	k.Tf = FuelRefTemp
	k.initialized = true
}

// PrecursorSum reports Σ Cᵢ, the value the state snapshot publishes.
func (k *KineticsState) PrecursorSum() float64 {
	sum := 0.0
	for i := 0; i < k.C.Len(); i++ {
		sum += k.C.At(i, 0)
	}
	return sum
}

// Period reports n/Δn·Δt using the previous and current population, or the
// infinity sentinel per §4.6 / invariant-adjacent period rule.
func (k *KineticsState) Period(dt float64) float64 {
	dn := k.N - k.prevN
	if math.IsNaN(dn) || math.IsInf(dn, 0) || math.Abs(dn) < PeriodMinDeltaN {
		return PeriodInfinity
	}
	period := k.N / dn * dt
	if math.IsNaN(period) || math.IsInf(period, 0) || math.Abs(period) > PeriodMagnitudeSentinel {
		return PeriodInfinity
	}
	return period
}

// targetFuelTemp implements T_target(n) = 400 + 500·clamp(n, 0, 10).
func targetFuelTemp(n float64) float64 {
	return 400 + 500*clamp(n, 0, NeutronPopulationMax)
}

// effectiveReactivity applies the Doppler clamp and overall ρ_eff clamp of
// §4.1: the Doppler correction term is negative-only (stabilising), and the
// combined ρ_eff saturates to [-0.15, +0.02].
func effectiveReactivity(rho, tf float64) float64 {
	doppler := DopplerCoeff * (tf - FuelRefTemp)
	if doppler > 0 {
		doppler = 0
	}
	return clamp(rho+doppler, KineticsRhoEffClampLow, KineticsRhoEffClampHigh)
}

// substepFor chooses the adaptive sub-Δt for a requested Δt given the raw
// (pre-Doppler) reactivity, per §4.1's adaptive-substep rule.
func substepFor(dt, rho float64) float64 {
	switch {
	case rho < NegativeRhoThreshold:
		return math.Min(dt, NegativeRhoSubstepDt)
	case math.Abs(rho) > BetaEff:
		return math.Min(dt, PromptRegimeSubstepDt)
	default:
		return dt
	}
}

// Advance integrates the joint (n, C, T_f) state forward by dt seconds under
// reactivity rho and external source S, using classical RK4 with the
// adaptive substep rule of §4.1.
func (k *KineticsState) Advance(dt, rho, source float64) {
	if !k.initialized {
		k.Reset(k.N)
	}
	k.prevN = k.N

	h := substepFor(dt, rho)
	if h <= 0 {
		h = dt
	}
	count := int(math.Ceil(dt / h))
	if count < 1 {
		count = 1
	}
	subDt := dt / float64(count)

	y := k.flatten()
	deriv := k.derivFunc(rho, source)
	for i := 0; i < count; i++ {
		y = integrator.Step(deriv, 0, y, subDt)
		k.clampFlat(y)
	}
	k.unflatten(y)
}

// flatten packs (n, C0..C5, Tf) into the 8-element vector the RK4 step
// primitive operates on.
func (k *KineticsState) flatten() []float64 {
	y := make([]float64, 8)
	y[0] = k.N
	for i := 0; i < 6; i++ {
		y[1+i] = k.C.At(i, 0)
	}
	y[7] = k.Tf
	return y
}

func (k *KineticsState) unflatten(y []float64) {
	k.N = y[0]
	c := make([]float64, 6)
	copy(c, y[1:7])
	k.C = mat64.NewVector(6, c)
	k.Tf = y[7]
}

// clampFlat enforces I1/I2 on the raw integration vector between substeps.
func (k *KineticsState) clampFlat(y []float64) {
	y[0] = sanitize(y[0], NeutronPopulationMin, NeutronPopulationMax)
	for i := 1; i <= 6; i++ {
		y[i] = clampNonNeg(sanitize(y[i], 0, math.MaxFloat64))
	}
	y[7] = sanitize(y[7], FuelTempMin, FuelTempMax)
}

// derivFunc builds the ODE right-hand side for a fixed (rho, source) pair,
// closing over the constant six-group coefficient vectors.
func (k *KineticsState) derivFunc(rho, source float64) integrator.Deriv {
	return func(_ float64, y []float64) []float64 {
		n := y[0]
		c := mat64.NewVector(6, append([]float64(nil), y[1:7]...))
		tf := y[7]

		rhoEff := effectiveReactivity(rho, tf)

		decay := mat64.NewVector(6, nil)
		decay.MulVec(lambdaDiag, c)
		delayedTotal := mat64.Dot(lambdaVec, c)

		dndt := (rhoEff-BetaEff)/Lambda*n + delayedTotal + source
		if rhoEff > 0 && n < 1e-4 {
			if rhoEff >= BetaEff {
				dndt += k.minBootDnDt
			} else {
				dndt += k.minBootDnDt * 0.1
			}
		}

		dC := mat64.NewVector(6, nil)
		production := mat64.NewVector(6, nil)
		production.ScaleVec(n/Lambda, betaVec)
		dC.AddScaledVec(production, -1, decay)

		dtf := (targetFuelTemp(n) - tf) / FuelThermalTau

		out := make([]float64, 8)
		out[0] = dndt
		for i := 0; i < 6; i++ {
			out[1+i] = dC.At(i, 0)
		}
		out[7] = dtf
		return out
	}
}
