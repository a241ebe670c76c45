package rbmk

import "math"

// ReactivityNetwork combines the base excess reactivity with the Doppler,
// graphite, void, xenon and rod-worth feedback terms and applies first-order
// smoothing (C3, §4.2).
type ReactivityNetwork struct {
	Rho float64 // current smoothed reactivity, Δk/k
}

// NewReactivityNetwork returns a network initialised at the fresh-core
// excess reactivity.
func NewReactivityNetwork() *ReactivityNetwork {
	return &ReactivityNetwork{Rho: clamp(RhoBase, ReactivityClampLow, ReactivityClampHigh)}
}

// Reset restores the network to its initial reactivity.
func (net *ReactivityNetwork) Reset() {
	net.Rho = clamp(RhoBase, ReactivityClampLow, ReactivityClampHigh)
}

// scramRampWorth implements the emergency ramp of §4.2:
// inserted-worth(t) = W_total·(1 − exp(−3·t/t_drop)), saturating to W_total.
func scramRampWorth(wTotal, t float64) float64 {
	if t <= 0 {
		return 0
	}
	w := wTotal * (1 - math.Exp(-3*t/ScramRampTime))
	if w > wTotal {
		return wTotal
	}
	return w
}

// RodWorthContribution returns the "Σ rod-worth contributions" term of the
// reactivity target. While scram is active it is the emergency ramp over
// the combined nominal worth of every rod; otherwise it is the sum of each
// rod's S-curve worth at its current position.
func RodWorthContribution(rods []*ControlRod, scram bool, scramElapsed float64) float64 {
	if scram {
		total := 0.0
		for _, r := range rods {
			total += r.NominalWorth
		}
		return scramRampWorth(total, scramElapsed)
	}
	return totalRodWorth(rods)
}

// Step advances the smoothed reactivity by one substep (§4.2): computes the
// instantaneous target from fuel/graphite temperature, void fraction, xenon
// concentration and rod worth, then mixes it into the previous smoothed
// value with an exponential lag (τ=0.05s under scram, τ=0.3s otherwise).
func (net *ReactivityNetwork) Step(tf, tg, voidFrac, xenon, rodWorthTerm float64, scram bool, dt float64) float64 {
	target := RhoBase +
		DopplerCoeff*(tf-FuelRefTemp) +
		GraphiteCoeff*(tg-GraphiteRefTemp) +
		VoidCoeff*voidFrac -
		XenonMicroXSTerm*xenon -
		rodWorthTerm

	tau := NormalTau
	if scram {
		tau = ScramTau
	}
	mix := expLagMix(dt, tau)
	net.Rho = clamp(sanitize(lerp(net.Rho, target, mix), ReactivityClampLow, ReactivityClampHigh), ReactivityClampLow, ReactivityClampHigh)
	return net.Rho
}

// Dollars converts a reactivity value into dollars ($ = ρ/β_eff).
func Dollars(rho float64) float64 {
	return rho / BetaEff
}

// KEff derives k-eff from reactivity: k = 1/(1-ρ), saturating to
// [KEffClampLow, KEffClampHigh] when |ρ| approaches 1 (I3).
func KEff(rho float64) float64 {
	if math.Abs(rho) >= KEffSingularGuard {
		if rho > 0 {
			return KEffClampHigh
		}
		return KEffClampLow
	}
	k := 1 / (1 - rho)
	return clamp(k, KEffClampLow, KEffClampHigh)
}
