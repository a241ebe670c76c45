package rbmk

import (
	"math"
	"testing"
)

func TestNewKineticsStatePrecursorsAreSteadyState(t *testing.T) {
	k := NewKineticsState(1.0)
	for i := 0; i < 6; i++ {
		want := groupBeta[i] * k.N / (groupLambda[i] * Lambda)
		got := k.C.At(i, 0)
		if math.Abs(got-want) > want*1e-9 {
			t.Fatalf("group %d precursor = %v, want %v", i, got, want)
		}
	}
}

func TestKineticsAdvanceAtZeroReactivityHoldsSteadyShortTerm(t *testing.T) {
	// Precursors start in the I5 steady-state balance for this population, and
	// fuel temperature starts at its Doppler reference, so rho_eff is exactly
	// zero at t=0: population should barely move before the fuel-temperature
	// lag (tau=5s) has time to pull Doppler feedback away from zero.
	k := NewKineticsState(1.0)
	n0 := k.N
	for i := 0; i < 3; i++ {
		k.Advance(0.1, 0, 0)
	}
	if math.Abs(k.N-n0) > n0*0.01 {
		t.Fatalf("population drifted from %v to %v at zero reactivity", n0, k.N)
	}
}

func TestKineticsAdvancePositiveReactivityGrowsPopulation(t *testing.T) {
	k := NewKineticsState(1.0)
	n0 := k.N
	for i := 0; i < 50; i++ {
		k.Advance(0.1, 0.001, 0)
	}
	if k.N <= n0 {
		t.Fatalf("expected population growth under positive reactivity, got %v -> %v", n0, k.N)
	}
}

func TestKineticsAdvanceNegativeReactivityShrinksPopulation(t *testing.T) {
	k := NewKineticsState(1.0)
	n0 := k.N
	for i := 0; i < 50; i++ {
		k.Advance(0.1, -0.05, 0)
	}
	if k.N >= n0 {
		t.Fatalf("expected population decay under negative reactivity, got %v -> %v", n0, k.N)
	}
}

func TestSubstepForAdaptsToRegime(t *testing.T) {
	if got := substepFor(0.1, -0.02); got != NegativeRhoSubstepDt {
		t.Fatalf("substepFor in stable-negative regime = %v, want %v", got, NegativeRhoSubstepDt)
	}
	if got := substepFor(0.1, 0.01); got != PromptRegimeSubstepDt {
		t.Fatalf("substepFor in prompt regime = %v, want %v", got, PromptRegimeSubstepDt)
	}
	if got := substepFor(0.05, -0.005); got != 0.05 {
		t.Fatalf("substepFor in normal regime = %v, want unchanged dt", got)
	}
}

func TestEffectiveReactivityDopplerIsOneSided(t *testing.T) {
	// Below reference temperature, Doppler would be positive; it must clamp to zero.
	rho := effectiveReactivity(0, FuelRefTemp-200)
	if rho != 0 {
		t.Fatalf("expected zero effective reactivity (Doppler clamped), got %v", rho)
	}
	// Above reference temperature, Doppler is negative and should apply.
	rho = effectiveReactivity(0, FuelRefTemp+200)
	if rho >= 0 {
		t.Fatalf("expected negative effective reactivity above reference temperature, got %v", rho)
	}
}

func TestKineticsPeriodInfinityWhenFlat(t *testing.T) {
	k := NewKineticsState(1.0)
	if got := k.Period(0.1); got != PeriodInfinity {
		t.Fatalf("period at zero Δn = %v, want infinity sentinel", got)
	}
}

func TestKineticsPrecursorSumMatchesComponents(t *testing.T) {
	k := NewKineticsState(2.0)
	var want float64
	for i := 0; i < 6; i++ {
		want += k.C.At(i, 0)
	}
	if math.Abs(k.PrecursorSum()-want) > 1e-6 {
		t.Fatalf("PrecursorSum() = %v, want %v", k.PrecursorSum(), want)
	}
}
