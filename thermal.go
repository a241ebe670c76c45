package rbmk

// ThermalState carries the coolant/graphite/void triple owned by the
// thermal & void model (C4). Fuel temperature is owned by the kinetics
// integrator (§4.3) and is not duplicated here.
type ThermalState struct {
	Coolant  float64 // K
	Graphite float64 // K
	Void     float64 // %
}

// NewThermalState returns cold-shutdown initial conditions.
func NewThermalState() ThermalState {
	return ThermalState{Coolant: CoolantSatTemp - 100, Graphite: 400, Void: 0}
}

// coolantTarget / graphiteTarget implement the power-dependent targets of
// §4.3: T_coolant* = 400 + 150·p_f, T_graphite* = 400 + 250·p_f.
func coolantTarget(powerFraction float64) float64 {
	return 400 + 150*powerFraction
}

func graphiteTarget(powerFraction float64) float64 {
	return 400 + 250*powerFraction
}

// voidTarget implements the saturation-based boiling rule of §4.3: when
// coolant exceeds the saturation temperature, void heads toward
// min(2·(T_coolant−T_sat), 80)%; otherwise it decays toward zero.
func voidTarget(coolant float64) float64 {
	if coolant > CoolantSatTemp {
		return clamp(2*(coolant-CoolantSatTemp), 0, 80)
	}
	return 0
}

// Step advances coolant, graphite and void by one first-order lag substep
// (§4.3), given the local power percentage (global average for the
// aggregate thermal model, local channel power% for the spatial engine).
func (t *ThermalState) Step(powerPct, dt float64) {
	pf := clamp(powerPct/100, 0, 10)

	t.Coolant = clamp(sanitize(lerp(t.Coolant, coolantTarget(pf), expLagMix(dt, CoolantThermalTau)), CoolantTempMin, CoolantTempMax), CoolantTempMin, CoolantTempMax)
	t.Graphite = clamp(sanitize(lerp(t.Graphite, graphiteTarget(pf), expLagMix(dt, GraphiteThermalTau)), GraphiteTempMin, GraphiteTempMax), GraphiteTempMin, GraphiteTempMax)
	t.Void = clamp(sanitize(lerp(t.Void, voidTarget(t.Coolant), expLagMix(dt, VoidTau)), VoidFractionMin, VoidFractionMax), VoidFractionMin, VoidFractionMax)
}
