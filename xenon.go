package rbmk

// XenonState owns the iodine-135/xenon-135 production-decay-burnup chain
// (C5). Concentrations are in atoms/cm³.
type XenonState struct {
	Iodine float64
	Xenon  float64
}

// Step advances iodine and xenon by one explicit-Euler substep (§4.4):
//
//	dI/dt  = γ_I·Σ_f·φ − λ_I·I
//	dXe/dt = γ_Xe·Σ_f·φ + λ_I·I − λ_Xe·Xe − σ_Xe·φ·Xe
//
// flux is the neutron-population proxy for φ; gatePowerPct is the power
// percentage checked against the near-zero-power production gate (§4.4:
// below 0.1% no fission-driven production occurs). Explicit Euler is
// sufficient because λ_I and λ_Xe are ≪ 1/Δt.
func (x *XenonState) Step(gatePowerPct, flux, dt float64) {
	phi := flux
	if gatePowerPct < PowerGateThreshold {
		phi = 0
	}
	fissionRate := FissionXSNominal * phi

	dI := IodineYield*fissionRate - IodineDecay*x.Iodine
	dXe := XenonYield*fissionRate + IodineDecay*x.Iodine - XenonDecay*x.Xenon - XenonMicroXS*phi*x.Xenon

	x.Iodine = clamp(sanitize(x.Iodine+dI*dt, 0, FissionProductClamp), 0, FissionProductClamp)
	x.Xenon = clamp(sanitize(x.Xenon+dXe*dt, 0, FissionProductClamp), 0, FissionProductClamp)
}

// XenonReactivity converts the current xenon concentration into its
// reactivity contribution, −10⁻¹⁸·[Xe], the term §4.2 subtracts from the
// reactivity target.
func (x *XenonState) XenonReactivity() float64 {
	return -XenonMicroXSTerm * x.Xenon
}
