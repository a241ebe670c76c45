package rbmk

import "math"

// Six-group delayed-neutron data for U-235, standard reference values (C1).
// Index order is the conventional group ordering by decreasing λ.
var (
	groupBeta = [6]float64{
		0.000215, 0.001424, 0.001274, 0.002568, 0.000748, 0.000273,
	}
	groupLambda = [6]float64{
		0.0124, 0.0305, 0.111, 0.301, 1.14, 3.01,
	}
)

const (
	// BetaEff is the total effective delayed-neutron fraction, Σβᵢ.
	BetaEff = 6.5e-3
	// BetaSumMaxDeviation is the largest fractional divergence of Σβᵢ from
	// BetaEff construction-time validation tolerates before refusing to
	// build a Core (§7: "inconsistent configuration... construction-time
	// check; core refuses to construct").
	BetaSumMaxDeviation = 0.01
	// Lambda is the prompt neutron generation time, in seconds.
	Lambda = 1e-3

	// RhoBase is the fresh-core excess reactivity, Δk/k.
	RhoBase = 0.0975

	// DopplerCoeff (α_f) is the fuel-temperature feedback coefficient, strictly negative.
	DopplerCoeff = -2.5e-5
	// GraphiteCoeff (α_g) is the graphite-temperature feedback coefficient, mildly positive.
	GraphiteCoeff = 3.0e-6
	// VoidCoeff (α_v) is the RBMK-signature positive void-reactivity coefficient, per % void.
	VoidCoeff = 7.0e-4
	// XenonMicroXSTerm scales xenon-135 concentration into negative reactivity.
	XenonMicroXSTerm = 1e-18

	// FuelRefTemp is the reference fuel temperature used by the Doppler term, K.
	FuelRefTemp = 560.0
	// GraphiteRefTemp is the reference graphite temperature used by the graphite term, K.
	GraphiteRefTemp = 550.0

	// FuelTempMin / FuelTempMax bound the physical envelope of I2.
	FuelTempMin = 290.0
	FuelTempMax = 3000.0
	// CoolantTempMin / CoolantTempMax bound the physical envelope of I2.
	CoolantTempMin = 290.0
	CoolantTempMax = 1000.0
	// GraphiteTempMin / GraphiteTempMax bound the physical envelope of I2.
	GraphiteTempMin = 290.0
	GraphiteTempMax = 1500.0
	// VoidFractionMin / VoidFractionMax bound the void-fraction envelope, %.
	VoidFractionMin = 0.0
	VoidFractionMax = 100.0
	// CoolantSatTemp is the saturation temperature used by the boiling model, K.
	CoolantSatTemp = 545.0

	// ReactivityClampLow / ReactivityClampHigh bound published reactivity (I3).
	ReactivityClampLow  = -0.10
	ReactivityClampHigh = 0.02
	// KEffClampLow / KEffClampHigh bound k-eff when the 1/(1-ρ) expression saturates (I3).
	KEffClampLow  = 0.01
	KEffClampHigh = 100.0
	// KEffSingularGuard is the |ρ| threshold above which k-eff saturates rather than divides.
	KEffSingularGuard = 0.99

	// NeutronPopulationMin / NeutronPopulationMax bound the normalised neutron population.
	NeutronPopulationMin = 1e-10
	NeutronPopulationMax = 10.0

	// ScramTau is the smoothing time constant used while scrammed, s.
	ScramTau = 0.05
	// NormalTau is the smoothing time constant used outside scram, s.
	NormalTau = 0.3
	// ScramRampTime (t_drop) is the time over which the scram ramp saturates, s.
	ScramRampTime = 2.5

	// FuelThermalTau is the fuel-temperature lag time constant used by the kinetics integrator, s.
	FuelThermalTau = 5.0
	// CoolantThermalTau is the coolant-temperature lag time constant, s.
	CoolantThermalTau = 3.0
	// GraphiteThermalTau is the graphite-temperature lag time constant, s.
	GraphiteThermalTau = 60.0
	// VoidTau is the void-fraction lag time constant, s.
	VoidTau = 2.0

	// IodineDecay (λ_I) is the I-135 decay constant, s⁻¹.
	IodineDecay = 2.93e-5
	// XenonDecay (λ_Xe) is the Xe-135 decay constant, s⁻¹.
	XenonDecay = 2.09e-5
	// IodineYield (γ_I) is the fission yield of I-135.
	IodineYield = 0.061
	// XenonYield (γ_Xe) is the direct fission yield of Xe-135.
	XenonYield = 0.003
	// XenonMicroXS (σ_Xe) is the Xe-135 microscopic absorption cross-section term, cm²·s⁻¹ scaled.
	XenonMicroXS = 2.0e-18
	// FissionXSNominal (Σ_f·φ_ref) scales neutron population into a fission-rate proxy.
	FissionXSNominal = 3.4e16
	// FissionProductClamp bounds iodine/xenon concentrations, atoms/cm³.
	FissionProductClamp = 1e20
	// PowerGateThreshold is the aggregate power% below which fission-product production is gated off.
	PowerGateThreshold = 0.1

	// PNominalMW is the nominal thermal power of the simulated core, MW.
	PNominalMW = 3200.0

	// DiffusionCoeff (D) is the effective neutron diffusion coefficient, cm²/s.
	DiffusionCoeff = 150.0
	// ChannelPitch (h) is the channel-to-channel lattice spacing, cm.
	ChannelPitch = 25.0
	// GraphiteExchangeCoeff is the per-neighbor graphite thermal exchange coupling, W/K.
	GraphiteExchangeCoeff = 100.0

	// LocalRodPeakPowerMult is the O3-resolved local-peaking power multiplier (≈18% peaking).
	LocalRodPeakPowerMult = 2.0
	// LocalRodPeakReactivityMult is the O3-resolved local-peaking reactivity multiplier.
	LocalRodPeakReactivityMult = 1.5
	// ChannelShapeFloor is the minimum radial-cosine shape factor.
	ChannelShapeFloor = 0.3
	// ChannelPowerFloorFrac floors per-channel power against dark channels.
	ChannelPowerFloorFrac = 0.1

	// LocalReactivityClampLow / LocalReactivityClampHigh bound per-channel reactivity (§4.5).
	LocalReactivityClampLow  = -0.20
	LocalReactivityClampHigh = 0.15

	// KineticsRhoEffClampLow / High bound ρ_eff inside the integrator.
	KineticsRhoEffClampLow  = -0.15
	KineticsRhoEffClampHigh = 0.02

	// MaxSubstepDt is the coarsest substep the driver ever dispatches, s.
	MaxSubstepDt = 0.1
	// NegativeRhoSubstepDt is the substep used when ρ < -0.01 (stable, can integrate coarsely).
	NegativeRhoSubstepDt = 0.005
	// PromptRegimeSubstepDt is the substep used when |ρ| > β (prompt regime).
	PromptRegimeSubstepDt = 0.001
	// PromptRhoThreshold marks the boundary of the negative/prompt substep rules.
	NegativeRhoThreshold = -0.01

	// MaxSimSecondsPerAdvance caps simulated time absorbed by one advance_realtime call, s.
	MaxSimSecondsPerAdvance = 0.25

	// MinTimeStep / MaxTimeStep bound set_time_step (§6).
	MinTimeStep = 0.01
	MaxTimeStep = 1.0

	// TargetPowerMax bounds set_target_power (§6).
	TargetPowerMax = 110.0

	// AxialFluxPoints is the minimum length of the published axial flux array (§6).
	AxialFluxPoints = 20

	// AlertPowerHigh is the bit-1 threshold, power%.
	AlertPowerHigh = 110.0
	// AlertDollarsWarn is the bit-2 threshold, $.
	AlertDollarsWarn = 0.5
	// AlertDollarsPromptCritical is the bit-4 threshold, $.
	AlertDollarsPromptCritical = 1.0
	// AlertFuelTempHigh is the bit-8 threshold, K.
	AlertFuelTempHigh = 1200.0
	// AlertVoidHigh is the bit-16 threshold, %.
	AlertVoidHigh = 50.0
	// AlertShortPeriod is the bit-32 threshold, s.
	AlertShortPeriod = 20.0

	// ExcursionEnterPowerPct is the power% above which the excursion-entered flag latches.
	ExcursionEnterPowerPct = 150.0
	// ExcursionExitPowerPct is the power% below which the excursion is considered over.
	ExcursionExitPowerPct = 50.0
	// ExcursionAccrualPowerPct is the power% above which excursion energy still accrues outside excursion.
	ExcursionAccrualPowerPct = 100.0

	// AutoRegulatorKp / Ki / Kd are the automatic regulator's PID gains (C8).
	AutoRegulatorKp = 0.02
	AutoRegulatorKi = 0.004
	AutoRegulatorKd = 0.01
	// AutoRegulatorDeadband is the power-error band, in percent, inside which the
	// regulator holds position rather than chasing noise.
	AutoRegulatorDeadband = 0.25
	// AutoRegulatorSlewPerSec bounds how fast the regulator may move its
	// commanded rod-group position, fraction of full travel per second.
	AutoRegulatorSlewPerSec = 0.05
	// AutoRegulatorIntegralMin / Max bound the regulator's integral accumulator
	// (anti-windup).
	AutoRegulatorIntegralMin = -50.0
	AutoRegulatorIntegralMax = 50.0

	// PeriodInfinity is the sentinel published when the reactor period is undefined.
	PeriodInfinity = math.MaxFloat64
	// PeriodMagnitudeSentinel is the |period| above which a finite value still maps to the sentinel.
	PeriodMagnitudeSentinel = 1e6
	// PeriodMinDeltaN is the minimum |Δn| for a period computation to be considered well-posed.
	PeriodMinDeltaN = 1e-10
)

// RodCategory enumerates control-rod / channel categories (§3).
type RodCategory uint8

const (
	// CategoryFuel marks a channel with no rod (pure fuel assembly).
	CategoryFuel RodCategory = iota
	// CategoryManualRod is an operator-driven manual control rod.
	CategoryManualRod
	// CategoryAutomaticRod is a rod under the global automatic regulator.
	CategoryAutomaticRod
	// CategoryLocalAutomaticRod is a rod under local automatic control.
	CategoryLocalAutomaticRod
	// CategoryShortenedRod is a shortened absorber rod (bottom-inserted).
	CategoryShortenedRod
	// CategoryEmergencyRod is a scram/emergency-protection rod.
	CategoryEmergencyRod
)

func (c RodCategory) String() string {
	switch c {
	case CategoryFuel:
		return "fuel"
	case CategoryManualRod:
		return "manual"
	case CategoryAutomaticRod:
		return "automatic"
	case CategoryLocalAutomaticRod:
		return "local-automatic"
	case CategoryShortenedRod:
		return "shortened"
	case CategoryEmergencyRod:
		return "emergency"
	default:
		return "unknown"
	}
}

// nominalWorth returns the category-dependent nominal reactivity worth of a
// fully-inserted rod of this category, Δk/k.
func (c RodCategory) nominalWorth() float64 {
	switch c {
	case CategoryManualRod:
		return 2.2e-3
	case CategoryAutomaticRod:
		return 1.0e-3
	case CategoryLocalAutomaticRod:
		return 0.6e-3
	case CategoryShortenedRod:
		return 1.4e-3
	case CategoryEmergencyRod:
		return 3.0e-3
	default:
		return 0
	}
}

// AlertFlag is a bit position in the alert-flag bank (C7).
type AlertFlag uint32

const (
	AlertPowerHighFlag      AlertFlag = 1 << 0
	AlertDollarsWarnFlag    AlertFlag = 1 << 1
	AlertPromptCriticalFlag AlertFlag = 1 << 2
	AlertFuelTempHighFlag   AlertFlag = 1 << 3
	AlertVoidHighFlag       AlertFlag = 1 << 4
	AlertShortPeriodFlag    AlertFlag = 1 << 5
)

// String renders an alert flag as a short tag, matching the §6 "tagged strings" requirement.
func (f AlertFlag) String() string {
	switch f {
	case AlertPowerHighFlag:
		return "POWER_HIGH"
	case AlertDollarsWarnFlag:
		return "REACTIVITY_WARN"
	case AlertPromptCriticalFlag:
		return "PROMPT_CRITICAL"
	case AlertFuelTempHighFlag:
		return "FUEL_TEMP_HIGH"
	case AlertVoidHighFlag:
		return "VOID_HIGH"
	case AlertShortPeriodFlag:
		return "SHORT_PERIOD"
	default:
		return "UNKNOWN"
	}
}
