package rbmk

import (
	"math"

	"github.com/gonum/floats"
)

// spatialLambdaEff is the single-group effective decay constant used by the
// per-channel precursor approximation (§4.5 point 4: "single-group
// approximation per channel acceptable; six-group is the global
// integrator's responsibility"), computed as the β-weighted average of the
// six-group λ values.
var spatialLambdaEff = floats.Dot(groupBeta[:], groupLambda[:]) / floats.Sum(groupBeta[:])

// SpatialEngine is the per-channel finite-graph solver (C6): neighbor-
// coupled diffusion, per-channel feedback and xenon, graphite thermal
// exchange, and local rod peaking. All scratch buffers are allocated once
// in NewSpatialEngine and reused by every Step call, per the design note
// that the spatial pass must not allocate per step.
type SpatialEngine struct {
	Layout *CoreLayout
	Arrays *ChannelArrays

	shapeFactor   []float64 // precomputed radial-cosine shape factor, static geometry
	localRodWorth []float64 // scratch: distance-weighted local rod worth
	nextFlux      []float64 // scratch: next-step flux
	nextPrec      []float64 // scratch: next-step precursor
}

// NewSpatialEngine builds the engine over an immutable layout, precomputing
// the static radial shape factor from channel geometry.
func NewSpatialEngine(layout *CoreLayout) *SpatialEngine {
	n := layout.N()
	e := &SpatialEngine{
		Layout:        layout,
		Arrays:        NewChannelArrays(n),
		shapeFactor:   make([]float64, n),
		localRodWorth: make([]float64, n),
		nextFlux:      make([]float64, n),
		nextPrec:      make([]float64, n),
	}
	e.precomputeShape()
	return e
}

// Reset restores cold-shutdown initial conditions in the same ChannelArrays
// value (its per-channel slices are freshly allocated); the scratch buffers
// are kept.
func (e *SpatialEngine) Reset() {
	fresh := NewChannelArrays(e.Layout.N())
	*e.Arrays = *fresh
}

func (e *SpatialEngine) precomputeShape() {
	maxDist := 0.0
	for _, ch := range e.Layout.Channels {
		d := math.Hypot(ch.X, ch.Y)
		if d > maxDist {
			maxDist = d
		}
	}
	if maxDist == 0 {
		maxDist = 1
	}
	for i, ch := range e.Layout.Channels {
		d := math.Hypot(ch.X, ch.Y)
		shape := math.Cos(math.Pi / 2 * (d / maxDist))
		e.shapeFactor[i] = math.Max(ChannelShapeFloor, shape)
	}
}

// updateLocalRodWorth recomputes the distance-weighted local rod-worth
// field from current rod positions (§3: "local rod-worth field
// (distance-weighted from nearby rod insertions)").
func (e *SpatialEngine) updateLocalRodWorth(rods []*ControlRod) float64 {
	for i := range e.localRodWorth {
		e.localRodWorth[i] = 0
	}
	channels := e.Layout.Channels
	for _, r := range rods {
		inserted := rodWorth(r.Position, r.NominalWorth)
		if inserted <= 0 {
			continue
		}
		rc := channels[r.ChannelIndex]
		for i, ch := range channels {
			dist := math.Hypot(ch.X-rc.X, ch.Y-rc.Y)
			weight := 1.0 / (1.0 + dist/ChannelPitch)
			e.localRodWorth[i] += inserted * weight
		}
	}
	maxWorth := 0.0
	for _, w := range e.localRodWorth {
		if w > maxWorth {
			maxWorth = w
		}
	}
	copy(e.Arrays.LocalRodWorth, e.localRodWorth)
	return maxWorth
}

// Step advances every channel by one explicit-Euler substep (§4.5).
func (e *SpatialEngine) Step(rods []*ControlRod, globalRodWorth float64, dt float64) {
	n := e.Layout.N()
	maxLocalWorth := e.updateLocalRodWorth(rods)
	nominalPerChannel := PNominalMW / float64(n)
	powerFloor := ChannelPowerFloorFrac * nominalPerChannel

	a := e.Arrays
	for i := 0; i < n; i++ {
		doppler := DopplerCoeff * (a.FuelTemp[i] - FuelRefTemp)
		graphite := GraphiteCoeff * (a.GraphiteTemp[i] - GraphiteRefTemp)
		void := VoidCoeff * a.Void[i]
		xenon := -XenonMicroXSTerm * a.Xenon[i]

		localRho := RhoBase + doppler + graphite + void + xenon -
			globalRodWorth - LocalRodPeakReactivityMult*e.localRodWorth[i]
		localRho = clamp(localRho, LocalReactivityClampLow, LocalReactivityClampHigh)
		a.LocalReactivity[i] = localRho

		k := localKEff(localRho)

		diffusion := 0.0
		neighbors := e.Layout.NeighborsOf(i)
		for _, nb := range neighbors {
			if nb == noNeighbor {
				continue
			}
			diffusion += a.Flux[nb] - a.Flux[i]
		}
		diffusion *= DiffusionCoeff / (ChannelPitch * ChannelPitch)

		prompt := (1 - BetaEff) * (k - 1) / Lambda * a.Flux[i]
		delayed := spatialLambdaEff * a.Precursor[i]

		dPhi := diffusion + prompt + delayed
		dC := BetaEff/Lambda*a.Flux[i] - spatialLambdaEff*a.Precursor[i]

		e.nextFlux[i] = clampNonNeg(sanitize(a.Flux[i]+dPhi*dt, NeutronPopulationMin, math.MaxFloat64))
		if e.nextFlux[i] < NeutronPopulationMin {
			e.nextFlux[i] = NeutronPopulationMin
		}
		e.nextPrec[i] = clampNonNeg(sanitize(a.Precursor[i]+dC*dt, 0, math.MaxFloat64))
	}
	copy(a.Flux, e.nextFlux)
	copy(a.Precursor, e.nextPrec)

	for i := 0; i < n; i++ {
		peaking := 1 + (maxLocalWorth-e.localRodWorth[i])*LocalRodPeakPowerMult
		power := a.Flux[i] * e.shapeFactor[i] * peaking * nominalPerChannel
		if power < powerFloor {
			power = powerFloor
		}
		a.Power[i] = power

		channelPowerPct := power / nominalPerChannel * 100

		coolant := a.CoolantTemp[i]
		graphite := a.GraphiteTemp[i]
		voidFrac := a.Void[i]
		pf := clamp(channelPowerPct/100, 0, 10)

		fuel := clamp(sanitize(lerp(a.FuelTemp[i], targetFuelTemp(pf), expLagMix(dt, FuelThermalTau)), FuelTempMin, FuelTempMax), FuelTempMin, FuelTempMax)
		a.FuelTemp[i] = fuel

		coolant = clamp(sanitize(lerp(coolant, coolantTarget(pf), expLagMix(dt, CoolantThermalTau)), CoolantTempMin, CoolantTempMax), CoolantTempMin, CoolantTempMax)
		graphite = clamp(sanitize(lerp(graphite, graphiteTarget(pf), expLagMix(dt, GraphiteThermalTau)), GraphiteTempMin, GraphiteTempMax), GraphiteTempMin, GraphiteTempMax)
		voidFrac = clamp(sanitize(lerp(voidFrac, voidTarget(coolant), expLagMix(dt, VoidTau)), VoidFractionMin, VoidFractionMax), VoidFractionMin, VoidFractionMax)

		exchange := 0.0
		neighbors := e.Layout.NeighborsOf(i)
		for _, nb := range neighbors {
			if nb == noNeighbor {
				continue
			}
			exchange += GraphiteExchangeCoeff * (a.GraphiteTemp[nb] - a.GraphiteTemp[i])
		}
		graphite += exchange / (GraphiteThermalTau * 1000) * dt
		graphite = clamp(sanitize(graphite, GraphiteTempMin, GraphiteTempMax), GraphiteTempMin, GraphiteTempMax)

		a.CoolantTemp[i] = coolant
		a.GraphiteTemp[i] = graphite
		a.Void[i] = voidFrac

		var xe XenonState
		xe.Iodine, xe.Xenon = a.Iodine[i], a.Xenon[i]
		xe.Step(channelPowerPct, a.Flux[i], dt)
		a.Iodine[i], a.Xenon[i] = xe.Iodine, xe.Xenon
	}
}

// localKEff applies the same singular guard as the global k-eff derivation
// (§4.5 point 2), to the local per-channel reactivity.
func localKEff(rho float64) float64 {
	return KEff(rho)
}

// SpatialAggregate is the reduction of per-channel state to the global
// averages the state facade publishes (§4.5 "Aggregate reduction", I6):
// arithmetic means for temperatures/void/xenon, sums for power and
// population.
type SpatialAggregate struct {
	AvgFuelTemp     float64
	AvgCoolantTemp  float64
	AvgGraphiteTemp float64
	AvgVoid         float64
	AvgXenon        float64
	TotalPowerMW    float64
	TotalFlux       float64
}

// Aggregate reduces channel arrays using gonum/floats, matching the domain
// stack's commitment to lean on gonum/floats for vector reductions rather
// than hand-rolled summation loops.
func (e *SpatialEngine) Aggregate() SpatialAggregate {
	a := e.Arrays
	return SpatialAggregate{
		AvgFuelTemp:     floats.Sum(a.FuelTemp) / float64(len(a.FuelTemp)),
		AvgCoolantTemp:  floats.Sum(a.CoolantTemp) / float64(len(a.CoolantTemp)),
		AvgGraphiteTemp: floats.Sum(a.GraphiteTemp) / float64(len(a.GraphiteTemp)),
		AvgVoid:         floats.Sum(a.Void) / float64(len(a.Void)),
		AvgXenon:        floats.Sum(a.Xenon) / float64(len(a.Xenon)),
		TotalPowerMW:    floats.Sum(a.Power),
		TotalFlux:       floats.Sum(a.Flux),
	}
}
