package rbmk

import "math"

// Snapshot is the immutable external view of the core's state (C10, §6):
// every field a consumer can read without touching component internals.
// Nothing in the simulation writes back into a Snapshot once built (I6).
type Snapshot struct {
	Time float64
	Dt   float64

	PowerMW           float64
	PowerPercent      float64
	NeutronPopulation float64
	Precursors        float64
	KEff              float64
	Reactivity        float64
	ReactivityDollars float64
	Period            float64

	Iodine135       float64
	Xenon135        float64
	XenonReactivity float64

	AvgFuelTemp     float64
	AvgCoolantTemp  float64
	AvgGraphiteTemp float64
	AvgCoolantVoid  float64

	ScramActive bool
	ScramTime   float64

	AutoRegulatorEnabled   bool
	AutoRegulatorTarget    float64
	AutoRegulatorPosition  float64
	AutoRegulatorKp        float64
	AutoRegulatorKi        float64
	AutoRegulatorKd        float64
	AutoRegulatorDeadband  float64
	AutoRegulatorSlewLimit float64
	AutoRegulatorIntegral  float64
	AutoRegulatorLastError float64

	AxialFlux []float64

	Alerts            []string
	ExcursionActive   bool
	ExcursionEnergy   float64
	PeakPowerPercent  float64
	PeakFuelTemp      float64
	ExplosionOccurred bool
	ExplosionTime     float64
}

// Snapshot builds the current immutable state view. Every value is copied
// out of the live component state, so mutating the returned Snapshot (or a
// consumer holding it across a later AdvanceStep) cannot affect the core.
func (c *Core) Snapshot() Snapshot {
	agg := c.Spatial.Aggregate()
	rho := c.Reactivity.Rho
	regKp, regKi, regKd := c.Regulator.Gains()

	return Snapshot{
		Time: c.time,
		Dt:   c.dt,

		PowerMW:           agg.TotalPowerMW,
		PowerPercent:      c.powerPercent(),
		NeutronPopulation: c.Kinetics.N,
		Precursors:        c.Kinetics.PrecursorSum(),
		KEff:              KEff(rho),
		Reactivity:        rho,
		ReactivityDollars: Dollars(rho),
		Period:            c.Kinetics.Period(c.dt),

		Iodine135:       c.Xenon.Iodine,
		Xenon135:        c.Xenon.Xenon,
		XenonReactivity: c.Xenon.XenonReactivity(),

		AvgFuelTemp:     agg.AvgFuelTemp,
		AvgCoolantTemp:  agg.AvgCoolantTemp,
		AvgGraphiteTemp: agg.AvgGraphiteTemp,
		AvgCoolantVoid:  agg.AvgVoid,

		ScramActive: c.scramActive,
		ScramTime:   c.scramTime,

		AutoRegulatorEnabled:   c.Regulator.Enabled,
		AutoRegulatorTarget:    c.Regulator.Target,
		AutoRegulatorPosition:  c.Regulator.Position(),
		AutoRegulatorKp:        regKp,
		AutoRegulatorKi:        regKi,
		AutoRegulatorKd:        regKd,
		AutoRegulatorDeadband:  c.Regulator.Deadband(),
		AutoRegulatorSlewLimit: c.Regulator.SlewLimit(),
		AutoRegulatorIntegral:  c.Regulator.Integral(),
		AutoRegulatorLastError: c.Regulator.LastError(),

		AxialFlux: c.axialFluxProfile(),

		Alerts:            c.Safety.ActiveAlerts(),
		ExcursionActive:   c.Safety.ExcursionActive(),
		ExcursionEnergy:   c.Safety.ExcursionEnergyMJ(),
		PeakPowerPercent:  c.Safety.PeakPowerPercent,
		PeakFuelTemp:      c.Safety.PeakFuelTemp,
		ExplosionOccurred: c.Safety.ExplosionOccurred,
		ExplosionTime:     c.Safety.ExplosionTime,
	}
}

// ThreeDRod is one control rod's published position for the external
// renderer (§6 get_3d_data): rendering never reaches into ControlRod
// internals directly, only this read-only projection.
type ThreeDRod struct {
	Index        int
	ChannelIndex int
	Category     RodCategory
	Position     float64
}

// ThreeDData is the read-only {layout, rods, flux} bundle the out-of-scope
// 3-D renderer consumes (§1, §6 get_3d_data). It carries no behavior of its
// own; the core publishes it and never subscribes back to anything the
// renderer does with it (§9's "no observer callbacks, no implicit
// broadcasts" design note).
type ThreeDData struct {
	Layout *CoreLayout
	Rods   []ThreeDRod
	Flux   []float64
}

// GetThreeDData implements the §6 get_3d_data operation: the immutable
// layout, a read-only rod-position projection, and the current per-channel
// flux array in stable index order.
func (c *Core) GetThreeDData() ThreeDData {
	rods := make([]ThreeDRod, len(c.Rods))
	for i, r := range c.Rods {
		rods[i] = ThreeDRod{
			Index:        r.Index,
			ChannelIndex: r.ChannelIndex,
			Category:     r.Category,
			Position:     r.Position,
		}
	}
	flux := make([]float64, c.Spatial.Arrays.N())
	copy(flux, c.Spatial.Arrays.Flux)
	return ThreeDData{Layout: c.Layout, Rods: rods, Flux: flux}
}

// axialFluxProfile synthesizes a fundamental-mode cosine axial flux shape
// over AxialFluxPoints nodes from the core's total radial flux. The lattice
// model here is two-dimensional (radial, per-channel); axial resolution is
// out of scope, so this publishes the textbook extruded-core axial shape
// rather than an independently-solved third dimension.
func (c *Core) axialFluxProfile() []float64 {
	n := AxialFluxPoints
	out := make([]float64, n)
	totalFlux := c.Spatial.Aggregate().TotalFlux
	perNode := totalFlux / float64(n)
	for i := 0; i < n; i++ {
		frac := (float64(i) + 0.5) / float64(n)
		shape := math.Cos(math.Pi * (frac - 0.5))
		if shape < 0.05 {
			shape = 0.05
		}
		out[i] = perNode * shape
	}
	return out
}
