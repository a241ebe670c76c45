package rbmk

import (
	"fmt"
	"math"
	"os"

	kitlog "github.com/go-kit/kit/log"
)

// coreLogInit initializes the structured logger used by Core: logfmt to
// stdout, tagged with a fixed key so every line is attributable to this
// subsystem.
func coreLogInit(name string) kitlog.Logger {
	klog := kitlog.NewLogfmtLogger(kitlog.NewSyncWriter(os.Stdout))
	klog = kitlog.With(klog, "reactor", name, "ts", kitlog.DefaultTimestampUTC)
	return klog
}

// Core is the simulation driver (C9): owns every component and dispatches
// one substep across all of them in the fixed order §4.8 specifies.
type Core struct {
	Layout     *CoreLayout
	Rods       []*ControlRod
	Kinetics   *KineticsState
	Reactivity *ReactivityNetwork
	Thermal    ThermalState
	Xenon      XenonState
	Spatial    *SpatialEngine
	Safety     SafetyMonitor
	Regulator  *AutoRegulator

	dt   float64
	time float64

	scramActive  bool
	scramTime    float64
	scramElapsed float64

	logger   kitlog.Logger
	snapshot chan<- Snapshot
}

// NewCore constructs a Core over the given layout (DefaultLayout() if nil),
// validating the six-group delayed-neutron data at construction time rather
// than deep inside the hot loop, and returns an error instead of a
// half-built core when that validation fails.
func NewCore(layout *CoreLayout) (*Core, error) {
	if layout == nil {
		layout = DefaultLayout()
	}
	betaSum := 0.0
	for _, b := range groupBeta {
		betaSum += b
	}
	if betaSum <= 0 || betaSum > 1 {
		return nil, fmt.Errorf("rbmk: invalid six-group beta sum %.6g, must be in (0,1]", betaSum)
	}
	if deviation := math.Abs(betaSum-BetaEff) / BetaEff; deviation > BetaSumMaxDeviation {
		return nil, fmt.Errorf("rbmk: six-group beta sum %.6g diverges from BetaEff %.6g by %.2f%%, must be within %.0f%%",
			betaSum, BetaEff, deviation*100, BetaSumMaxDeviation*100)
	}

	c := &Core{
		Layout:     layout,
		Rods:       buildRods(layout),
		Kinetics:   NewKineticsState(NeutronPopulationMin),
		Reactivity: NewReactivityNetwork(),
		Thermal:    NewThermalState(),
		Spatial:    NewSpatialEngine(layout),
		Regulator:  NewAutoRegulator(),
		dt:         0.1,
		logger:     coreLogInit("RBMK-1000"),
	}
	c.logger.Log("level", "info", "subsys", "core", "message", "initialised", "channels", layout.N(), "rods", len(c.Rods))
	return c, nil
}

// SetSnapshotSink installs a channel every advance publishes a Snapshot to,
// a buffered history stream a consumer can drain with StreamSnapshots.
// Passing nil disables streaming.
func (c *Core) SetSnapshotSink(ch chan<- Snapshot) {
	c.snapshot = ch
}

// SetTimeStep clamps and applies the simulation time step (§6).
func (c *Core) SetTimeStep(dt float64) {
	c.dt = clamp(dt, MinTimeStep, MaxTimeStep)
}

// TimeStep returns the currently configured simulation time step.
func (c *Core) TimeStep() float64 {
	return c.dt
}

// SimTime returns the current simulation clock, in seconds since the last
// Reset.
func (c *Core) SimTime() float64 {
	return c.time
}

// SetTargetPower clamps and applies the automatic regulator's target power
// percentage (§6).
func (c *Core) SetTargetPower(pct float64) {
	c.Regulator.Target = clamp(pct, 0, TargetPowerMax)
}

// SetAutoRegulatorEnabled toggles the automatic regulator.
func (c *Core) SetAutoRegulatorEnabled(enabled bool) {
	c.Regulator.Enabled = enabled
}

// SetGroupPosition commands every rod of a category to a clamped position,
// rejected while scrammed (a scram owns rod position until Reset).
func (c *Core) SetGroupPosition(cat RodCategory, position float64) {
	if c.scramActive {
		c.logger.Log("level", "warning", "subsys", "core", "message", "rod command ignored during scram", "category", cat)
		return
	}
	setGroupPosition(c.Rods, cat, position)
}

// SetIndividualRod commands a single rod by index, also rejected during
// scram.
func (c *Core) SetIndividualRod(index int, position float64) {
	if c.scramActive {
		c.logger.Log("level", "warning", "subsys", "core", "message", "rod command ignored during scram", "index", index)
		return
	}
	for _, r := range c.Rods {
		if r.Index == index {
			r.Position = clamp(position, 0, 1)
			return
		}
	}
}

// Scram triggers an emergency shutdown: rod positions are latched so the
// emergency ramp has a well-defined start, and further manual rod commands
// are rejected until Reset. Returns the resulting snapshot (§6).
func (c *Core) Scram() Snapshot {
	if c.scramActive {
		return c.Snapshot()
	}
	c.scramActive = true
	c.scramTime = c.time
	c.scramElapsed = 0
	latchPreScramPositions(c.Rods)
	c.logger.Log("level", "critical", "subsys", "core", "message", "scram", "time", c.time)
	return c.Snapshot()
}

// Reset restores every component to its cold-shutdown initial condition and
// clears the scram and explosion latches (the only legitimate way to clear
// the explosion latch, per I4). Returns the resulting snapshot (§6).
func (c *Core) Reset() Snapshot {
	c.time = 0
	c.dt = 0.1
	c.scramActive = false
	c.scramTime = 0
	c.scramElapsed = 0
	c.Kinetics.Reset(NeutronPopulationMin)
	c.Reactivity.Reset()
	c.Thermal = NewThermalState()
	c.Xenon = XenonState{}
	c.Spatial.Reset()
	c.Safety.Reset()
	c.Regulator.Reset()
	for _, r := range c.Rods {
		r.Position = 0
		r.LatchedPreScramPosit = 0
	}
	c.logger.Log("level", "notice", "subsys", "core", "message", "reset")
	return c.Snapshot()
}

// AdvanceStep dispatches exactly one substep of length c.dt in the §4.8
// component order: reactivity, kinetics, thermal, fission products, spatial
// pass, safety/explosion. Once the explosion latch is set, this is a no-op
// that returns the frozen state (§4.8, §7): the current substep is always
// allowed to finish before the freeze takes effect, so the guard only blocks
// the *next* call, never an in-flight one. Returns the resulting snapshot
// (§6).
func (c *Core) AdvanceStep() Snapshot {
	if c.Safety.ExplosionOccurred {
		return c.Snapshot()
	}
	dt := c.dt
	if c.scramActive {
		c.scramElapsed += dt
	}

	if c.Regulator.Enabled && !c.scramActive {
		autoRods := rodsInGroup(c.Rods, CategoryAutomaticRod)
		pos := c.Regulator.Step(c.powerPercent(), dt)
		for _, r := range autoRods {
			r.Position = pos
		}
	}

	rodWorthTerm := RodWorthContribution(c.Rods, c.scramActive, c.scramElapsed)
	rho := c.Reactivity.Step(c.Kinetics.Tf, c.Thermal.Graphite, c.Thermal.Void, c.Xenon.Xenon, rodWorthTerm, c.scramActive, dt)

	c.Kinetics.Advance(dt, rho, 0)

	powerPct := c.powerPercent()
	c.Thermal.Step(powerPct, dt)
	c.Xenon.Step(powerPct, c.Kinetics.N, dt)

	c.Spatial.Step(c.Rods, rodWorthTerm, dt)

	wasExploded := c.Safety.ExplosionOccurred
	period := c.Kinetics.Period(dt)
	c.Safety.Evaluate(powerPct, Dollars(rho), c.Kinetics.Tf, c.Thermal.Coolant, c.Thermal.Void, period, dt, c.time)
	if c.Safety.ExplosionOccurred && !wasExploded {
		c.logger.Log("level", "critical", "subsys", "safety", "message", "explosion", "time", c.Safety.ExplosionTime)
	}

	c.time += dt
	snap := c.Snapshot()
	if c.snapshot != nil {
		c.snapshot <- snap
	}
	return snap
}

// AdvanceRealtime is the §6 advance_realtime entry point: it converts a
// wall-clock delta and a speed multiplier into simulated time
// (Δt_sim = wallSeconds·speed, §4.8), dispatching as many substeps of at
// most c.dt as needed to absorb it. The simulated time absorbed by one call
// is capped at MaxSimSecondsPerAdvance, dropping any excess (§5's runaway-
// backlog rule), and a negative or non-finite speed is treated as zero.
// Returns the snapshot after the last substep dispatched, or the current
// state unchanged if none were (§6).
func (c *Core) AdvanceRealtime(wallSeconds, speed float64) Snapshot {
	if math.IsNaN(speed) || math.IsInf(speed, 0) || speed < 0 {
		speed = 0
	}
	simSeconds := clamp(wallSeconds, 0, math.MaxFloat64) * speed
	remaining := clamp(simSeconds, 0, MaxSimSecondsPerAdvance)
	for remaining > 0 {
		if c.Safety.ExplosionOccurred {
			return c.Snapshot()
		}
		step := c.dt
		if step > remaining {
			step = remaining
		}
		saved := c.dt
		c.dt = step
		c.AdvanceStep()
		c.dt = saved
		remaining -= step
	}
	return c.Snapshot()
}

// powerPercent derives the published power percentage from neutron
// population, with n=1 defined as 100% nominal.
func (c *Core) powerPercent() float64 {
	return c.Kinetics.N * 100
}

// GetFuelChannels returns a read-only snapshot of every channel (§6).
func (c *Core) GetFuelChannels() []FuelChannelState {
	return c.Spatial.Arrays.All()
}

// GetFuelChannelByIndex returns a single channel's snapshot, and whether
// the index was valid.
func (c *Core) GetFuelChannelByIndex(i int) (FuelChannelState, bool) {
	if i < 0 || i >= c.Spatial.Arrays.N() {
		return FuelChannelState{}, false
	}
	return c.Spatial.Arrays.At(i), true
}

// GetChannelsByCategory returns the channel indices belonging to a rod
// category, a convenience read over the layout.
func (c *Core) GetChannelsByCategory(cat RodCategory) []int {
	return c.Layout.ChannelsByCategory(cat)
}
