package rbmk

import "testing"

func TestNewCoreDefaultLayoutColdShutdown(t *testing.T) {
	c, err := NewCore(nil)
	if err != nil {
		t.Fatalf("NewCore(nil) returned error: %v", err)
	}
	if c.SimTime() != 0 {
		t.Fatalf("SimTime() = %v, want 0", c.SimTime())
	}
	if c.TimeStep() != 0.1 {
		t.Fatalf("TimeStep() = %v, want 0.1", c.TimeStep())
	}
	if len(c.Rods) == 0 {
		t.Fatal("expected a non-empty rod set from the default layout")
	}
}

// TestNewCoreRefusesBetaSumDivergingFromBetaEff exercises §7's
// construction-time consistency check: a six-group beta table that sums to
// something far from BetaEff must fail NewCore rather than silently run
// with inconsistent physics.
func TestNewCoreRefusesBetaSumDivergingFromBetaEff(t *testing.T) {
	saved := groupBeta
	defer func() { groupBeta = saved }()

	groupBeta = [6]float64{0.05, 0.05, 0.05, 0.05, 0.05, 0.05} // sums to 0.3, far from BetaEff
	if _, err := NewCore(nil); err == nil {
		t.Fatal("expected NewCore to refuse construction when the beta sum diverges from BetaEff by more than 1%")
	}
}

// TestNewCoreAcceptsBetaSumWithinTolerance checks the default six-group
// table (which sums to BetaEff within a fraction of a percent) still
// constructs cleanly, so the new divergence check does not reject the
// reference data it was written to validate.
func TestNewCoreAcceptsBetaSumWithinTolerance(t *testing.T) {
	if _, err := NewCore(nil); err != nil {
		t.Fatalf("NewCore(nil) with the reference six-group table returned error: %v", err)
	}
}

func TestCoreSetTimeStepClamps(t *testing.T) {
	c, _ := NewCore(nil)
	c.SetTimeStep(MaxTimeStep * 10)
	if c.TimeStep() != MaxTimeStep {
		t.Fatalf("TimeStep() = %v, want clamped to %v", c.TimeStep(), MaxTimeStep)
	}
	c.SetTimeStep(-1)
	if c.TimeStep() != MinTimeStep {
		t.Fatalf("TimeStep() = %v, want clamped to %v", c.TimeStep(), MinTimeStep)
	}
}

func TestCoreSetTargetPowerClamps(t *testing.T) {
	c, _ := NewCore(nil)
	c.SetTargetPower(-10)
	if c.Regulator.Target != 0 {
		t.Fatalf("Target = %v, want clamped to 0", c.Regulator.Target)
	}
	c.SetTargetPower(TargetPowerMax * 10)
	if c.Regulator.Target != TargetPowerMax {
		t.Fatalf("Target = %v, want clamped to %v", c.Regulator.Target, TargetPowerMax)
	}
}

func TestCoreAdvanceStepMovesSimClockForward(t *testing.T) {
	c, _ := NewCore(nil)
	c.SetTimeStep(0.1)
	c.AdvanceStep()
	if c.SimTime() != 0.1 {
		t.Fatalf("SimTime() = %v, want 0.1", c.SimTime())
	}
}

func TestCoreScramRejectsRodCommands(t *testing.T) {
	c, _ := NewCore(nil)
	c.Scram()
	before := c.Rods[0].Position
	c.SetGroupPosition(c.Rods[0].Category, 0.75)
	if c.Rods[0].Position != before {
		t.Fatalf("expected rod command to be rejected during scram, position changed from %v to %v", before, c.Rods[0].Position)
	}
	c.SetIndividualRod(c.Rods[0].Index, 0.75)
	if c.Rods[0].Position != before {
		t.Fatalf("expected individual rod command to be rejected during scram, position changed from %v to %v", before, c.Rods[0].Position)
	}
}

func TestCoreScramIsIdempotent(t *testing.T) {
	c, _ := NewCore(nil)
	c.Scram()
	c.AdvanceStep()
	firstScramTime := c.scramTime
	c.Scram()
	if c.scramTime != firstScramTime {
		t.Fatal("expected a second Scram() call to be a no-op once already latched")
	}
}

func TestCoreResetClearsScramAndExplosionLatches(t *testing.T) {
	c, _ := NewCore(nil)
	c.Scram()
	c.Safety.ExplosionOccurred = true
	c.Safety.ExplosionTime = 42
	c.Reset()
	if c.scramActive {
		t.Fatal("expected Reset to clear the scram latch")
	}
	if c.Safety.ExplosionOccurred {
		t.Fatal("expected Reset to clear the explosion latch")
	}
	if c.SimTime() != 0 {
		t.Fatalf("SimTime() = %v, want 0 after Reset", c.SimTime())
	}
	for _, r := range c.Rods {
		if r.Position != 0 {
			t.Fatalf("rod %d position = %v, want 0 after Reset", r.Index, r.Position)
		}
	}
}

func TestCoreGetFuelChannelByIndexBounds(t *testing.T) {
	c, _ := NewCore(nil)
	if _, ok := c.GetFuelChannelByIndex(-1); ok {
		t.Fatal("expected out-of-range index to return ok=false")
	}
	n := len(c.GetFuelChannels())
	if _, ok := c.GetFuelChannelByIndex(n); ok {
		t.Fatal("expected one-past-the-end index to return ok=false")
	}
	if _, ok := c.GetFuelChannelByIndex(0); !ok {
		t.Fatal("expected index 0 to be valid")
	}
}

func TestCoreSnapshotStreamsToSink(t *testing.T) {
	c, _ := NewCore(nil)
	ch := make(chan Snapshot, 4)
	c.SetSnapshotSink(ch)
	c.AdvanceStep()
	select {
	case s := <-ch:
		if s.Time != c.SimTime() {
			t.Fatalf("streamed snapshot time = %v, want %v", s.Time, c.SimTime())
		}
	default:
		t.Fatal("expected a snapshot to be published to the sink after AdvanceStep")
	}
}

func TestCoreAdvanceRealtimeCapsPerCall(t *testing.T) {
	c, _ := NewCore(nil)
	c.SetTimeStep(0.1)
	c.AdvanceRealtime(MaxSimSecondsPerAdvance*10, 1)
	if c.SimTime() > MaxSimSecondsPerAdvance+c.TimeStep() {
		t.Fatalf("SimTime() = %v, expected to be capped near %v", c.SimTime(), MaxSimSecondsPerAdvance)
	}
}

func TestCoreAdvanceRealtimeHonoursSpeedMultiplier(t *testing.T) {
	c1, _ := NewCore(nil)
	c1.SetTimeStep(0.1)
	c1.AdvanceRealtime(0.1, 1)

	c2, _ := NewCore(nil)
	c2.SetTimeStep(0.1)
	c2.AdvanceRealtime(0.1, 2)

	if c2.SimTime() <= c1.SimTime() {
		t.Fatalf("expected a 2x speed multiplier to absorb more simulated time: got %v vs %v", c2.SimTime(), c1.SimTime())
	}
	if c2.SimTime() > 2*c1.SimTime()+1e-9 {
		t.Fatalf("expected speed=2 to absorb roughly twice the simulated time of speed=1, got %v vs %v", c2.SimTime(), c1.SimTime())
	}
}

func TestCoreAdvanceIsNoOpAfterExplosionLatch(t *testing.T) {
	c, _ := NewCore(nil)
	c.Safety.ExplosionOccurred = true
	c.Safety.ExplosionTime = 7
	before := c.Snapshot()
	c.AdvanceStep()
	c.AdvanceRealtime(10, 1)
	after := c.Snapshot()
	if after.Time != before.Time {
		t.Fatalf("expected advance_* to be a no-op once the explosion latch is set, time moved from %v to %v", before.Time, after.Time)
	}
	if !after.ExplosionOccurred || after.ExplosionTime != 7 {
		t.Fatal("expected the frozen snapshot to still report the original explosion trip")
	}
}

func TestCoreAdvanceStepReturnsMatchingSnapshot(t *testing.T) {
	c, _ := NewCore(nil)
	c.SetTimeStep(0.1)
	s := c.AdvanceStep()
	if s.Time != c.SimTime() {
		t.Fatalf("returned snapshot time = %v, want %v", s.Time, c.SimTime())
	}
}

func TestCoreScramAndResetReturnSnapshots(t *testing.T) {
	c, _ := NewCore(nil)
	s := c.Scram()
	if !s.ScramActive {
		t.Fatal("expected Scram() to return a snapshot with ScramActive true")
	}
	s = c.Reset()
	if s.ScramActive {
		t.Fatal("expected Reset() to return a snapshot with ScramActive false")
	}
}

func TestCoreGetThreeDDataExposesLayoutRodsAndFlux(t *testing.T) {
	c, _ := NewCore(nil)
	data := c.GetThreeDData()
	if data.Layout.N() != len(data.Flux) {
		t.Fatalf("flux array length = %d, want %d to match layout channel count", len(data.Flux), data.Layout.N())
	}
	if len(data.Rods) != len(c.Rods) {
		t.Fatalf("rod count = %d, want %d", len(data.Rods), len(c.Rods))
	}
	for i, r := range data.Rods {
		if r.Position != c.Rods[i].Position {
			t.Fatalf("rod %d position = %v, want %v", i, r.Position, c.Rods[i].Position)
		}
	}
}
