package rbmk

import "testing"

func TestSnapshotFieldsAtColdShutdown(t *testing.T) {
	c, _ := NewCore(nil)
	s := c.Snapshot()
	if s.ScramActive {
		t.Fatal("expected ScramActive false at cold shutdown")
	}
	if s.ExplosionOccurred {
		t.Fatal("expected ExplosionOccurred false at cold shutdown")
	}
	if s.PowerMW != 0 {
		t.Fatalf("PowerMW = %v, want 0 at cold shutdown", s.PowerMW)
	}
	if len(s.AxialFlux) != AxialFluxPoints {
		t.Fatalf("len(AxialFlux) = %d, want %d", len(s.AxialFlux), AxialFluxPoints)
	}
}

func TestSnapshotReflectsScramState(t *testing.T) {
	c, _ := NewCore(nil)
	c.Scram()
	s := c.Snapshot()
	if !s.ScramActive {
		t.Fatal("expected ScramActive true after Scram()")
	}
}

func TestSnapshotIsIndependentOfLaterAdvances(t *testing.T) {
	c, _ := NewCore(nil)
	s := c.Snapshot()
	timeAtSnapshot := s.Time
	c.AdvanceStep()
	c.AdvanceStep()
	if s.Time != timeAtSnapshot {
		t.Fatal("expected a previously taken Snapshot to be unaffected by later AdvanceStep calls")
	}
}

func TestSnapshotAxialFluxIsNonNegative(t *testing.T) {
	c, _ := NewCore(nil)
	for i := 0; i < 20; i++ {
		c.AdvanceStep()
	}
	s := c.Snapshot()
	for i, v := range s.AxialFlux {
		if v < 0 {
			t.Fatalf("axial flux node %d = %v, want non-negative", i, v)
		}
	}
}

func TestSnapshotAutoRegulatorFieldsReflectCore(t *testing.T) {
	c, _ := NewCore(nil)
	c.SetAutoRegulatorEnabled(true)
	c.SetTargetPower(85)
	s := c.Snapshot()
	if !s.AutoRegulatorEnabled {
		t.Fatal("expected AutoRegulatorEnabled true in snapshot")
	}
	if s.AutoRegulatorTarget != 85 {
		t.Fatalf("AutoRegulatorTarget = %v, want 85", s.AutoRegulatorTarget)
	}
	if s.AutoRegulatorKp == 0 && s.AutoRegulatorKi == 0 && s.AutoRegulatorKd == 0 {
		t.Fatal("expected the snapshot to carry nonzero PID gains")
	}
	if s.AutoRegulatorDeadband != AutoRegulatorDeadband {
		t.Fatalf("AutoRegulatorDeadband = %v, want %v", s.AutoRegulatorDeadband, AutoRegulatorDeadband)
	}
	if s.AutoRegulatorSlewLimit != AutoRegulatorSlewPerSec {
		t.Fatalf("AutoRegulatorSlewLimit = %v, want %v", s.AutoRegulatorSlewLimit, AutoRegulatorSlewPerSec)
	}
}
