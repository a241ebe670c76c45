package rbmk

import "testing"

func TestNewSpatialEngineColdShutdown(t *testing.T) {
	layout := DefaultLayout()
	e := NewSpatialEngine(layout)
	agg := e.Aggregate()
	if agg.AvgFuelTemp != FuelRefTemp {
		t.Fatalf("avg fuel temp = %v, want %v", agg.AvgFuelTemp, FuelRefTemp)
	}
	if agg.TotalPowerMW != 0 {
		t.Fatalf("expected zero total power at cold shutdown, got %v", agg.TotalPowerMW)
	}
}

func TestSpatialStepBuildsUpFuelTempUnderSustainedFlux(t *testing.T) {
	layout := DefaultLayout()
	e := NewSpatialEngine(layout)
	rods := buildRods(layout)
	for i := range e.Arrays.Flux {
		e.Arrays.Flux[i] = 1.0
	}
	for i := 0; i < 2000; i++ {
		e.Step(rods, 0, 0.1)
	}
	agg := e.Aggregate()
	if agg.AvgFuelTemp <= FuelRefTemp {
		t.Fatalf("expected fuel temperature to rise under sustained flux, got %v", agg.AvgFuelTemp)
	}
}

func TestSpatialStepProducesPositivePower(t *testing.T) {
	layout := DefaultLayout()
	e := NewSpatialEngine(layout)
	rods := buildRods(layout)
	for i := range e.Arrays.Flux {
		e.Arrays.Flux[i] = 1.0
	}
	e.Step(rods, 0, 0.1)
	agg := e.Aggregate()
	if agg.TotalPowerMW <= 0 {
		t.Fatalf("expected positive total power, got %v", agg.TotalPowerMW)
	}
}

func TestSpatialResetRestoresColdShutdown(t *testing.T) {
	layout := DefaultLayout()
	e := NewSpatialEngine(layout)
	rods := buildRods(layout)
	for i := range e.Arrays.Flux {
		e.Arrays.Flux[i] = 5.0
	}
	for i := 0; i < 50; i++ {
		e.Step(rods, 0, 0.1)
	}
	e.Reset()
	agg := e.Aggregate()
	if agg.AvgFuelTemp != FuelRefTemp {
		t.Fatalf("expected fuel temp reset to %v, got %v", FuelRefTemp, agg.AvgFuelTemp)
	}
	if agg.TotalPowerMW != 0 {
		t.Fatalf("expected zero power after reset, got %v", agg.TotalPowerMW)
	}
}

func TestSpatialChannelValuesStayWithinEnvelope(t *testing.T) {
	layout := DefaultLayout()
	e := NewSpatialEngine(layout)
	rods := buildRods(layout)
	for i := range e.Arrays.Flux {
		e.Arrays.Flux[i] = 3.0
	}
	for i := 0; i < 500; i++ {
		e.Step(rods, 0, 0.5)
	}
	for i, ft := range e.Arrays.FuelTemp {
		if ft < FuelTempMin || ft > FuelTempMax {
			t.Fatalf("channel %d fuel temp %v escaped envelope", i, ft)
		}
	}
	for i, ct := range e.Arrays.CoolantTemp {
		if ct < CoolantTempMin || ct > CoolantTempMax {
			t.Fatalf("channel %d coolant temp %v escaped envelope", i, ct)
		}
	}
}
