package rbmk

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
)

// ExportConfig configures how StreamSnapshots renders the snapshot stream
// (C9/C10): CSV and/or JSON, the two formats that make sense for a scalar
// time series.
type ExportConfig struct {
	AsCSV  bool
	AsJSON bool
}

// IsUseless reports whether this config would write nothing at all.
func (c ExportConfig) IsUseless() bool {
	return !c.AsCSV && !c.AsJSON
}

// csvHeader lists the scalar Snapshot fields rendered by the CSV writer, in
// column order.
var csvHeader = []string{
	"time", "dt", "power_mw", "power_percent", "neutron_population",
	"precursors", "k_eff", "reactivity", "reactivity_dollars", "period",
	"iodine_135", "xenon_135", "xenon_reactivity",
	"avg_fuel_temp", "avg_coolant_temp", "avg_graphite_temp", "avg_coolant_void",
	"scram_active", "explosion_occurred",
}

func csvRow(s Snapshot) []string {
	f := strconv.FormatFloat
	return []string{
		f(s.Time, 'f', -1, 64), f(s.Dt, 'f', -1, 64),
		f(s.PowerMW, 'f', -1, 64), f(s.PowerPercent, 'f', -1, 64), f(s.NeutronPopulation, 'g', -1, 64),
		f(s.Precursors, 'g', -1, 64), f(s.KEff, 'f', -1, 64), f(s.Reactivity, 'g', -1, 64), f(s.ReactivityDollars, 'f', -1, 64), f(s.Period, 'g', -1, 64),
		f(s.Iodine135, 'g', -1, 64), f(s.Xenon135, 'g', -1, 64), f(s.XenonReactivity, 'g', -1, 64),
		f(s.AvgFuelTemp, 'f', -1, 64), f(s.AvgCoolantTemp, 'f', -1, 64), f(s.AvgGraphiteTemp, 'f', -1, 64), f(s.AvgCoolantVoid, 'f', -1, 64),
		strconv.FormatBool(s.ScramActive), strconv.FormatBool(s.ExplosionOccurred),
	}
}

// StreamSnapshots drains stateChan to the configured writer(s): a goroutine
// pulling from a buffered channel until it is closed, writing one record
// per Snapshot. It never panics on a write error; it returns the first one
// encountered and keeps draining the channel so the producer side never
// blocks on a dead consumer.
func StreamSnapshots(conf ExportConfig, w io.Writer, stateChan <-chan Snapshot) error {
	var csvw *csv.Writer
	var jsonw *json.Encoder
	var firstErr error

	if conf.AsCSV {
		csvw = csv.NewWriter(w)
		if err := csvw.Write(csvHeader); err != nil {
			firstErr = err
		}
	}
	if conf.AsJSON {
		jsonw = json.NewEncoder(w)
	}

	for state := range stateChan {
		if csvw != nil {
			if err := csvw.Write(csvRow(state)); err != nil && firstErr == nil {
				firstErr = err
			}
		}
		if jsonw != nil {
			if err := jsonw.Encode(state); err != nil && firstErr == nil {
				firstErr = err
			}
		}
	}
	if csvw != nil {
		csvw.Flush()
		if err := csvw.Error(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if firstErr != nil {
		return fmt.Errorf("rbmk: streaming snapshots: %w", firstErr)
	}
	return nil
}
