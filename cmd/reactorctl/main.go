// Command reactorctl runs a standalone RBMK-1000 simulation and logs its
// status on a fixed tick: flag-parsed scenario input, viper-backed
// configuration, and a ticker goroutine reporting status while the main
// goroutine drives the simulation loop.
package main

import (
	"flag"
	"log"
	"os"
	"time"

	"github.com/MesaFer/RBMK-sub000"
)

var (
	configPath  string
	duration    time.Duration
	targetPower float64
	autoReg     bool
	exportCSV   string
	speed       float64
)

func init() {
	flag.StringVar(&configPath, "config", "", "path to a TOML/YAML/JSON configuration file (optional)")
	flag.DurationVar(&duration, "duration", 60*time.Second, "simulated duration to run")
	flag.Float64Var(&targetPower, "target-power", 100, "automatic regulator target power, percent")
	flag.BoolVar(&autoReg, "auto-regulator", true, "enable the automatic power regulator")
	flag.StringVar(&exportCSV, "export-csv", "", "optional path to write a CSV snapshot trace")
	flag.Float64Var(&speed, "speed", 1, "simulation speed multiplier applied to each wall-clock tick")
}

func main() {
	flag.Parse()

	cfg, err := rbmk.LoadConfig(configPath)
	if err != nil {
		log.Fatalf("reactorctl: %s", err)
	}

	layout, err := cfg.Layout()
	if err != nil {
		log.Fatalf("reactorctl: %s", err)
	}
	core, err := rbmk.NewCore(layout)
	if err != nil {
		log.Fatalf("reactorctl: %s", err)
	}
	cfg.ApplyTo(core)
	core.SetTargetPower(targetPower)
	core.SetAutoRegulatorEnabled(autoReg)

	var snapshots chan rbmk.Snapshot
	done := make(chan struct{})
	if exportCSV != "" {
		f, err := os.Create(exportCSV)
		if err != nil {
			log.Fatalf("reactorctl: creating %s: %s", exportCSV, err)
		}
		defer f.Close()
		snapshots = make(chan rbmk.Snapshot, 1000)
		core.SetSnapshotSink(snapshots)
		go func() {
			defer close(done)
			if err := rbmk.StreamSnapshots(rbmk.ExportConfig{AsCSV: true}, f, snapshots); err != nil {
				log.Printf("reactorctl: export: %s", err)
			}
		}()
	} else {
		close(done)
	}

	ticker := time.NewTicker(1 * time.Second)
	defer ticker.Stop()
	stop := make(chan struct{})
	go func() {
		for {
			select {
			case <-ticker.C:
				s := core.Snapshot()
				log.Printf("t=%.1fs power=%.1f%% k=%.5f rho=%.4f$ alerts=%v", s.Time, s.PowerPercent, s.KEff, s.ReactivityDollars, s.Alerts)
			case <-stop:
				return
			}
		}
	}()

	target := duration.Seconds()
	const wallQuantum = 0.1 // seconds of wall-clock absorbed per AdvanceRealtime call
	for core.SimTime() < target {
		before := core.SimTime()
		snap := core.AdvanceRealtime(wallQuantum, speed)
		if snap.ExplosionOccurred && core.SimTime() == before {
			break
		}
	}
	close(stop)
	if snapshots != nil {
		close(snapshots)
		<-done
	}

	final := core.Snapshot()
	log.Printf("finished: t=%.1fs power=%.1f%% explosion=%v", final.Time, final.PowerPercent, final.ExplosionOccurred)
}
