package rbmk

// ChannelArrays is the struct-of-arrays storage for per-channel state (§3,
// §9 design note "Per-channel arrays"). Keeping parallel flat slices rather
// than a slice of per-channel records keeps the spatial pass (C6)
// cache-friendly and the aggregate reduction a set of trivial array scans;
// nothing here allocates once Step begins.
type ChannelArrays struct {
	Flux            []float64
	Precursor       []float64 // single-group delayed-neutron precursor approximation (§4.5 point 4)
	FuelTemp        []float64
	CoolantTemp     []float64
	GraphiteTemp    []float64
	Void            []float64
	Iodine          []float64
	Xenon           []float64
	Power           []float64 // MW
	LocalRodWorth   []float64
	LocalReactivity []float64
}

// NewChannelArrays allocates cold-shutdown initial conditions for n
// channels.
func NewChannelArrays(n int) *ChannelArrays {
	a := &ChannelArrays{
		Flux:            make([]float64, n),
		Precursor:       make([]float64, n),
		FuelTemp:        make([]float64, n),
		CoolantTemp:     make([]float64, n),
		GraphiteTemp:    make([]float64, n),
		Void:            make([]float64, n),
		Iodine:          make([]float64, n),
		Xenon:           make([]float64, n),
		Power:           make([]float64, n),
		LocalRodWorth:   make([]float64, n),
		LocalReactivity: make([]float64, n),
	}
	for i := 0; i < n; i++ {
		a.Flux[i] = NeutronPopulationMin
		a.FuelTemp[i] = FuelRefTemp
		a.CoolantTemp[i] = CoolantSatTemp - 100
		a.GraphiteTemp[i] = 400
	}
	return a
}

// N returns the channel count.
func (a *ChannelArrays) N() int {
	return len(a.Flux)
}

// FuelChannelState is the per-channel read view exposed by get_fuel_channels
// (§3, §6): flux, precursor, the three temperatures, void fraction,
// iodine/xenon concentrations, local power, local rod-worth field and local
// reactivity.
type FuelChannelState struct {
	Index           int
	Flux            float64
	Precursor       float64
	FuelTemp        float64
	CoolantTemp     float64
	GraphiteTemp    float64
	Void            float64
	Iodine          float64
	Xenon           float64
	PowerMW         float64
	LocalRodWorth   float64
	LocalReactivity float64
}

// At returns a read-only snapshot of channel i.
func (a *ChannelArrays) At(i int) FuelChannelState {
	return FuelChannelState{
		Index:           i,
		Flux:            a.Flux[i],
		Precursor:       a.Precursor[i],
		FuelTemp:        a.FuelTemp[i],
		CoolantTemp:     a.CoolantTemp[i],
		GraphiteTemp:    a.GraphiteTemp[i],
		Void:            a.Void[i],
		Iodine:          a.Iodine[i],
		Xenon:           a.Xenon[i],
		PowerMW:         a.Power[i],
		LocalRodWorth:   a.LocalRodWorth[i],
		LocalReactivity: a.LocalReactivity[i],
	}
}

// All returns a read-only snapshot of every channel, in stable index order.
func (a *ChannelArrays) All() []FuelChannelState {
	out := make([]FuelChannelState, a.N())
	for i := range out {
		out[i] = a.At(i)
	}
	return out
}
