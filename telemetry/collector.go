package telemetry

// Collector accumulates events within tick windows and produces WindowStats.
type Collector struct {
	windowDurationTicks int32

	// Current window tracking
	windowStartTick int32

	// Event counters for current window
	emitted        int
	drained        int
	rainDrops      int
	evicted        int
	springsCreated int
	springsBroken  int
}

// NewCollector creates a new stats collector flushing every windowTicks ticks.
func NewCollector(windowTicks int32) *Collector {
	if windowTicks < 1 {
		windowTicks = 1
	}
	return &Collector{windowDurationTicks: windowTicks}
}

// RecordEmitted records particles added by the emit interaction or AddParticles.
func (c *Collector) RecordEmitted(n int) {
	c.emitted += n
}

// RecordDrained records particles removed by the drain interaction or RemoveNear.
func (c *Collector) RecordDrained(n int) {
	c.drained += n
}

// RecordRainDrop records one spawned rain drop.
func (c *Collector) RecordRainDrop() {
	c.rainDrops++
}

// RecordEvicted records particles evicted to make room for rain.
func (c *Collector) RecordEvicted(n int) {
	c.evicted += n
}

// RecordSprings records springs created and broken in one tick.
func (c *Collector) RecordSprings(created, broken int) {
	c.springsCreated += created
	c.springsBroken += broken
}

// ShouldFlush returns true if enough ticks have passed to flush the window.
func (c *Collector) ShouldFlush(currentTick int32) bool {
	return currentTick-c.windowStartTick >= c.windowDurationTicks
}

// Sample is the fluid state measured at the end of a window.
type Sample struct {
	Particles int
	Springs   int
	Clouds    int
	Speeds    []float64
	Densities []float64
	MomentumX float64
	MomentumY float64
	Kinetic   float64
	Escaped   int
}

// Flush produces a WindowStats and resets counters for the next window.
func (c *Collector) Flush(currentTick int32, sample Sample) WindowStats {
	speedMean, speedP10, speedP50, speedP90, speedMax := ComputeSpeedStats(sample.Speeds)
	densityMean, densityMax := ComputeDensityStats(sample.Densities)

	stats := WindowStats{
		WindowStartTick: c.windowStartTick,
		WindowEndTick:   currentTick,

		Particles: sample.Particles,
		Springs:   sample.Springs,
		Clouds:    sample.Clouds,

		Emitted:        c.emitted,
		Drained:        c.drained,
		RainDrops:      c.rainDrops,
		Evicted:        c.evicted,
		SpringsCreated: c.springsCreated,
		SpringsBroken:  c.springsBroken,

		SpeedMean: speedMean,
		SpeedP10:  speedP10,
		SpeedP50:  speedP50,
		SpeedP90:  speedP90,
		SpeedMax:  speedMax,

		DensityMean: densityMean,
		DensityMax:  densityMax,

		MomentumX:     sample.MomentumX,
		MomentumY:     sample.MomentumY,
		KineticEnergy: sample.Kinetic,
		Escaped:       sample.Escaped,
	}

	c.Reset(currentTick)
	return stats
}

// Reset starts a fresh window at tick and zeroes the counters.
func (c *Collector) Reset(tick int32) {
	c.windowStartTick = tick
	c.emitted = 0
	c.drained = 0
	c.rainDrops = 0
	c.evicted = 0
	c.springsCreated = 0
	c.springsBroken = 0
}

// WindowDurationTicks returns the number of ticks per window.
func (c *Collector) WindowDurationTicks() int32 {
	return c.windowDurationTicks
}
