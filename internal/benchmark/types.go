package benchmark

import (
	"time"

	"edbench/internal/config"
	"edbench/internal/fixture"
)

// Scenario is a named benchmark unit: a fully-formed target invocation that
// exits immediately after load. Argv[0] is the binary.
type Scenario struct {
	Name string
	Argv []string
}

// SampleSummary aggregates one scenario's timed invocations. MeanMs is only
// meaningful when Available is true; "could not measure" is never reported as
// a zero mean. Distribution stats are populated by the statistical backend
// only and are optional for consumers.
type SampleSummary struct {
	Scenario     string
	Backend      string
	MeanMs       float64
	Available    bool
	ValidSamples int
	TotalRuns    int

	StddevMs float64
	MedianMs float64
	MinMs    float64
	MaxMs    float64
}

// Run is one labeled, timestamped execution of the full scenario list,
// persisted to its own directory and read-only thereafter.
type Run struct {
	Label     string
	Timestamp time.Time
	Dir       string
	Results   []SampleSummary
}

// Scenarios returns the fixed scenario list for a run: cold start first,
// then one open scenario per fixture in the set's documented order. The
// order is deliberately stable so side-by-side runs stay scenario-aligned.
func Scenarios(s config.Settings, set []fixture.Fixture) []Scenario {
	scenarios := make([]Scenario, 0, len(set)+1)
	scenarios = append(scenarios, Scenario{
		Name: "cold-start",
		Argv: []string{s.TargetBin, s.TargetExitFlag},
	})
	for _, fx := range set {
		scenarios = append(scenarios, Scenario{
			Name: "open-" + fx.Name,
			Argv: []string{s.TargetBin, s.TargetExitFlag, fx.Path(s.FixtureDir)},
		})
	}
	return scenarios
}
