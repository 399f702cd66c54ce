package main

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"math/rand"
	"sort"
	"strings"

	"github.com/Garsondee/Grid-Command/internal/config"
	"github.com/Garsondee/Grid-Command/internal/game"
	"github.com/Garsondee/Grid-Command/internal/scenario"
)

type runStats struct {
	runIndex int
	seed     int64

	firstArrivalTick int
	lastArrivalTick  int
	allIdleTick      int

	commands     int
	arrivals     int
	abandoned    int
	pathSearches int
	pathFailures int
	probes       int
	probeCapHits int

	stalled     map[string]struct{} // active with no path at the end of the run
	sharedSlots int
}

func main() {
	var runs int
	var ticks int
	var seedBase int64
	var seedStep int64
	var jitter float64
	var cfgPath string
	var scnPath string
	var verbose bool

	flag.IntVar(&runs, "runs", 5, "number of headless simulation runs")
	flag.IntVar(&ticks, "ticks", 3600, "ticks per run")
	flag.Int64Var(&seedBase, "seed-base", 42, "base RNG seed for run 1")
	flag.Int64Var(&seedStep, "seed-step", 1, "seed increment between runs")
	flag.Float64Var(&jitter, "jitter", 8, "max pixels to offset each starting unit position per run")
	flag.StringVar(&cfgPath, "config", "config/grid.toml", "TOML config file (defaults are used if it does not exist)")
	flag.StringVar(&scnPath, "scenario", "", "YAML scenario file (overrides [scenario] path)")
	flag.BoolVar(&verbose, "v", false, "print the full event log of each run")
	flag.Parse()

	if runs <= 0 {
		fmt.Println("error: -runs must be > 0")
		return
	}
	if ticks <= 0 {
		fmt.Println("error: -ticks must be > 0")
		return
	}

	cfg, err := config.Load(cfgPath)
	if errors.Is(err, fs.ErrNotExist) {
		cfg, err = config.Default(), nil
	}
	if err != nil {
		fmt.Printf("error: %v\n", err)
		return
	}
	if scnPath == "" {
		scnPath = cfg.Scenario.Path
	}
	scn := scenario.Default()
	if scnPath != "" {
		if scn, err = scenario.Load(scnPath); err != nil {
			fmt.Printf("error: %v\n", err)
			return
		}
	}

	fmt.Printf("=== Headless Movement Report ===\n")
	fmt.Printf("scenario=%s units=%d orders=%d runs=%d ticks=%d seed_base=%d seed_step=%d jitter=%.1f\n\n",
		scn.Name, len(scn.Units), len(scn.Orders), runs, ticks, seedBase, seedStep, jitter)

	all := make([]runStats, 0, runs)
	for i := 0; i < runs; i++ {
		seed := seedBase + int64(i)*seedStep
		stats := runScenario(cfg, scn, i+1, seed, ticks, jitter, verbose)
		all = append(all, stats)
		printRun(stats)
	}

	printAggregate(all)
}

// jittered returns a copy of scn with every unit moved by up to jitter
// pixels on each axis.
func jittered(scn *scenario.Scenario, seed int64, jitter float64) *scenario.Scenario {
	out := *scn
	out.Units = make([]scenario.UnitSpec, len(scn.Units))
	rng := rand.New(rand.NewSource(seed)) // #nosec G404 -- report only
	for i, u := range scn.Units {
		out.Units[i] = scenario.UnitSpec{
			X: u.X + (rng.Float64()*2-1)*jitter,
			Y: u.Y + (rng.Float64()*2-1)*jitter,
		}
	}
	return &out
}

func runScenario(cfg *config.Config, scn *scenario.Scenario, runIndex int, seed int64, ticks int, jitter float64, verbose bool) runStats {
	opts := scenario.HarnessOptions(cfg, jittered(scn, seed, jitter))
	opts = append(opts, game.WithVerbose(verbose))
	ts := game.NewTestSim(opts...)

	lastOrderTick := 0
	for _, o := range scn.Orders {
		lastOrderTick = max(lastOrderTick, o.Tick)
	}
	allIdleTick := -1
	for i := 0; i < ticks; i++ {
		ts.RunTicks(1)
		if allIdleTick < 0 && ts.Tick > lastOrderTick && ts.AllIdle() {
			allIdleTick = ts.Tick
		}
	}

	if verbose {
		fmt.Print(ts.SimLog.Format())
	}

	entries := ts.SimLog.Entries()
	snap := ts.Sim.Snapshot()
	stalled := map[string]struct{}{}
	for _, u := range snap {
		if u.Active && len(u.Path) == 0 {
			stalled[fmt.Sprintf("U%d", u.ID)] = struct{}{}
		}
	}
	st := ts.Sim.Stats()

	return runStats{
		runIndex:         runIndex,
		seed:             seed,
		firstArrivalTick: firstTick(entries, "order", "arrived"),
		lastArrivalTick:  lastTick(entries, "order", "arrived"),
		allIdleTick:      allIdleTick,
		commands:         st.Commands,
		arrivals:         st.Arrivals,
		abandoned:        st.Abandoned,
		pathSearches:     st.PathSearches,
		pathFailures:     st.PathFailures,
		probes:           st.Probes,
		probeCapHits:     st.ProbeCapHits,
		stalled:          stalled,
		sharedSlots:      game.SharedRestSlots(snap),
	}
}

func firstTick(entries []game.SimLogEntry, category, key string) int {
	for _, e := range entries {
		if e.Category == category && e.Key == key {
			return e.Tick
		}
	}
	return -1
}

func lastTick(entries []game.SimLogEntry, category, key string) int {
	for i := len(entries) - 1; i >= 0; i-- {
		if entries[i].Category == category && entries[i].Key == key {
			return entries[i].Tick
		}
	}
	return -1
}

func printRun(rs runStats) {
	fmt.Printf("--- Run %d (seed=%d) ---\n", rs.runIndex, rs.seed)
	fmt.Printf("phase_markers: first_arrival=%d last_arrival=%d all_idle=%d\n",
		rs.firstArrivalTick, rs.lastArrivalTick, rs.allIdleTick)
	fmt.Printf("order_totals: commands=%d arrived=%d abandoned=%d\n",
		rs.commands, rs.arrivals, rs.abandoned)
	fmt.Printf("path_totals: searches=%d failed=%d\n", rs.pathSearches, rs.pathFailures)
	fmt.Printf("rest_totals: probes=%d overlaps=%d shared_slots=%d\n", rs.probes, rs.probeCapHits, rs.sharedSlots)
	fmt.Printf("stalled_labels: %s\n", joinSet(rs.stalled))
	fmt.Println()
}

func printAggregate(all []runStats) {
	totalCommands := 0
	totalArrivals := 0
	totalAbandoned := 0
	totalSearches := 0
	totalFailures := 0
	totalProbes := 0
	totalCapHits := 0
	totalShared := 0

	arrivalTicks := make([]int, 0, len(all))
	idleTicks := make([]int, 0, len(all))
	stalledGlobal := map[string]struct{}{}

	for _, rs := range all {
		totalCommands += rs.commands
		totalArrivals += rs.arrivals
		totalAbandoned += rs.abandoned
		totalSearches += rs.pathSearches
		totalFailures += rs.pathFailures
		totalProbes += rs.probes
		totalCapHits += rs.probeCapHits
		totalShared += rs.sharedSlots
		if rs.lastArrivalTick >= 0 {
			arrivalTicks = append(arrivalTicks, rs.lastArrivalTick)
		}
		if rs.allIdleTick >= 0 {
			idleTicks = append(idleTicks, rs.allIdleTick)
		}
		for label := range rs.stalled {
			stalledGlobal[label] = struct{}{}
		}
	}

	fmt.Println("=== Aggregate ===")
	fmt.Printf("runs=%d\n", len(all))
	fmt.Printf("avg_orders_per_run: commands=%.1f arrived=%.1f abandoned=%.1f\n",
		avg(totalCommands, len(all)), avg(totalArrivals, len(all)), avg(totalAbandoned, len(all)))
	fmt.Printf("avg_paths_per_run: searches=%.1f failed=%.1f\n",
		avg(totalSearches, len(all)), avg(totalFailures, len(all)))
	fmt.Printf("avg_rest_per_run: probes=%.1f overlaps=%.1f shared_slots=%.1f\n",
		avg(totalProbes, len(all)), avg(totalCapHits, len(all)), avg(totalShared, len(all)))
	fmt.Printf("phase_marker_avg_ticks: last_arrival=%s all_idle=%s\n",
		avgTickString(arrivalTicks), avgTickString(idleTicks))
	fmt.Printf("unique_stalled_labels=%d [%s]\n", len(stalledGlobal), joinSet(stalledGlobal))
}

func avg(sum int, n int) float64 {
	if n <= 0 {
		return 0
	}
	return float64(sum) / float64(n)
}

func avgTickString(vals []int) string {
	if len(vals) == 0 {
		return "n/a"
	}
	sum := 0
	for _, v := range vals {
		sum += v
	}
	return fmt.Sprintf("%.1f", float64(sum)/float64(len(vals)))
}

func joinSet(s map[string]struct{}) string {
	if len(s) == 0 {
		return "none"
	}
	labels := make([]string, 0, len(s))
	for k := range s {
		labels = append(labels, k)
	}
	sort.Strings(labels)
	return strings.Join(labels, ",")
}
