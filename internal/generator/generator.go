// Package generator is the generation orchestrator (spec component C10):
// the ten-step pipeline of spec.md §4.8 that turns a school snapshot, an
// initial schedule, a follow-up overlay, and a rules document into a
// finished schedule plus a validation report.
//
// Grounded directly in the teacher's WorkflowEngine.ExecuteWorkflow
// (internal/application/executor/engine.go:114-150): the same three-phase
// Plan -> Execute -> Finalize shape, generalised from one workflow DAG run
// to the ten ordered scheduling steps. Where the teacher's engine builds an
// ExecutionPlan once and then executes node by node with retry/backoff,
// Orchestrator.Generate runs each of the ten steps once, in order, with no
// retry -- a scheduling run has no flaky external I/O to retry against,
// per spec.md §5's "no suspension points inside the core" note.
package generator

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/mitsuhirohayashi/timetable-generator-v5-sub005/internal/constraint"
	"github.com/mitsuhirohayashi/timetable-generator-v5-sub005/internal/constraint/catalogue"
	"github.com/mitsuhirohayashi/timetable-generator-v5-sub005/internal/domain"
	"github.com/mitsuhirohayashi/timetable-generator-v5-sub005/internal/filler"
	"github.com/mitsuhirohayashi/timetable-generator-v5-sub005/internal/observability"
	"github.com/mitsuhirohayashi/timetable-generator-v5-sub005/internal/placement"
	"github.com/mitsuhirohayashi/timetable-generator-v5-sub005/internal/ports"
	"github.com/mitsuhirohayashi/timetable-generator-v5-sub005/internal/schedule"
	"github.com/mitsuhirohayashi/timetable-generator-v5-sub005/internal/school"
	syncgroup "github.com/mitsuhirohayashi/timetable-generator-v5-sub005/internal/sync"
)

// Result bundles everything a caller needs after a generation run: the
// finished schedule, its full validation report, and run statistics
// (spec.md §6 output shapes 1-3).
type Result struct {
	Schedule *schedule.Schedule
	Report   constraint.ValidationResult
	Stats    ports.Stats
}

// Orchestrator wires School/Schedule/availability/constraint/placement/
// filler together into the ten-step pipeline, publishing lifecycle events
// and logging phase transitions as it goes.
type Orchestrator struct {
	Bus     *observability.Bus
	Metrics *observability.Metrics
	Logger  zerolog.Logger

	PlacementConfig   placement.Config
	MaxOptimizePasses int
}

// NewOrchestrator returns an Orchestrator with spec.md §4.6/§4.8 defaults:
// single-start placement search and up to 50 optimisation swap attempts.
func NewOrchestrator(bus *observability.Bus, metrics *observability.Metrics, logger zerolog.Logger) *Orchestrator {
	return &Orchestrator{
		Bus:               bus,
		Metrics:           metrics,
		Logger:            logger,
		PlacementConfig:   placement.DefaultConfig(),
		MaxOptimizePasses: 50,
	}
}

// Generate runs the ten-step pipeline of spec.md §4.8 and always returns a
// schedule unless a configuration or internal error occurred (spec.md §7):
// constraint violations at the end of generation are never an error, they
// are data in Result.Report.
func (o *Orchestrator) Generate(
	ctx context.Context,
	jobID string,
	schoolSrc ports.SchoolSource,
	scheduleSrc ports.ScheduleSource,
	followUpSrc ports.FollowUpSource,
	rulesSrc ports.RulesSource,
) (*Result, error) {
	log := applogFor(o.Logger, jobID)
	start := time.Now()

	o.publish(observability.Event{Kind: observability.GenerationStarted, JobID: jobID, Timestamp: start})
	log.Info().Msg("generation started")

	// Step 1: build School via adapters.
	sc, err := schoolSrc.LoadSchool(ctx)
	if err != nil {
		return nil, domain.ConfigError("failed to load school", err)
	}
	log.Debug().Int("classes", len(sc.Classes())).Msg("school loaded")

	rules, err := rulesSrc.LoadRules(ctx)
	if err != nil {
		return nil, domain.ConfigError("failed to load rules", err)
	}

	// Step 2: build initial Schedule from input snapshot.
	sched, err := scheduleSrc.LoadInitialSchedule(ctx, sc)
	if err != nil {
		return nil, domain.ConfigError("failed to load initial schedule", err)
	}
	lockFixedAndTestCells(sched, sc)

	// Step 3: apply follow-up-derived overlays.
	overlay, err := followUpSrc.LoadFollowUp(ctx)
	if err != nil {
		return nil, domain.ConfigError("failed to load follow-up overlay", err)
	}
	tracker := buildTracker(sc, rules, overlay)
	applyOverlay(sched, overlay)

	// Step 4: prune assignments of absent teachers.
	prunedCount := pruneAbsentTeachers(sched, tracker)
	log.Debug().Int("pruned", prunedCount).Msg("pruned assignments of absent teachers")

	// Step 5: register constraint catalogue.
	scorer := constraint.NewExpressionScorer()
	reg := constraint.NewRegistry()
	if err := catalogue.RegisterAll(reg, tracker, scorer); err != nil {
		return nil, domain.InternalError("failed to register constraint catalogue", err)
	}

	// Step 6: run Grade-5 synchroniser over all slots.
	g5 := syncgroup.NewGrade5Synchroniser(sched, sc, reg)
	exch := syncgroup.NewExchangeSynchroniser(sched, sc, reg)
	for _, slot := range domain.AllTimeSlots() {
		_ = g5.SyncSlot(slot)
	}
	if err := exch.SyncAll(); err != nil {
		log.Warn().Err(err).Msg("exchange synchronisation reported an error")
	}

	// Step 7: run the CSP engine.
	search := placement.NewSearch(reg, o.PlacementConfig)
	searchStats := search.Run(ctx, sched, sc)
	o.publish(observability.Event{Kind: observability.PassEscalated, JobID: jobID, Timestamp: time.Now()})
	log.Info().
		Int("empty_cells", searchStats.EmptyCells).
		Bool("exhausted", searchStats.Exhausted).
		Msg("CSP placement finished")

	// Step 8: optional optimisation passes.
	optimizer := &optimizer{reg: reg, maxPasses: o.MaxOptimizePasses}
	swapsApplied := optimizer.Run(ctx, sched, sc)
	log.Debug().Int("swaps_applied", swapsApplied).Msg("optimisation passes finished")

	// Step 9: run the empty-slot filler.
	fill := filler.NewFiller(sched, sc, reg)
	fillResult := fill.Run()
	for _, mode := range fillResult.PassesRun {
		o.publish(observability.Event{Kind: observability.PassEscalated, JobID: jobID, Mode: modePtr(mode), Timestamp: time.Now()})
	}
	log.Info().
		Int("duplicates_used", fillResult.DuplicatesUsed).
		Int("passes_run", len(fillResult.PassesRun)).
		Msg("empty-slot filler finished")

	// Step 10: final full validation.
	report := reg.Validate(sched, sc)

	stats := o.buildStats(sched, sc, reg, report, searchStats, fillResult, start)
	if o.Metrics != nil {
		for _, n := range fillResult.FillsBySubject {
			for i := 0; i < n; i++ {
				o.Metrics.RecordAssignment()
			}
		}
		for _, v := range report.Violations {
			o.Metrics.RecordViolation(v.Severity.String())
		}
	}

	o.publish(observability.Event{Kind: observability.GenerationFinished, JobID: jobID, Timestamp: time.Now()})
	log.Info().
		Bool("valid", report.IsValid()).
		Int64("wall_time_ms", stats.WallTimeMillis).
		Msg("generation finished")

	return &Result{Schedule: sched, Report: report, Stats: stats}, nil
}

func (o *Orchestrator) publish(e observability.Event) {
	if o.Bus != nil {
		o.Bus.Publish(e)
	}
}

func modePtr(m constraint.Mode) *constraint.Mode { return &m }

func applogFor(base zerolog.Logger, jobID string) zerolog.Logger {
	return base.With().Str("job_id", jobID).Logger()
}

// lockFixedAndTestCells locks every cell already carrying a fixed subject
// or a test-period subject, per spec.md §4.8 step 2 -- these are never
// candidates for the CSP engine or the filler to overwrite.
func lockFixedAndTestCells(sched *schedule.Schedule, sc *school.School) {
	for _, cell := range sched.IterAll() {
		if cell.Assignment.Subject.IsFixed() {
			sched.Lock(cell.Class, cell.Slot)
			continue
		}
		if subj, ok := sc.TestSubject(cell.Class.Grade, cell.Slot); ok && subj == cell.Assignment.Subject {
			sched.Lock(cell.Class, cell.Slot)
		}
	}
}

