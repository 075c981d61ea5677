// Command timetable-gen is the composition root: it wires a rules file,
// an in-memory school/schedule/follow-up snapshot, and the generation
// orchestrator (internal/generator) together, runs one generation job,
// and optionally serves its live progress over a websocket.
//
// Grounded in the teacher's cmd/server/main.go: flag parsing, config
// load, logger setup, graceful-shutdown signal handling in the same
// shape, generalised from "start a REST API server over a workflow
// executor" to "run one scheduling job, print its report, optionally
// serve its progress stream".
package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/mitsuhirohayashi/timetable-generator-v5-sub005/internal/applog"
	"github.com/mitsuhirohayashi/timetable-generator-v5-sub005/internal/config"
	"github.com/mitsuhirohayashi/timetable-generator-v5-sub005/internal/domain"
	"github.com/mitsuhirohayashi/timetable-generator-v5-sub005/internal/generator"
	"github.com/mitsuhirohayashi/timetable-generator-v5-sub005/internal/observability"
	"github.com/mitsuhirohayashi/timetable-generator-v5-sub005/internal/ports/stub"
	"github.com/mitsuhirohayashi/timetable-generator-v5-sub005/internal/progress"
	"github.com/mitsuhirohayashi/timetable-generator-v5-sub005/internal/school"
	"github.com/mitsuhirohayashi/timetable-generator-v5-sub005/internal/store"
)

func main() {
	var (
		rulesPath     = flag.String("rules", "", "Path to a rules YAML file (optional; defaults empty)")
		logLevel      = flag.String("log-level", "info", "Log level: debug, info, warn, error")
		serveProgress = flag.Bool("serve-progress", false, "Serve the job's live event stream over a websocket")
		progressAddr  = flag.String("progress-addr", ":8090", "Address to serve the progress websocket on")
		jwtSecret     = flag.String("jwt-secret", "", "JWT secret for progress auth (empty disables auth)")
	)
	flag.Parse()

	logger := applog.Setup(*logLevel)
	logger.Info().Msg("starting timetable-gen")

	rules := config.Rules{}
	if *rulesPath != "" {
		loaded, err := config.Load(*rulesPath)
		if err != nil {
			logger.Error().Err(err).Msg("failed to load rules config")
			os.Exit(1)
		}
		rules = loaded
	}

	sc := exampleSchool()
	bus := observability.NewBus()
	metrics := observability.NewMetrics()

	jobID := uuid.New().String()

	var hub *progress.Hub
	var httpServer *http.Server
	if *serveProgress {
		hub = progress.NewHub(logger)
		go hub.Run()
		bus.Subscribe(hub.Observer(jobID))

		var auth progress.Authenticator = progress.NewNoAuth()
		if *jwtSecret != "" {
			auth = progress.NewJWTAuth(*jwtSecret)
		}
		handler := progress.NewHandler(hub, auth, logger)
		mux := http.NewServeMux()
		mux.Handle("/progress", handler)
		httpServer = &http.Server{Addr: *progressAddr, Handler: mux, ReadTimeout: 30 * time.Second, WriteTimeout: 30 * time.Second}
		go func() {
			logger.Info().Str("address", *progressAddr).Msg("progress websocket listening")
			if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error().Err(err).Msg("progress server failed")
			}
		}()
	}

	orchestrator := generator.NewOrchestrator(bus, metrics, logger)
	reportSink := store.NewMemoryStore()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	result, err := orchestrator.Generate(
		ctx,
		jobID,
		stub.SchoolSource{School: sc},
		stub.ScheduleSource{},
		stub.FollowUpSource{},
		stub.RulesSource{Rules: rules},
	)
	if err != nil {
		logger.Error().Err(err).Msg("generation failed")
		os.Exit(1)
	}

	if err := reportSink.WriteReport(ctx, result.Report, result.Stats); err != nil {
		logger.Error().Err(err).Msg("failed to write report")
	}
	if err := reportSink.WriteSchedule(ctx, result.Schedule); err != nil {
		logger.Error().Err(err).Msg("failed to write schedule")
	}

	logger.Info().
		Bool("valid", result.Report.IsValid()).
		Int("violations", len(result.Report.Violations)).
		Int("empty_slots", result.Stats.EmptySlots).
		Msg("generation complete")

	if httpServer == nil {
		return
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down progress server")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("progress server forced to shutdown")
	}
}

// exampleSchool builds a minimal, self-contained school snapshot so the
// binary has something to schedule without requiring an external CSV/DB
// adapter (out of scope per spec.md §1 Non-goals).
func exampleSchool() *school.School {
	b := school.NewBuilder()
	class := domain.ClassRef{Grade: 1, ClassNumber: 1}
	b.AddClass(class)
	b.AddTeacher(domain.Teacher("田中"))
	b.AddTeacher(domain.Teacher("鈴木"))
	b.AddCandidate(class, domain.SubjectJapanese, domain.Teacher("田中"))
	b.AddCandidate(class, domain.SubjectMath, domain.Teacher("鈴木"))
	b.SetRequiredHours(class, domain.SubjectJapanese, 4)
	b.SetRequiredHours(class, domain.SubjectMath, 4)
	sc, err := b.Build()
	if err != nil {
		panic(err)
	}
	return sc
}
