package experiment

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/san-kum/sphfluid/internal/config"
	"github.com/san-kum/sphfluid/internal/fluid"
	"github.com/san-kum/sphfluid/internal/metrics"
	"github.com/san-kum/sphfluid/internal/scene"
)

// FrameFunc is called after every recorded frame. Returning an error stops
// the run.
type FrameFunc func(sim *fluid.Simulation, st metrics.Stats) error

type Experiment struct {
	name    string
	cfg     *config.Config
	sim     *fluid.Simulation
	rec     *metrics.Recorder
	log     *slog.Logger
	onFrame FrameFunc
}

type Result struct {
	Name     string
	Stats    []metrics.Stats
	Metrics  map[string]float64
	Elapsed  time.Duration
	Steps    int
	Scene    string
	Sim      *fluid.Simulation
	Canceled bool
}

// New builds the simulation described by cfg.
func New(name string, cfg *config.Config, logger *slog.Logger) (*Experiment, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	opts := cfg.Options()
	opts.Logger = logger
	sim, err := scene.Construct(cfg.Simulation.SmoothingRadius, cfg.Scene, opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return &Experiment{
		name: name,
		cfg:  cfg,
		sim:  sim,
		rec:  metrics.NewRecorder(),
		log:  logger.With("run", name),
	}, nil
}

func (e *Experiment) Simulation() *fluid.Simulation { return e.sim }

// OnFrame registers a per-frame callback.
func (e *Experiment) OnFrame(fn FrameFunc) { e.onFrame = fn }

// Run advances the simulation for the configured duration, recording
// stats once per frame. A canceled context ends the run early without an
// error; a failed step returns the partial result alongside the error.
func (e *Experiment) Run(ctx context.Context) (*Result, error) {
	frameTime := e.cfg.FrameTime()
	duration := e.cfg.Run.Duration
	frames := int(math.Ceil(duration/frameTime - 1e-9))

	e.log.Info("run started",
		"particles", e.sim.Len(),
		"h", e.sim.SmoothingRadius(),
		"duration", duration,
		"frames", frames,
	)
	start := time.Now()
	e.rec.Observe(e.sim)

	var runErr error
	canceled := false
	end := e.sim.Time() + duration
	for i := 0; i < frames; i++ {
		elapsed := math.Min(frameTime, end-e.sim.Time())
		if elapsed <= 0 {
			break
		}
		if _, err := e.sim.AdvanceBy(ctx, elapsed); err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				canceled = true
			} else {
				runErr = err
			}
			break
		}
		st := e.rec.Observe(e.sim)
		if e.onFrame != nil {
			if err := e.onFrame(e.sim, st); err != nil {
				runErr = err
				break
			}
		}
	}

	res := &Result{
		Name:     e.name,
		Stats:    e.rec.History(),
		Metrics:  e.rec.Summary(),
		Elapsed:  time.Since(start),
		Steps:    e.sim.Steps(),
		Scene:    scene.Export(e.sim),
		Sim:      e.sim,
		Canceled: canceled,
	}

	if runErr != nil {
		e.log.Error("run failed", "err", runErr, "time", e.sim.Time())
		return res, runErr
	}
	e.log.Info("run finished",
		"time", e.sim.Time(),
		"steps", res.Steps,
		"elapsed", res.Elapsed,
		"canceled", canceled,
	)
	return res, nil
}
