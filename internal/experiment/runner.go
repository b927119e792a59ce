// Package experiment runs the modulation comparison: every configured
// modulator against every configured demodulator on a clean channel, plus
// an SNR sweep through a noisy channel.
package experiment

import (
	"context"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"runtime"
	"strconv"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/cwbudde/algo-ssb/dsp/channel"
	"github.com/cwbudde/algo-ssb/dsp/filter/design"
	"github.com/cwbudde/algo-ssb/dsp/ssb"
	"github.com/cwbudde/algo-ssb/internal/audio"
	"github.com/cwbudde/algo-ssb/internal/config"
	"github.com/cwbudde/algo-ssb/measure/fidelity"
)

// Job is one modulate, optional noise, demodulate pass.
type Job struct {
	Modulator   ssb.ModulatorKind
	Demodulator ssb.DemodulatorKind
	// Noisy selects the noisy channel at SNRdB.
	Noisy bool
	SNRdB float64
	// Seed feeds the channel noise of this job only.
	Seed uint64
}

// Name identifies the job in logs and result tables.
func (j Job) Name() string {
	name := j.Modulator.String() + "_" + j.Demodulator.String()
	if j.Noisy {
		name += "_snr" + formatSNR(j.SNRdB)
	}
	return name
}

// Result is the outcome of one Job.
type Result struct {
	Job    Job
	Report fidelity.Report
	// Files lists the WAV files written for this job.
	Files []string
}

// Runner executes the jobs described by a Config.
type Runner struct {
	cfg    *config.Config
	log    *log.Logger
	cache  *design.Cache
	sb     ssb.Sideband
	writer func(path string, fs int, x []float64) error
}

// NewRunner validates cfg and returns a Runner logging to logger. All jobs
// share one filter design cache.
func NewRunner(cfg *config.Config, logger *log.Logger) (*Runner, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	sb, err := ssb.ParseSideband(cfg.Sideband)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = log.Default()
	}

	return &Runner{
		cfg:   cfg,
		log:   logger,
		cache: design.NewCache(),
		sb:    sb,
		writer: func(path string, fs int, x []float64) error {
			return audio.Save(path, fs, x)
		},
	}, nil
}

// Jobs expands the configuration into the clean strategy matrix followed
// by the noise sweep.
func (r *Runner) Jobs() []Job {
	var jobs []Job
	for _, m := range r.cfg.Modulators {
		mk, _ := ssb.ParseModulatorKind(m)
		for _, d := range r.cfg.Demodulators {
			dk, _ := ssb.ParseDemodulatorKind(d)
			jobs = append(jobs, Job{Modulator: mk, Demodulator: dk})
		}
	}

	if r.cfg.Noise.Enabled {
		mk, _ := ssb.ParseModulatorKind(r.cfg.Noise.Modulator)
		dk, _ := ssb.ParseDemodulatorKind(r.cfg.Noise.Demodulator)
		for i, snr := range r.cfg.Noise.SNRs {
			jobs = append(jobs, Job{
				Modulator:   mk,
				Demodulator: dk,
				Noisy:       true,
				SNRdB:       snr,
				Seed:        r.cfg.Noise.Seed + uint64(i),
			})
		}
	}
	return jobs
}

// Run executes every job against src concurrently and returns the results
// in job order. The first failing job cancels the rest.
func (r *Runner) Run(ctx context.Context, src *Source) ([]Result, error) {
	jobs := r.Jobs()
	results := make([]Result, len(jobs))

	workers := r.cfg.Workers
	if workers == 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	r.log.Info("starting experiments",
		"source", src.Name, "fs", src.SampleRate, "samples", len(src.Samples),
		"carrier", r.cfg.CarrierHz, "sideband", r.sb, "jobs", len(jobs), "workers", workers)

	if r.cfg.WriteAudio {
		if err := os.MkdirAll(r.cfg.OutputDir, 0o755); err != nil {
			return nil, fmt.Errorf("experiment: output dir: %w", err)
		}
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, job := range jobs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			res, err := r.runJob(job, src)
			if err != nil {
				return fmt.Errorf("experiment %s: %w", job.Name(), err)
			}
			results[i] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func (r *Runner) runJob(job Job, src *Source) (Result, error) {
	logger := r.log.With("job", job.Name())
	fs := float64(src.SampleRate)
	fc := r.cfg.CarrierHz

	mod, err := ssb.NewModulator(job.Modulator, r.modulatorOptions()...)
	if err != nil {
		return Result{}, err
	}
	demod, err := ssb.NewDemodulator(job.Demodulator, r.demodulatorOptions(job.Demodulator)...)
	if err != nil {
		return Result{}, err
	}

	tx, err := mod.Modulate(src.Samples, fc, fs)
	if err != nil {
		return Result{}, err
	}

	var files []string
	if job.Noisy {
		tx, err = channel.NewInjector(job.Seed).Inject(tx, job.SNRdB)
		if err != nil {
			return Result{}, err
		}
		if r.cfg.WriteAudio {
			path := filepath.Join(r.cfg.OutputDir, "noisy_audio_"+formatSNR(job.SNRdB)+"_snr_db.wav")
			if err := r.writer(path, src.SampleRate, tx); err != nil {
				return Result{}, err
			}
			files = append(files, path)
		}
	}

	rec, err := demod.Demodulate(tx, fc, fs)
	if err != nil {
		return Result{}, err
	}

	if r.cfg.WriteAudio {
		path := filepath.Join(r.cfg.OutputDir, outputName(job))
		if err := r.writer(path, src.SampleRate, rec); err != nil {
			return Result{}, err
		}
		files = append(files, path)
	}

	rep, err := fidelity.Compare(src.Samples, rec, fs, r.cfg.TrimSamples)
	if err != nil {
		return Result{}, err
	}

	logger.Debug("job finished", "correlation", rep.Correlation, "snr_db", rep.SNRdB, "files", len(files))
	if rep.Correlation < 0.5 {
		logger.Warn("poor recovery", "correlation", rep.Correlation)
	}

	return Result{Job: job, Report: rep, Files: files}, nil
}

func (r *Runner) modulatorOptions() []ssb.Option {
	return []ssb.Option{
		ssb.WithSideband(r.sb),
		ssb.WithBandwidth(r.cfg.Modulation.BandwidthHz),
		ssb.WithFilterOrder(r.cfg.Modulation.BandpassOrder),
		ssb.WithCache(r.cache),
	}
}

func (r *Runner) demodulatorOptions(kind ssb.DemodulatorKind) []ssb.Option {
	d := r.cfg.Demodulation
	opts := []ssb.Option{
		ssb.WithSideband(r.sb),
		ssb.WithFilterOrder(d.LowpassOrder),
		ssb.WithCache(r.cache),
	}

	switch {
	case d.BandwidthHz > 0:
		opts = append(opts, ssb.WithBandwidth(d.BandwidthHz))
	case kind == ssb.DemodulatorCoherent:
		opts = append(opts, ssb.WithCutoffHz(d.CoherentCutoffHz))
	default:
		opts = append(opts, ssb.WithCutoffRatio(d.ButterworthCutoff))
	}
	return opts
}

func outputName(job Job) string {
	if job.Noisy {
		return "noisy_audio_recovered_" + formatSNR(job.SNRdB) + "_snr_db.wav"
	}
	return "recovered_audio_" + job.Modulator.String() + "_" + job.Demodulator.String() + ".wav"
}

func formatSNR(db float64) string {
	if db == math.Trunc(db) {
		return strconv.Itoa(int(db))
	}
	return strconv.FormatFloat(db, 'f', -1, 64)
}
