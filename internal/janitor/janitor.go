// Package janitor checks free space and, when it runs low, applies retention
// to every configured camera tree and reports the result.
package janitor

import (
	"context"
	"fmt"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/raoulx24/snapshot-janitor/internal/cleanup"
	"github.com/raoulx24/snapshot-janitor/internal/config"
	"github.com/raoulx24/snapshot-janitor/internal/disk"
	"github.com/raoulx24/snapshot-janitor/internal/fs"
	"github.com/raoulx24/snapshot-janitor/internal/logging"
	"github.com/raoulx24/snapshot-janitor/internal/metrics"
	"github.com/raoulx24/snapshot-janitor/internal/notify"
	"github.com/raoulx24/snapshot-janitor/internal/retention"
	"github.com/raoulx24/snapshot-janitor/internal/walker"
)

// DefaultKeep is the number of newest date folders kept per camera.
const DefaultKeep = 3

// CompletionMessage is sent once after every cleanup run.
const CompletionMessage = "Congratulations! Your hard drive is free."

// Result summarises one Run.
type Result struct {
	Check  disk.ThresholdCheck
	Report cleanup.Report
}

// Janitor wires the disk monitor, walker, executor and notifier together.
type Janitor struct {
	cfg      *config.Config
	keep     int
	log      logging.Logger
	monitor  disk.Monitor
	fs       fs.FS
	remover  fs.Remover
	notifier notify.Notifier
	metrics  *metrics.Metrics
	dryRun   bool
	now      func() time.Time
}

// Option customises a Janitor.
type Option func(*Janitor)

// WithKeep overrides DefaultKeep.
func WithKeep(n int) Option { return func(j *Janitor) { j.keep = n } }

// WithMonitor replaces the OS disk probe.
func WithMonitor(m disk.Monitor) Option { return func(j *Janitor) { j.monitor = m } }

// WithFS replaces the filesystem used for listing.
func WithFS(f fs.FS) Option { return func(j *Janitor) { j.fs = f } }

// WithRemover replaces the deletion backend, e.g. with fs.DryRun.
func WithRemover(r fs.Remover) Option { return func(j *Janitor) { j.remover = r } }

// WithDryRun logs would-be deletions instead of removing anything and skips
// the notification.
func WithDryRun() Option { return func(j *Janitor) { j.dryRun = true } }

// WithNotifier replaces the Slack notifier.
func WithNotifier(n notify.Notifier) Option { return func(j *Janitor) { j.notifier = n } }

// WithMetrics records run metrics into m.
func WithMetrics(m *metrics.Metrics) Option { return func(j *Janitor) { j.metrics = m } }

// New creates a janitor for cfg. Unless overridden, it probes the real disk,
// deletes from the local filesystem and notifies through Slack.
func New(cfg *config.Config, log logging.Logger, opts ...Option) *Janitor {
	j := &Janitor{
		cfg:  cfg,
		keep: DefaultKeep,
		log:  log,
		now:  time.Now,
	}
	for _, o := range opts {
		o(j)
	}

	if j.monitor == nil {
		j.monitor = disk.NewProbe()
	}
	if j.fs == nil {
		j.fs = fs.New()
	}
	if j.remover == nil {
		j.remover = j.fs
	}
	if j.dryRun {
		j.remover = fs.DryRun{Log: log}
	}
	if j.notifier == nil {
		j.notifier = notify.NewSlack(cfg.SlackToken, cfg.SlackAPIURL)
	}
	if j.metrics == nil {
		j.metrics = metrics.New()
	}
	return j
}

// Check probes the drive and compares free space with the threshold.
func (j *Janitor) Check() (disk.ThresholdCheck, error) {
	usage, err := j.monitor.Usage(j.cfg.DrivePath)
	if err != nil {
		return disk.ThresholdCheck{}, err
	}

	check := disk.Check(usage, j.cfg.Threshold())
	j.metrics.ObserveFreeBytes(check.FreeBytes)
	j.metrics.ObserveTriggered(check.Triggered)

	j.log.Info(fmt.Sprintf("Free space: %.2f GB", check.FreeGiB),
		"free", humanize.IBytes(check.FreeBytes),
		"total", humanize.IBytes(usage.Total),
		"threshold_gb", check.ThresholdGiB,
	)
	return check, nil
}

// Run performs one full check-and-clean cycle.
func (j *Janitor) Run(ctx context.Context) (Result, error) {
	defer j.finish(ctx)

	check, err := j.Check()
	if err != nil {
		return Result{}, err
	}

	res := Result{Check: check}
	if !check.Triggered {
		j.log.Info("free space above threshold, nothing to do")
		return res, nil
	}

	j.log.Info("Free space below threshold. Initiating cleanup...")
	if err := j.clean(ctx, cleanup.New(j.remover, j.log), &res.Report); err != nil {
		j.log.Warn("cleanup interrupted",
			"leaves", res.Report.LeavesScanned,
			"deleted", res.Report.Succeeded(),
			"error", err,
		)
		return res, err
	}

	j.log.Info("cleanup finished",
		"leaves", res.Report.LeavesScanned,
		"deleted", res.Report.Succeeded(),
		"failed", res.Report.Failed(),
		"walk_errors", len(res.Report.WalkErrors),
	)
	if err := res.Report.Err(); err != nil {
		j.log.Warn("cleanup finished with errors", "error", err)
	}

	if j.dryRun {
		j.log.Info("dry run, notification not sent")
		return res, nil
	}
	if err := j.notifier.Notify(ctx, j.cfg.SlackChannelID, CompletionMessage); err != nil {
		return res, fmt.Errorf("sending notification: %w", err)
	}
	j.metrics.NotificationSent()
	j.log.Info(CompletionMessage)

	return res, nil
}

// Plan walks every root and returns the decisions without deleting anything.
func (j *Janitor) Plan(ctx context.Context) ([]retention.Decision, []error) {
	var (
		decisions []retention.Decision
		errs      []error
	)
	w := walker.New(j.fs, retention.New(j.fs, j.log), j.log)
	for _, root := range j.cfg.Roots() {
		for d, err := range w.Walk(root, j.keep) {
			if ctx.Err() != nil {
				return decisions, append(errs, ctx.Err())
			}
			if err != nil {
				errs = append(errs, err)
				continue
			}
			decisions = append(decisions, d)
		}
	}
	return decisions, errs
}

// clean walks each configured root and applies the executor to every leaf.
// It stops at the first leaf after ctx is done and returns ctx.Err().
func (j *Janitor) clean(ctx context.Context, exec *cleanup.Executor, report *cleanup.Report) error {
	w := walker.New(j.fs, retention.New(j.fs, j.log), j.log)

	for _, root := range j.cfg.Roots() {
		if err := ctx.Err(); err != nil {
			return err
		}
		j.log.Info("Initiating cleanup", "root", root)

		for d, err := range w.Walk(root, j.keep) {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if err != nil {
				j.log.Error("cannot list directory", "error", err)
				report.AddWalkError(err)
				j.metrics.WalkError()
				continue
			}

			j.metrics.LeafScanned()
			if len(d.Delete) == 0 {
				j.log.Info("Skipped", "leaf", d.LeafPath, "date_folders", d.Total())
				report.Add(nil)
				continue
			}

			outcomes := exec.Apply(ctx, d)
			for _, o := range outcomes {
				j.metrics.Deleted(o.Succeeded)
			}
			report.Add(outcomes)
		}
	}
	return ctx.Err()
}

// finish stamps the run and pushes metrics when a Pushgateway is configured.
func (j *Janitor) finish(ctx context.Context) {
	j.metrics.Finish(j.now())

	url := j.cfg.Metrics.PushgatewayURL
	if url == "" {
		return
	}
	if err := j.metrics.Push(ctx, url, j.cfg.MetricsJob()); err != nil {
		j.log.Warn("metrics push failed", "error", err)
	}
}
