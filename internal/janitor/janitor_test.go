package janitor

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"syscall"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/raoulx24/snapshot-janitor/internal/config"
	"github.com/raoulx24/snapshot-janitor/internal/disk"
	"github.com/raoulx24/snapshot-janitor/internal/fs"
	"github.com/raoulx24/snapshot-janitor/internal/logging"
	"github.com/raoulx24/snapshot-janitor/internal/metrics"
)

type fakeMonitor struct {
	usage disk.Usage
	err   error
}

func (m fakeMonitor) Usage(string) (disk.Usage, error) { return m.usage, m.err }

type recordingNotifier struct {
	calls []string
	err   error
}

func (n *recordingNotifier) Notify(_ context.Context, channel, message string) error {
	n.calls = append(n.calls, channel+"|"+message)
	return n.err
}

// denyRemover fails on selected paths and removes everything else for real.
type denyRemover struct {
	deny map[string]bool
}

func (d denyRemover) RemoveAll(ctx context.Context, path string) error {
	if d.deny[path] {
		return &os.PathError{Op: "unlinkat", Path: path, Err: syscall.EACCES}
	}
	return fs.New().RemoveAll(ctx, path)
}

func gib(f float64) uint64 { return uint64(f * disk.GiB) }

func newConfig(drive string, threshold float64, folders ...string) *config.Config {
	return &config.Config{
		DrivePath:          drive,
		ThresholdGigabytes: &threshold,
		SlackChannelID:     "C0123",
		SlackToken:         "xoxb-test",
		FoldersToClean:     folders,
	}
}

func mkdirs(t *testing.T, root string, dirs ...string) {
	t.Helper()
	for _, d := range dirs {
		if err := os.MkdirAll(filepath.Join(root, filepath.FromSlash(d)), 0o755); err != nil {
			t.Fatal(err)
		}
	}
}

func remaining(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	var out []string
	for _, e := range entries {
		out = append(out, e.Name())
	}
	sort.Strings(out)
	return out
}

func TestRun_AboveThresholdDoesNothing(t *testing.T) {
	drive := t.TempDir()
	mkdirs(t, drive, "cams/c1/cam1/20240101", "cams/c1/cam1/20240102", "cams/c1/cam1/20240103", "cams/c1/cam1/20240104")

	n := &recordingNotifier{}
	j := New(newConfig(drive, 10, "cams"), logging.Discard(),
		WithMonitor(fakeMonitor{usage: disk.Usage{Total: gib(100), Free: gib(12.3)}}),
		WithNotifier(n),
	)

	res, err := j.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Check.Triggered {
		t.Fatal("cleanup should not trigger at 12.3 GB free")
	}
	if len(n.calls) != 0 {
		t.Fatalf("notifier called: %v", n.calls)
	}
	if got := remaining(t, filepath.Join(drive, "cams", "c1", "cam1")); len(got) != 4 {
		t.Fatalf("folders removed above threshold: %v", got)
	}
}

func TestRun_BelowThresholdKeepsNewestThree(t *testing.T) {
	drive := t.TempDir()
	mkdirs(t, drive,
		"cams/c1/cam1/20240101", "cams/c1/cam1/20240102", "cams/c1/cam1/20240103",
		"cams/c1/cam1/20240104", "cams/c1/cam1/20240105", "cams/c1/cam1/keepme",
	)

	n := &recordingNotifier{}
	m := metrics.New()
	j := New(newConfig(drive, 10, "cams"), logging.Discard(),
		WithMonitor(fakeMonitor{usage: disk.Usage{Total: gib(100), Free: gib(5)}}),
		WithNotifier(n),
		WithMetrics(m),
	)

	res, err := j.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	want := []string{"20240103", "20240104", "20240105", "keepme"}
	got := remaining(t, filepath.Join(drive, "cams", "c1", "cam1"))
	if len(got) != len(want) {
		t.Fatalf("remaining = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("remaining = %v, want %v", got, want)
		}
	}

	if res.Report.Succeeded() != 2 || res.Report.Failed() != 0 {
		t.Fatalf("report = %+v", res.Report)
	}
	if len(n.calls) != 1 || n.calls[0] != "C0123|"+CompletionMessage {
		t.Fatalf("notifier calls = %v", n.calls)
	}
	expected := `
# HELP snapshot_janitor_folders_deleted_total Date folders removed
# TYPE snapshot_janitor_folders_deleted_total counter
snapshot_janitor_folders_deleted_total 2
`
	if err := testutil.GatherAndCompare(m.Registry(), strings.NewReader(expected), "snapshot_janitor_folders_deleted_total"); err != nil {
		t.Fatal(err)
	}
}

func TestRun_DeletionFailureStillNotifies(t *testing.T) {
	drive := t.TempDir()
	mkdirs(t, drive,
		"cams/c1/cam1/20240101", "cams/c1/cam1/20240102",
		"cams/c1/cam1/20240103", "cams/c1/cam1/20240104", "cams/c1/cam1/20240105",
		"cams/c2/cam1/20240101", "cams/c2/cam1/20240102", "cams/c2/cam1/20240103",
		"cams/c2/cam1/20240104", "cams/c2/cam1/20240105",
	)
	denied := filepath.Join(drive, "cams", "c2", "cam1", "20240101")

	n := &recordingNotifier{}
	j := New(newConfig(drive, 10, "cams"), logging.Discard(),
		WithMonitor(fakeMonitor{usage: disk.Usage{Free: gib(1)}}),
		WithNotifier(n),
		WithRemover(denyRemover{deny: map[string]bool{denied: true}}),
	)

	res, err := j.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Report.Succeeded() != 3 || res.Report.Failed() != 1 {
		t.Fatalf("succeeded=%d failed=%d", res.Report.Succeeded(), res.Report.Failed())
	}
	if !errors.Is(res.Report.Err(), syscall.EACCES) {
		t.Fatalf("report error = %v", res.Report.Err())
	}
	if _, err := os.Stat(denied); err != nil {
		t.Fatalf("denied folder should survive: %v", err)
	}
	if len(n.calls) != 1 {
		t.Fatalf("notification not sent: %v", n.calls)
	}
}

func TestRun_NotifiesEvenWhenNothingDeleted(t *testing.T) {
	drive := t.TempDir()
	mkdirs(t, drive, "cams/c1/cam1/20240101")

	n := &recordingNotifier{}
	j := New(newConfig(drive, 10, "cams", "missing"), logging.Discard(),
		WithMonitor(fakeMonitor{usage: disk.Usage{Free: 0}}),
		WithNotifier(n),
	)

	res, err := j.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(res.Report.Outcomes) != 0 || len(res.Report.WalkErrors) != 1 {
		t.Fatalf("report = %+v", res.Report)
	}
	if len(n.calls) != 1 {
		t.Fatalf("notifier calls = %v", n.calls)
	}
}

func TestRun_DiskErrorIsFatal(t *testing.T) {
	n := &recordingNotifier{}
	j := New(newConfig(t.TempDir(), 10, "cams"), logging.Discard(),
		WithMonitor(fakeMonitor{err: os.ErrNotExist}),
		WithNotifier(n),
		WithRemover(denyRemover{}),
	)

	if _, err := j.Run(context.Background()); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("want ErrNotExist, got %v", err)
	}
	if len(n.calls) != 0 {
		t.Fatal("notifier must not be called")
	}
}

func TestRun_NotificationErrorPropagates(t *testing.T) {
	drive := t.TempDir()
	mkdirs(t, drive, "cams/c1/cam1/20240101", "cams/c1/cam1/20240102", "cams/c1/cam1/20240103", "cams/c1/cam1/20240104")

	boom := errors.New("invalid_auth")
	j := New(newConfig(drive, 10, "cams"), logging.Discard(),
		WithMonitor(fakeMonitor{usage: disk.Usage{Free: gib(2)}}),
		WithNotifier(&recordingNotifier{err: boom}),
	)

	res, err := j.Run(context.Background())
	if !errors.Is(err, boom) {
		t.Fatalf("want notifier error, got %v", err)
	}
	// cleanup already happened and is not rolled back
	if res.Report.Succeeded() != 1 {
		t.Fatalf("report = %+v", res.Report)
	}
	if _, err := os.Stat(filepath.Join(drive, "cams", "c1", "cam1", "20240101")); !os.IsNotExist(err) {
		t.Fatal("oldest folder should be gone")
	}
}

func TestRun_WithKeepAndDryRun(t *testing.T) {
	drive := t.TempDir()
	mkdirs(t, drive, "cams/c1/cam1/20240101", "cams/c1/cam1/20240102", "cams/c1/cam1/20240103")

	n := &recordingNotifier{}
	j := New(newConfig(drive, 10, "cams"), logging.Discard(),
		WithKeep(1),
		WithMonitor(fakeMonitor{usage: disk.Usage{Free: gib(1)}}),
		WithNotifier(n),
		WithDryRun(),
	)

	res, err := j.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if res.Report.Succeeded() != 2 {
		t.Fatalf("dry run should report 2 would-deletes, got %+v", res.Report)
	}
	if got := remaining(t, filepath.Join(drive, "cams", "c1", "cam1")); len(got) != 3 {
		t.Fatalf("dry run deleted folders: %v", got)
	}
	if len(n.calls) != 0 {
		t.Fatalf("dry run must not notify: %v", n.calls)
	}
}

func TestRun_CancelledStopsBeforeDeletingOrNotifying(t *testing.T) {
	drive := t.TempDir()
	mkdirs(t, drive,
		"cams/c1/cam1/20240101", "cams/c1/cam1/20240102", "cams/c1/cam1/20240103", "cams/c1/cam1/20240104",
		"cams/c2/cam1/20240101", "cams/c2/cam1/20240102", "cams/c2/cam1/20240103", "cams/c2/cam1/20240104",
	)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	n := &recordingNotifier{}
	j := New(newConfig(drive, 10, "cams"), logging.Discard(),
		WithMonitor(fakeMonitor{usage: disk.Usage{Free: gib(1)}}),
		WithNotifier(n),
	)

	res, err := j.Run(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("want context.Canceled, got %v", err)
	}
	if len(res.Report.Outcomes) != 0 || res.Report.LeavesScanned != 0 {
		t.Fatalf("report = %+v", res.Report)
	}
	if len(n.calls) != 0 {
		t.Fatalf("cancelled run must not notify: %v", n.calls)
	}
	if got := remaining(t, filepath.Join(drive, "cams", "c1", "cam1")); len(got) != 4 {
		t.Fatalf("cancelled run deleted folders: %v", got)
	}
}

func TestRun_CancelledMidWalk(t *testing.T) {
	drive := t.TempDir()
	mkdirs(t, drive,
		"cams/c1/cam1/20240101", "cams/c1/cam1/20240102", "cams/c1/cam1/20240103", "cams/c1/cam1/20240104",
		"cams/c2/cam1/20240101", "cams/c2/cam1/20240102", "cams/c2/cam1/20240103", "cams/c2/cam1/20240104",
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	n := &recordingNotifier{}
	j := New(newConfig(drive, 10, "cams"), logging.Discard(),
		WithMonitor(fakeMonitor{usage: disk.Usage{Free: gib(1)}}),
		WithNotifier(n),
		WithRemover(cancelAfterFirst{cancel: cancel}),
	)

	res, err := j.Run(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("want context.Canceled, got %v", err)
	}
	if res.Report.LeavesScanned != 1 || res.Report.Succeeded() != 1 {
		t.Fatalf("report = %+v", res.Report)
	}
	if len(n.calls) != 0 {
		t.Fatalf("cancelled run must not notify: %v", n.calls)
	}
}

// cancelAfterFirst removes the folder it is given and cancels the run.
type cancelAfterFirst struct {
	cancel context.CancelFunc
}

func (c cancelAfterFirst) RemoveAll(ctx context.Context, path string) error {
	defer c.cancel()
	return fs.New().RemoveAll(ctx, path)
}

func TestRun_PushesMetrics(t *testing.T) {
	pushed := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		pushed = r.URL.Path == "/metrics/job/"+config.DefaultMetricsJob
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	cfg := newConfig(t.TempDir(), 1, "cams")
	cfg.Metrics.PushgatewayURL = srv.URL

	j := New(cfg, logging.Discard(),
		WithMonitor(fakeMonitor{usage: disk.Usage{Free: gib(50)}}),
		WithNotifier(&recordingNotifier{}),
	)
	if _, err := j.Run(context.Background()); err != nil {
		t.Fatal(err)
	}
	if !pushed {
		t.Fatal("metrics were not pushed")
	}
}

func TestPlan_DoesNotDelete(t *testing.T) {
	drive := t.TempDir()
	mkdirs(t, drive,
		"cams/c1/cam1/20240101", "cams/c1/cam1/20240102", "cams/c1/cam1/20240103", "cams/c1/cam1/20240104",
		"cams/c1/cam2",
	)

	n := &recordingNotifier{}
	j := New(newConfig(drive, 10, "cams"), logging.Discard(), WithNotifier(n))

	decisions, errs := j.Plan(context.Background())
	if len(errs) != 0 {
		t.Fatal(errs)
	}
	if len(decisions) != 2 {
		t.Fatalf("decisions = %+v", decisions)
	}
	deletes := 0
	for _, d := range decisions {
		deletes += len(d.Delete)
	}
	if deletes != 1 {
		t.Fatalf("planned deletes = %d, want 1", deletes)
	}
	if got := remaining(t, filepath.Join(drive, "cams", "c1", "cam1")); len(got) != 4 {
		t.Fatalf("plan deleted folders: %v", got)
	}
	if len(n.calls) != 0 {
		t.Fatal("plan must not notify")
	}
}
