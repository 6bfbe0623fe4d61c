package autolike

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/mahiofficial1332/Em-like-bot/internal/domain/rules"
	"github.com/mahiofficial1332/Em-like-bot/internal/repo/jsonstore"
	"github.com/mahiofficial1332/Em-like-bot/internal/services/likeapi"
)

type fakeClient struct {
	calls    []string
	outcomes map[string]likeapi.Outcome
	errs     map[string]error
}

func (f *fakeClient) RequestLike(_ context.Context, uid, region string) (likeapi.Outcome, error) {
	f.calls = append(f.calls, uid)
	if err, ok := f.errs[uid]; ok {
		return likeapi.Outcome{}, err
	}
	if outcome, ok := f.outcomes[uid]; ok {
		return outcome, nil
	}
	return likeapi.Outcome{Status: likeapi.StatusUnavailable, UID: uid, Region: region}, nil
}

type fakeStore struct {
	targets  []jsonstore.AutoTarget
	reports  map[string][]jsonstore.ReportEntry
	saves    int
	saveErr  error
	ensured  []string
	appended int
}

func newFakeStore(targets ...jsonstore.AutoTarget) *fakeStore {
	return &fakeStore{
		targets: targets,
		reports: make(map[string][]jsonstore.ReportEntry),
	}
}

func (f *fakeStore) AutoTargets() []jsonstore.AutoTarget { return f.targets }

func (f *fakeStore) EnsureReport(date string) {
	f.ensured = append(f.ensured, date)
	if _, ok := f.reports[date]; !ok {
		f.reports[date] = []jsonstore.ReportEntry{}
	}
}

func (f *fakeStore) AppendReport(date string, entry jsonstore.ReportEntry) {
	f.appended++
	f.reports[date] = append(f.reports[date], entry)
}

func (f *fakeStore) Report(date string) []jsonstore.ReportEntry { return f.reports[date] }

func (f *fakeStore) Save() error {
	f.saves++
	return f.saveErr
}

type fakeSink struct {
	dispatches int
	lastDate   string
	lastCount  int
}

func (f *fakeSink) DispatchReport(_ context.Context, date string, entries []jsonstore.ReportEntry) {
	f.dispatches++
	f.lastDate = date
	f.lastCount = len(entries)
}

func newTestJob(client LikeClient, store Store, sink ReportSink) *Job {
	job := NewJob(client, store, sink, time.Millisecond, nil)
	job.sleep = func(context.Context, time.Duration) {}
	return job
}

func TestRunSkipsErroredTargetWithoutEntry(t *testing.T) {
	client := &fakeClient{
		outcomes: map[string]likeapi.Outcome{
			"111111": {Status: likeapi.StatusSuccess, LikesGiven: 4},
			"333333": {Status: likeapi.StatusMaxed},
		},
		errs: map[string]error{
			"222222": errors.New("boom"),
		},
	}
	store := newFakeStore(
		jsonstore.AutoTarget{UID: "111111", Region: "IND", Nickname: "a"},
		jsonstore.AutoTarget{UID: "222222", Region: "BD", Nickname: "b"},
		jsonstore.AutoTarget{UID: "333333", Region: "AUTO", Nickname: "c"},
	)
	sink := &fakeSink{}

	job := newTestJob(client, store, sink)
	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}

	today := rules.DayKey(time.Now())
	entries := store.Report(today)

	// The erroring target is skipped entirely; the maxed one still gets a
	// failed entry.
	if len(entries) != 2 {
		t.Fatalf("expected 2 report entries, got %d: %+v", len(entries), entries)
	}
	if entries[0].UID != "111111" || entries[0].Status != jsonstore.ReportStatusSuccess || entries[0].Likes != 4 {
		t.Fatalf("unexpected first entry: %+v", entries[0])
	}
	if entries[1].UID != "333333" || entries[1].Status != jsonstore.ReportStatusFailed || entries[1].Likes != 0 {
		t.Fatalf("unexpected second entry: %+v", entries[1])
	}

	// All three targets were still attempted, in worklist order.
	if len(client.calls) != 3 || client.calls[0] != "111111" || client.calls[1] != "222222" || client.calls[2] != "333333" {
		t.Fatalf("unexpected call order: %v", client.calls)
	}

	if sink.dispatches != 1 || sink.lastDate != today || sink.lastCount != 2 {
		t.Fatalf("unexpected dispatch: %+v", sink)
	}
	if store.saves != 1 {
		t.Fatalf("run must persist the store once, got %d", store.saves)
	}
}

func TestRunUnavailableOutcomeStillGetsFailedEntry(t *testing.T) {
	client := &fakeClient{} // every call comes back unavailable
	store := newFakeStore(jsonstore.AutoTarget{UID: "111111", Region: "US", Nickname: "a"})
	sink := &fakeSink{}

	job := newTestJob(client, store, sink)
	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}

	entries := store.Report(rules.DayKey(time.Now()))
	if len(entries) != 1 || entries[0].Status != jsonstore.ReportStatusFailed {
		t.Fatalf("unavailable outcome should append a failed entry: %+v", entries)
	}
}

func TestRunEmptyWorklistDoesNothing(t *testing.T) {
	client := &fakeClient{}
	store := newFakeStore()
	sink := &fakeSink{}

	job := newTestJob(client, store, sink)
	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}

	if len(client.calls) != 0 || len(store.ensured) != 0 || sink.dispatches != 0 || store.saves != 0 {
		t.Fatalf("empty worklist must be a no-op")
	}
}

func TestRunSaveFailureIsNotFatal(t *testing.T) {
	client := &fakeClient{
		outcomes: map[string]likeapi.Outcome{"111111": {Status: likeapi.StatusSuccess, LikesGiven: 1}},
	}
	store := newFakeStore(jsonstore.AutoTarget{UID: "111111", Region: "IND", Nickname: "a"})
	store.saveErr = errors.New("disk full")

	job := newTestJob(client, store, &fakeSink{})
	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("save failure must not abort the run: %v", err)
	}
}

func TestRunStopsOnCancelledContext(t *testing.T) {
	client := &fakeClient{}
	store := newFakeStore(
		jsonstore.AutoTarget{UID: "111111", Region: "IND", Nickname: "a"},
		jsonstore.AutoTarget{UID: "222222", Region: "BD", Nickname: "b"},
	)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	job := newTestJob(client, store, nil)
	if err := job.Run(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if len(client.calls) != 0 {
		t.Fatalf("cancelled run should not call the client")
	}
}
