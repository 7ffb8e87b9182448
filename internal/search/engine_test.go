package search

import (
	"context"
	"errors"
	"testing"

	"tourplanner/internal/tour"
)

func TestEngineStoreUnavailable(t *testing.T) {
	ts, ls := memoryStores(alpsFixture())

	e := NewEngine(failingTours{err: errQuery}, ls, nopLogger)
	_, err := e.Search(context.Background(), Request{})
	if !errors.Is(err, ErrStoreUnavailable) || !errors.Is(err, errQuery) {
		t.Fatalf("expected wrapped store error, got %v", err)
	}

	e = NewEngine(ts, failingLogs{err: errQuery}, nopLogger)
	if _, err := e.Summaries(context.Background()); !errors.Is(err, ErrStoreUnavailable) {
		t.Fatalf("expected store unavailable, got %v", err)
	}
}

func TestEngineStoreContextErrorIsCancellation(t *testing.T) {
	e := NewEngine(failingTours{err: context.DeadlineExceeded}, failingLogs{}, nopLogger)
	_, err := e.Search(context.Background(), Request{})
	if !errors.Is(err, ErrCancelled) || errors.Is(err, ErrStoreUnavailable) {
		t.Fatalf("expected cancellation, got %v", err)
	}
}

func TestEngineCancelledMidScan(t *testing.T) {
	ts, ls := memoryStores(numberedFixture(25))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	logs := &cancellingLogs{next: ls, after: 3, cancel: cancel}
	e := NewEngine(ts, logs, nopLogger)

	res, err := e.Search(ctx, Request{Page: 1, PageSize: 10})
	if !errors.Is(err, ErrCancelled) {
		t.Fatalf("expected ErrCancelled, got %v", err)
	}
	if res.Items != nil || res.Total != 0 {
		t.Fatalf("cancelled search must not return partial results: %+v", res)
	}
	if n := logs.calls.Load(); n != 3 {
		t.Fatalf("scan should stop right after cancellation, made %d log fetches", n)
	}
}

type unorderedTours []tour.Tour

func (u unorderedTours) ListTours(context.Context) ([]tour.Tour, error) {
	return append([]tour.Tour(nil), u...), nil
}

func TestEngineScansInStoreOrder(t *testing.T) {
	_, ls := memoryStores(fixture{})
	tours := unorderedTours{
		{ID: fakeID(9, 3), Name: "b"},
		{ID: fakeID(9, 2), Name: "a"},
		{ID: fakeID(9, 1), Name: "b"},
	}
	e := NewEngine(tours, ls, nopLogger)

	sums, err := e.Summaries(context.Background())
	if err != nil {
		t.Fatalf("summaries: %v", err)
	}
	if sums[0].ID != fakeID(9, 2) || sums[1].ID != fakeID(9, 1) || sums[2].ID != fakeID(9, 3) {
		t.Fatalf("expected name then id order, got %+v", sums)
	}

	res, err := e.Search(context.Background(), Request{SortBy: SortByDistance, Page: 1, PageSize: 10})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if got := ids(res.Items); got[0] != fakeID(9, 2) || got[1] != fakeID(9, 1) || got[2] != fakeID(9, 3) {
		t.Fatalf("equal distances should keep store order, got %v", got)
	}
}
