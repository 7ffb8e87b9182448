package tourlog

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v3"
)

var errQuery = errors.New("query error")

var logColumns = []string{"id", "tour_id", "logged_at", "comment", "difficulty",
	"total_distance_km", "total_time_sec", "rating", "votes"}

const (
	tourID = "6f1c9c3e-2f57-4a43-9d0a-3c52e1f0b001"
	logID  = "0b7e3c11-8d8e-4f0e-b7a5-1d2e3f4a5b01"
)

func TestMemoryStoreOrdering(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	day := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

	_, _ = s.CreateLog(ctx, TourLog{ID: "c", TourID: "t1", Date: day, Rating: 3})
	_, _ = s.CreateLog(ctx, TourLog{ID: "b", TourID: "t1", Date: day, Rating: 5})
	_, _ = s.CreateLog(ctx, TourLog{ID: "a", TourID: "t1", Date: day.Add(24 * time.Hour), Rating: 1})
	_, _ = s.CreateLog(ctx, TourLog{ID: "z", TourID: "t2", Date: day, Rating: 1})

	logs, err := s.ListLogsForTour(ctx, "t1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(logs) != 3 || logs[0].ID != "a" || logs[1].ID != "b" || logs[2].ID != "c" {
		t.Fatalf("unexpected order: %+v", logs)
	}

	empty, err := s.ListLogsForTour(ctx, "none")
	if err != nil || empty == nil || len(empty) != 0 {
		t.Fatalf("expected empty non-nil slice, got %v %v", empty, err)
	}
}

func TestMemoryStoreMutations(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	l, _ := s.CreateLog(ctx, TourLog{TourID: "t1", Rating: 2, Votes: 0})

	upvoted, err := s.IncrementVotes(ctx, l.ID)
	if err != nil || upvoted.Votes != 1 {
		t.Fatalf("upvote: %v %+v", err, upvoted)
	}

	l.Rating = 4
	l.TourID = "other"
	if err := s.UpdateLog(ctx, l); err != nil {
		t.Fatalf("update: %v", err)
	}
	loaded, _ := s.GetLog(ctx, l.ID)
	if loaded.Rating != 4 || loaded.TourID != "t1" || loaded.Votes != 1 {
		t.Fatalf("update should keep tour and votes: %+v", loaded)
	}

	if err := s.DeleteLog(ctx, l.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := s.DeleteLog(ctx, l.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if _, err := s.IncrementVotes(ctx, l.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	logs, _ := s.ListLogsForTour(ctx, "t1")
	if len(logs) != 0 {
		t.Fatalf("expected no logs after delete")
	}
}

func TestPostgresStoreList(t *testing.T) {
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("mock pool: %v", err)
	}
	defer mock.Close()

	date := time.Date(2024, 5, 1, 10, 0, 0, 0, time.FixedZone("CEST", 2*3600))
	mock.ExpectQuery(`FROM tour_logs WHERE tour_id=\$1\s+ORDER BY logged_at DESC, rating DESC, id`).
		WithArgs(tourID).
		WillReturnRows(pgxmock.NewRows(logColumns).
			AddRow(logID, tourID, date, "great", 2, 12.5, int64(5400), 5, 3))

	s := NewPostgresStore(mock)
	logs, err := s.ListLogsForTour(context.Background(), tourID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(logs) != 1 || logs[0].Comment != "great" || logs[0].Votes != 3 {
		t.Fatalf("unexpected logs: %+v", logs)
	}
	if logs[0].Date.Location() != time.UTC || logs[0].Date.Hour() != 8 {
		t.Fatalf("expected UTC date, got %v", logs[0].Date)
	}

	logs, err = s.ListLogsForTour(context.Background(), "not-a-uuid")
	if err != nil || len(logs) != 0 {
		t.Fatalf("malformed id should yield no logs: %v %v", logs, err)
	}

	mock.ExpectQuery(`FROM tour_logs WHERE tour_id`).WithArgs(tourID).WillReturnError(errQuery)
	if _, err := s.ListLogsForTour(context.Background(), tourID); !errors.Is(err, errQuery) {
		t.Fatalf("expected query error, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestPostgresStoreMutations(t *testing.T) {
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("mock pool: %v", err)
	}
	defer mock.Close()
	s := NewPostgresStore(mock)
	date := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectExec(`INSERT INTO tour_logs`).
		WithArgs(pgxmock.AnyArg(), tourID, date, "ok", 3, 4.0, int64(60), 4, 0).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	created, err := s.CreateLog(context.Background(), TourLog{TourID: tourID, Date: date, Comment: "ok", Difficulty: 3, TotalDistanceKm: 4, TotalTimeSec: 60, Rating: 4})
	if err != nil || created.ID == "" {
		t.Fatalf("create: %v", err)
	}

	if _, err := s.CreateLog(context.Background(), TourLog{TourID: "bad"}); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected validation error for malformed tour id, got %v", err)
	}

	mock.ExpectQuery(`UPDATE tour_logs SET votes = votes \+ 1`).
		WithArgs(logID).
		WillReturnRows(pgxmock.NewRows(logColumns).AddRow(logID, tourID, date, "ok", 3, 4.0, int64(60), 4, 1))
	upvoted, err := s.IncrementVotes(context.Background(), logID)
	if err != nil || upvoted.Votes != 1 {
		t.Fatalf("upvote: %v %+v", err, upvoted)
	}

	mock.ExpectExec(`UPDATE tour_logs`).
		WithArgs(logID, date, "edited", 3, 4.0, int64(60), 4).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	if err := s.UpdateLog(context.Background(), TourLog{ID: logID, Date: date, Comment: "edited", Difficulty: 3, TotalDistanceKm: 4, TotalTimeSec: 60, Rating: 4}); err != nil {
		t.Fatalf("update: %v", err)
	}

	mock.ExpectExec(`DELETE FROM tour_logs`).WithArgs(logID).WillReturnResult(pgxmock.NewResult("DELETE", 0))
	if err := s.DeleteLog(context.Background(), logID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
