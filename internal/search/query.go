package search

import (
	"context"

	"tourplanner/internal/db"
	"tourplanner/internal/logging"
	"tourplanner/internal/tour"

	"github.com/rs/zerolog"
)

// scoredCTE exposes every tour column plus its popularity, average rating
// and child-friendliness in integer hundredths, rounded half to even. Tours
// without logs get zeros; callers treat the statistics as absent when
// popularity is 0.
const scoredCTE = `
WITH stats AS (
	SELECT tour_id,
		COUNT(*) AS popularity,
		AVG(rating::float8) AS avg_rating,
		AVG(difficulty::float8) AS avg_difficulty,
		AVG(total_distance_km) AS avg_distance,
		AVG(total_time_sec::float8 / 3600::float8) AS avg_hours
	FROM tour_logs
	GROUP BY tour_id
),
child AS (
	SELECT tour_id, x, floor(x) AS f
	FROM (
		SELECT tour_id,
			((5::float8 - avg_difficulty)
				+ GREATEST(0::float8, 5::float8 - avg_distance / 10::float8)
				+ GREATEST(0::float8, 5::float8 - avg_hours)) / 3::float8 * 100::float8 AS x
		FROM stats
	) raw
),
scored AS (
	SELECT t.id, t.name, t.description, t.origin, t.destination, t.transport_type,
		t.distance_km, t.estimated_time_sec, t.route, t.route_image, t.created_at,
		COALESCE(s.popularity, 0) AS popularity,
		COALESCE(s.avg_rating, 0) AS avg_rating,
		COALESCE((CASE
			WHEN c.x - c.f > 0.5::float8 THEN c.f + 1
			WHEN c.x - c.f < 0.5::float8 THEN c.f
			ELSE c.f + mod(c.f::bigint, 2)
		END)::bigint, 0) AS child_h
	FROM tours t
	LEFT JOIN stats s ON s.tour_id = t.id
	LEFT JOIN child c ON c.tour_id = t.id
)`

// durationText renders total_time_sec as [d.]hh:mm:ss.
const durationText = `(CASE WHEN l.total_time_sec >= 86400 THEN (l.total_time_sec / 86400)::text || '.' ELSE '' END
	|| lpad(((l.total_time_sec % 86400) / 3600)::text, 2, '0')
	|| ':' || lpad(((l.total_time_sec % 3600) / 60)::text, 2, '0')
	|| ':' || lpad((l.total_time_sec % 60)::text, 2, '0'))`

// childText renders child_h with one decimal, rounding half up.
const childText = `(((sc.child_h + 5) / 10 / 10)::text || '.' || ((sc.child_h + 5) / 10 % 10)::text)`

// searchWhere holds the text predicate ($1) and the "any log" filters for
// minimum rating ($2), date from ($3) and date to ($4). NULL disables a term.
const searchWhere = `
WHERE ($1::text IS NULL OR (
	strpos(lower(sc.name), lower($1::text)) > 0
	OR strpos(lower(sc.description), lower($1::text)) > 0
	OR strpos(lower(sc.origin), lower($1::text)) > 0
	OR strpos(lower(sc.destination), lower($1::text)) > 0
	OR strpos(lower(sc.transport_type), lower($1::text)) > 0
	OR strpos(sc.popularity::text, lower($1::text)) > 0
	OR (sc.popularity > 0 AND strpos(` + childText + `, lower($1::text)) > 0)
	OR EXISTS (
		SELECT 1 FROM tour_logs l
		WHERE l.tour_id = sc.id AND (
			strpos(lower(l.comment), lower($1::text)) > 0
			OR strpos(l.rating::text, lower($1::text)) > 0
			OR strpos(l.difficulty::text, lower($1::text)) > 0
			OR strpos(lower(l.total_distance_km::text), lower($1::text)) > 0
			OR strpos(` + durationText + `, lower($1::text)) > 0
		)
	)
))
AND ($2::int IS NULL OR EXISTS (SELECT 1 FROM tour_logs l WHERE l.tour_id = sc.id AND l.rating >= $2::int))
AND ($3::timestamptz IS NULL OR EXISTS (SELECT 1 FROM tour_logs l WHERE l.tour_id = sc.id AND l.logged_at >= $3::timestamptz))
AND ($4::timestamptz IS NULL OR EXISTS (SELECT 1 FROM tour_logs l WHERE l.tour_id = sc.id AND l.logged_at <= $4::timestamptz))`

const (
	countQuery = scoredCTE + `
SELECT COUNT(*) FROM scored sc` + searchWhere

	pageQuery = scoredCTE + `
SELECT ` + tour.Columns + ` FROM scored sc` + searchWhere

	summariesQuery = scoredCTE + `
SELECT id::text, name, distance_km, popularity, avg_rating, child_h
FROM scored
ORDER BY name COLLATE "C", id`
)

// orderBy is chosen from the closed SortField set. Ties fall back to store
// order (name, id) ascending in both directions, matching a stable sort.
func orderBy(field SortField, desc bool) string {
	dir := "ASC"
	if desc {
		dir = "DESC"
	}
	switch field {
	case SortByDistance:
		return `
ORDER BY distance_km ` + dir + `, name COLLATE "C", id`
	default:
		return `
ORDER BY name COLLATE "C" ` + dir + `, id`
	}
}

// QueryEngine evaluates searches inside PostgreSQL.
type QueryEngine struct {
	db     db.Querier
	logger zerolog.Logger
}

func NewQueryEngine(db db.Querier, logger zerolog.Logger) *QueryEngine {
	return &QueryEngine{db: db, logger: logger}
}

func searchArgs(req Request) []any {
	args := make([]any, 4)
	if !isBlank(req.Text) {
		args[0] = req.Text
	}
	if req.MinRating != nil {
		// ratings are 1..5, so clamping keeps the value inside int4
		args[1] = max(0, min(*req.MinRating, 6))
	}
	if req.DateFrom != nil {
		args[2] = *req.DateFrom
	}
	if req.DateTo != nil {
		args[3] = *req.DateTo
	}
	return args
}

func (e *QueryEngine) Search(ctx context.Context, req Request) (PagedResult, error) {
	if err := ctx.Err(); err != nil {
		return PagedResult{}, cancelled(err)
	}
	page, size := NormalizePage(req.Page, req.PageSize)
	args := searchArgs(req)

	var total int
	if err := e.db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return PagedResult{}, storeError(ctx, "count tours", err)
	}

	rows, err := e.db.Query(ctx, pageQuery+orderBy(req.SortBy, req.Desc)+`
LIMIT $5 OFFSET $6`, append(args, size, offset(page, size))...)
	if err != nil {
		return PagedResult{}, storeError(ctx, "query tours", err)
	}
	defer rows.Close()

	items := make([]tour.Tour, 0, min(size, total))
	for rows.Next() {
		t, err := tour.ScanRow(rows)
		if err != nil {
			return PagedResult{}, storeError(ctx, "scan tour", err)
		}
		items = append(items, t)
	}
	if err := rows.Err(); err != nil {
		return PagedResult{}, storeError(ctx, "query tours", err)
	}

	log := logging.FromContext(ctx, e.logger)
	log.Debug().Int("total", total).Int("page", page).Msg("queried tours")
	return PagedResult{Items: items, Page: page, PageSize: size, Total: total}, nil
}

func (e *QueryEngine) Summaries(ctx context.Context) ([]Summary, error) {
	if err := ctx.Err(); err != nil {
		return nil, cancelled(err)
	}
	rows, err := e.db.Query(ctx, summariesQuery)
	if err != nil {
		return nil, storeError(ctx, "query summaries", err)
	}
	defer rows.Close()

	out := []Summary{}
	for rows.Next() {
		var (
			s         Summary
			avgRating float64
			childH    int64
		)
		if err := rows.Scan(&s.ID, &s.Name, &s.DistanceKm, &s.Popularity, &avgRating, &childH); err != nil {
			return nil, storeError(ctx, "scan summary", err)
		}
		if s.Popularity > 0 {
			child := float64(childH) / 100
			s.AverageRating = &avgRating
			s.ChildFriendliness = &child
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, storeError(ctx, "query summaries", err)
	}
	return out, nil
}
