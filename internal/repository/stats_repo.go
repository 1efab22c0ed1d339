package repository

import (
	"context"
	"database/sql"
	"fmt"

	"parklystats/internal/entities"
	apperrors "parklystats/internal/errors"
)

// WeekdayTotal is one grouped row of completed revenue. ISODay follows the
// ISO numbering (Monday=1 .. Sunday=7); mapping to day names happens in the
// service so the query stays portable across store engines.
type WeekdayTotal struct {
	ISODay int
	Total  float64
}

type StatsRepository struct {
	DB *sql.DB
}

func NewStatsRepository(db *sql.DB) *StatsRepository {
	return &StatsRepository{DB: db}
}

// WeekdayRevenue sums completed reservation amounts per ISO weekday.
// Weekdays with no completed revenue produce no row.
func (r *StatsRepository) WeekdayRevenue(ctx context.Context) ([]WeekdayTotal, error) {
	query := `
	SELECT EXTRACT(ISODOW FROM date)::int AS dow, SUM(total_amount) AS total
	FROM reservations
	WHERE status = 'completed'
	GROUP BY dow
	ORDER BY dow
	`

	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, apperrors.Query(fmt.Errorf("querying weekday revenue: %w", err))
	}
	defer rows.Close()

	var totals []WeekdayTotal
	for rows.Next() {
		var wt WeekdayTotal
		if err := rows.Scan(&wt.ISODay, &wt.Total); err != nil {
			return nil, apperrors.Query(fmt.Errorf("scanning weekday revenue row: %w", err))
		}
		totals = append(totals, wt)
	}
	if err = rows.Err(); err != nil {
		return nil, apperrors.Query(fmt.Errorf("iterating weekday revenue rows: %w", err))
	}

	return totals, nil
}

// OccupancyCounts returns the number of distinct spots currently tied to a
// pending or in-use reservation, and the spot denominator. With approvedOnly
// the denominator is restricted to approved spots.
func (r *StatsRepository) OccupancyCounts(ctx context.Context, approvedOnly bool) (occupied, total int, err error) {
	query := `
	SELECT
		(SELECT COUNT(DISTINCT parking_id) FROM reservations WHERE status IN ('pending', 'in-use')) AS occupied,
		(SELECT COUNT(*) FROM parking_spots) AS total_spots
	`
	if approvedOnly {
		query = `
	SELECT
		(SELECT COUNT(DISTINCT parking_id) FROM reservations WHERE status IN ('pending', 'in-use')) AS occupied,
		(SELECT COUNT(*) FROM parking_spots WHERE status = 'approved') AS total_spots
	`
	}

	if err := r.DB.QueryRowContext(ctx, query).Scan(&occupied, &total); err != nil {
		return 0, 0, apperrors.Query(fmt.Errorf("querying occupancy counts: %w", err))
	}
	return occupied, total, nil
}

// TrailingDailyAverage averages the per-day completed revenue sums over the
// trailing window. Days without completed reservations contribute no row, so
// they are excluded from the average rather than counted as zero. ok is false
// when the window holds no completed reservations at all.
func (r *StatsRepository) TrailingDailyAverage(ctx context.Context, days int) (avg float64, ok bool, err error) {
	query := `
	SELECT AVG(daily_sum) FROM (
		SELECT SUM(total_amount) AS daily_sum
		FROM reservations
		WHERE status = 'completed' AND date >= CURRENT_DATE - $1::int
		GROUP BY date
	) AS daily
	`

	var result sql.NullFloat64
	if err := r.DB.QueryRowContext(ctx, query, days).Scan(&result); err != nil {
		return 0, false, apperrors.Query(fmt.Errorf("querying trailing daily average: %w", err))
	}
	return result.Float64, result.Valid, nil
}

// ApprovedSpotAvgPrice returns the mean hourly price across approved spots.
// ok is false when there are no approved spots.
func (r *StatsRepository) ApprovedSpotAvgPrice(ctx context.Context) (avg float64, ok bool, err error) {
	query := `SELECT AVG(price_hour) FROM parking_spots WHERE status = 'approved'`

	var result sql.NullFloat64
	if err := r.DB.QueryRowContext(ctx, query).Scan(&result); err != nil {
		return 0, false, apperrors.Query(fmt.Errorf("querying approved spot average price: %w", err))
	}
	return result.Float64, result.Valid, nil
}

// TopSpotsByRevenue ranks spots by summed completed revenue, descending.
// Ties fall back to the store's natural row order.
func (r *StatsRepository) TopSpotsByRevenue(ctx context.Context, limit int) ([]entities.TopSpotRevenue, error) {
	query := `
	SELECT p.name, SUM(r.total_amount) AS total_revenue
	FROM reservations r
	JOIN parking_spots p ON r.parking_id = p.id
	WHERE r.status = 'completed'
	GROUP BY p.id, p.name
	ORDER BY total_revenue DESC
	LIMIT $1
	`

	rows, err := r.DB.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, apperrors.Query(fmt.Errorf("querying top spots by revenue: %w", err))
	}
	defer rows.Close()

	spots := make([]entities.TopSpotRevenue, 0, limit)
	for rows.Next() {
		var ts entities.TopSpotRevenue
		if err := rows.Scan(&ts.Name, &ts.TotalRevenue); err != nil {
			return nil, apperrors.Query(fmt.Errorf("scanning top spot row: %w", err))
		}
		spots = append(spots, ts)
	}
	if err = rows.Err(); err != nil {
		return nil, apperrors.Query(fmt.Errorf("iterating top spot rows: %w", err))
	}

	return spots, nil
}

// TopSpotsByCount ranks spots by reservation count across every status,
// descending. Ties fall back to the store's natural row order.
func (r *StatsRepository) TopSpotsByCount(ctx context.Context, limit int) ([]entities.TopSpotCount, error) {
	query := `
	SELECT p.name, COUNT(r.id) AS reservation_count
	FROM reservations r
	JOIN parking_spots p ON r.parking_id = p.id
	GROUP BY p.id, p.name
	ORDER BY reservation_count DESC
	LIMIT $1
	`

	rows, err := r.DB.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, apperrors.Query(fmt.Errorf("querying top spots by count: %w", err))
	}
	defer rows.Close()

	spots := make([]entities.TopSpotCount, 0, limit)
	for rows.Next() {
		var ts entities.TopSpotCount
		if err := rows.Scan(&ts.Name, &ts.ReservationCount); err != nil {
			return nil, apperrors.Query(fmt.Errorf("scanning top spot row: %w", err))
		}
		spots = append(spots, ts)
	}
	if err = rows.Err(); err != nil {
		return nil, apperrors.Query(fmt.Errorf("iterating top spot rows: %w", err))
	}

	return spots, nil
}

// PlatformTotals returns the headline counters for the summary endpoint.
func (r *StatsRepository) PlatformTotals(ctx context.Context) (spots, reservations int, revenue float64, err error) {
	query := `
	SELECT
		(SELECT COUNT(*) FROM parking_spots) AS total_spots,
		(SELECT COUNT(*) FROM reservations) AS total_reservations,
		(SELECT COALESCE(SUM(total_amount), 0) FROM reservations WHERE status = 'completed') AS total_revenue
	`

	if err := r.DB.QueryRowContext(ctx, query).Scan(&spots, &reservations, &revenue); err != nil {
		return 0, 0, 0, apperrors.Query(fmt.Errorf("querying platform totals: %w", err))
	}
	return spots, reservations, revenue, nil
}
