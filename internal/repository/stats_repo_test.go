package repository

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "parklystats/internal/errors"
)

func newMockRepo(t *testing.T) (*StatsRepository, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewStatsRepository(db), mock
}

func TestWeekdayRevenue(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("EXTRACT(ISODOW FROM date)")).
		WillReturnRows(sqlmock.NewRows([]string{"dow", "total"}).
			AddRow(1, 50.0).
			AddRow(2, 30.0))

	totals, err := repo.WeekdayRevenue(context.Background())
	require.NoError(t, err)
	require.Len(t, totals, 2)
	assert.Equal(t, WeekdayTotal{ISODay: 1, Total: 50}, totals[0])
	assert.Equal(t, WeekdayTotal{ISODay: 2, Total: 30}, totals[1])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWeekdayRevenueWrapsQueryError(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("EXTRACT(ISODOW FROM date)")).
		WillReturnError(fmt.Errorf("relation does not exist"))

	_, err := repo.WeekdayRevenue(context.Background())
	require.Error(t, err)
	var queryErr *apperrors.QueryError
	assert.True(t, errors.As(err, &queryErr))
}

func TestWeekdayRevenueRowError(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("EXTRACT(ISODOW FROM date)")).
		WillReturnRows(sqlmock.NewRows([]string{"dow", "total"}).
			AddRow(1, 50.0).
			RowError(0, fmt.Errorf("connection reset")))

	_, err := repo.WeekdayRevenue(context.Background())
	require.Error(t, err)
	var queryErr *apperrors.QueryError
	assert.True(t, errors.As(err, &queryErr))
}

func TestOccupancyCounts(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("(SELECT COUNT(*) FROM parking_spots) AS total_spots")).
		WillReturnRows(sqlmock.NewRows([]string{"occupied", "total_spots"}).AddRow(2, 4))

	occupied, total, err := repo.OccupancyCounts(context.Background(), false)
	require.NoError(t, err)
	assert.Equal(t, 2, occupied)
	assert.Equal(t, 4, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOccupancyCountsApprovedOnly(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM parking_spots WHERE status = 'approved'")).
		WillReturnRows(sqlmock.NewRows([]string{"occupied", "total_spots"}).AddRow(1, 3))

	occupied, total, err := repo.OccupancyCounts(context.Background(), true)
	require.NoError(t, err)
	assert.Equal(t, 1, occupied)
	assert.Equal(t, 3, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTrailingDailyAverage(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("AVG(daily_sum)")).
		WithArgs(14).
		WillReturnRows(sqlmock.NewRows([]string{"avg"}).AddRow(100.0))

	avg, ok, err := repo.TrailingDailyAverage(context.Background(), 14)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 100.0, avg)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTrailingDailyAverageNoData(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("AVG(daily_sum)")).
		WithArgs(14).
		WillReturnRows(sqlmock.NewRows([]string{"avg"}).AddRow(nil))

	avg, ok, err := repo.TrailingDailyAverage(context.Background(), 14)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Zero(t, avg)
}

func TestApprovedSpotAvgPrice(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("AVG(price_hour) FROM parking_spots WHERE status = 'approved'")).
		WillReturnRows(sqlmock.NewRows([]string{"avg"}).AddRow(12.5))

	avg, ok, err := repo.ApprovedSpotAvgPrice(context.Background())
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 12.5, avg)
}

func TestTopSpotsByRevenue(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("ORDER BY total_revenue DESC")).
		WithArgs(5).
		WillReturnRows(sqlmock.NewRows([]string{"name", "total_revenue"}).
			AddRow("Central Lot", 900.0).
			AddRow("Airport North", 450.5))

	spots, err := repo.TopSpotsByRevenue(context.Background(), 5)
	require.NoError(t, err)
	require.Len(t, spots, 2)
	assert.Equal(t, "Central Lot", spots[0].Name)
	assert.Equal(t, 900.0, spots[0].TotalRevenue)
	assert.Equal(t, "Airport North", spots[1].Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTopSpotsByRevenueEmpty(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("ORDER BY total_revenue DESC")).
		WithArgs(5).
		WillReturnRows(sqlmock.NewRows([]string{"name", "total_revenue"}))

	spots, err := repo.TopSpotsByRevenue(context.Background(), 5)
	require.NoError(t, err)
	assert.NotNil(t, spots, "empty result should encode as [], not null")
	assert.Empty(t, spots)
}

func TestTopSpotsByCount(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("ORDER BY reservation_count DESC")).
		WithArgs(3).
		WillReturnRows(sqlmock.NewRows([]string{"name", "reservation_count"}).
			AddRow("Central Lot", 12).
			AddRow("Harbor View", 7))

	spots, err := repo.TopSpotsByCount(context.Background(), 3)
	require.NoError(t, err)
	require.Len(t, spots, 2)
	assert.Equal(t, 12, spots[0].ReservationCount)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPlatformTotals(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("AS total_reservations")).
		WillReturnRows(sqlmock.NewRows([]string{"total_spots", "total_reservations", "total_revenue"}).
			AddRow(4, 10, 500.0))

	spots, reservations, revenue, err := repo.PlatformTotals(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 4, spots)
	assert.Equal(t, 10, reservations)
	assert.Equal(t, 500.0, revenue)
}
