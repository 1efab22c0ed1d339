package service

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"parklystats/internal/config"
)

func TestDigestBuild(t *testing.T) {
	cfg := &config.Config{DigestEmailTo: "ops@parkly.example"}
	svc, mock := newStatsService(t, cfg)
	svc.now = func() time.Time { return time.Date(2024, time.June, 20, 7, 0, 0, 0, time.UTC) }
	digest := NewDigestService(svc, cfg)

	mock.ExpectQuery(regexp.QuoteMeta("AS total_reservations")).
		WillReturnRows(sqlmock.NewRows([]string{"total_spots", "total_reservations", "total_revenue"}).
			AddRow(4, 10, 500.0))
	mock.ExpectQuery(regexp.QuoteMeta("EXTRACT(ISODOW FROM date)")).
		WillReturnRows(sqlmock.NewRows([]string{"dow", "total"}).
			AddRow(1, 50.0).
			AddRow(2, 80.0))
	mock.ExpectQuery(regexp.QuoteMeta("AS total_spots")).
		WillReturnRows(sqlmock.NewRows([]string{"occupied", "total_spots"}).AddRow(2, 4))
	mock.ExpectQuery(regexp.QuoteMeta("AVG(daily_sum)")).
		WithArgs(14).
		WillReturnRows(sqlmock.NewRows([]string{"avg"}).AddRow(100.0))

	body, headline, err := digest.Build(context.Background())
	require.NoError(t, err)

	assert.Contains(t, body, "Occupancy: 50.00%")
	assert.Contains(t, body, "Projected earnings this month: 1000.00 (10 days remaining)")
	assert.Contains(t, body, "Completed revenue to date: 500.00")
	assert.Contains(t, body, "Reservations: 10 across 4 spots (avg booking 50.00)")
	assert.Contains(t, body, "Peak day: Tuesday")

	assert.Equal(t, "Parkly: occupancy 50.00%, projection 1000.00, peak day Tuesday", headline)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDigestSendersRequireCredentials(t *testing.T) {
	t.Setenv("SENDGRID_API_KEY", "")
	assert.Error(t, sendDigestEmail("ops@parkly.example", "body"))

	t.Setenv("TWILIO_ACCOUNT_SID", "")
	t.Setenv("TWILIO_AUTH_TOKEN", "")
	t.Setenv("TWILIO_FROM_NUMBER", "")
	assert.Error(t, sendDigestSMS("+15550100", "headline"))
}
