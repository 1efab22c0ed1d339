package service

import (
	"context"
	"math"
	"time"

	"parklystats/internal/config"
	"parklystats/internal/entities"
	"parklystats/internal/repository"
)

// weekdayNames maps ISO day-of-week numbers (Monday=1) to the English names
// the API exposes. This table is the ordering contract: grouped rows arrive
// sorted by ISO number, so the series always reads Monday through Sunday.
var weekdayNames = [8]string{"", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

const (
	trailingWindowDays   = 14
	assumedUsageHours    = 8
	assumedMonthDays     = 30
	topSpotsRevenueLimit = 5
	topSpotsCountLimit   = 3
)

type StatsService struct {
	Repo *repository.StatsRepository
	cfg  *config.Config
	now  func() time.Time
}

func NewStatsService(repo *repository.StatsRepository, cfg *config.Config) *StatsService {
	return &StatsService{Repo: repo, cfg: cfg, now: time.Now}
}

// RevenueByDay returns completed revenue per weekday, Monday through Sunday.
// Weekdays without completed revenue are absent, never zero-filled.
func (s *StatsService) RevenueByDay(ctx context.Context) ([]entities.DayRevenue, error) {
	totals, err := s.Repo.WeekdayRevenue(ctx)
	if err != nil {
		return nil, err
	}

	days := make([]entities.DayRevenue, 0, len(totals))
	for _, wt := range totals {
		if wt.ISODay < 1 || wt.ISODay > 7 {
			continue
		}
		days = append(days, entities.DayRevenue{Day: weekdayNames[wt.ISODay], Total: round2(wt.Total)})
	}
	return days, nil
}

// OccupancyRate computes occupied/total * 100 rounded to 2 decimals.
// A store with no spots yields 0, not a division fault.
func (s *StatsService) OccupancyRate(ctx context.Context) (float64, error) {
	occupied, total, err := s.Repo.OccupancyCounts(ctx, s.cfg.OccupancyApprovedOnly)
	if err != nil {
		return 0, err
	}
	if total == 0 {
		return 0, nil
	}

	rate := float64(occupied) / float64(total) * 100
	if s.cfg.OccupancyClamp && rate > 100 {
		rate = 100
	}
	return round2(rate), nil
}

// MonthlyProjection multiplies the trailing 14-day average of daily completed
// revenue by the days left after today. When the window holds no completed
// reservations it falls back to a price-based estimate over approved spots,
// and to 0 when the store is empty.
func (s *StatsService) MonthlyProjection(ctx context.Context) (*entities.MonthlyProjectionResponse, error) {
	today := s.now()
	daysLeft := daysInMonth(today) - today.Day()

	avg, ok, err := s.Repo.TrailingDailyAverage(ctx, trailingWindowDays)
	if err != nil {
		return nil, err
	}
	if ok {
		return &entities.MonthlyProjectionResponse{
			ProjectedEarnings: round2(avg * float64(daysLeft)),
			DaysRemaining:     daysLeft,
		}, nil
	}

	price, ok, err := s.Repo.ApprovedSpotAvgPrice(ctx)
	if err != nil {
		return nil, err
	}
	var projected float64
	if ok {
		projected = round2(price * assumedUsageHours * assumedMonthDays)
	}
	return &entities.MonthlyProjectionResponse{
		ProjectedEarnings: projected,
		DaysRemaining:     daysLeft,
	}, nil
}

// TopSpots returns the configured ranking: summed completed revenue (top 5)
// by default, reservation count across all statuses (top 3) when
// TopSpotsByCount is set.
func (s *StatsService) TopSpots(ctx context.Context) (interface{}, error) {
	if s.cfg.TopSpotsByCount {
		return s.Repo.TopSpotsByCount(ctx, topSpotsCountLimit)
	}
	return s.Repo.TopSpotsByRevenue(ctx, topSpotsRevenueLimit)
}

// Summary consolidates the dashboard counters: totals, mean booking value and
// the weekday with the highest completed revenue.
func (s *StatsService) Summary(ctx context.Context) (*entities.SummaryResponse, error) {
	spots, reservations, revenue, err := s.Repo.PlatformTotals(ctx)
	if err != nil {
		return nil, err
	}

	days, err := s.RevenueByDay(ctx)
	if err != nil {
		return nil, err
	}
	peakDay := "N/A"
	var peakTotal float64
	if len(days) > 0 {
		peakDay, peakTotal = days[0].Day, days[0].Total
		for _, d := range days[1:] {
			if d.Total > peakTotal {
				peakDay, peakTotal = d.Day, d.Total
			}
		}
	}

	var avgBooking float64
	if reservations > 0 {
		avgBooking = round2(revenue / float64(reservations))
	}

	return &entities.SummaryResponse{
		TotalSpots:        spots,
		TotalReservations: reservations,
		TotalRevenue:      round2(revenue),
		AvgBooking:        avgBooking,
		PeakDay:           peakDay,
	}, nil
}

func daysInMonth(t time.Time) int {
	return time.Date(t.Year(), t.Month()+1, 0, 0, 0, 0, 0, t.Location()).Day()
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
