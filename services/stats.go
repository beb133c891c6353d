package services

import (
	"errors"
	"math"
	"sort"
	"time"

	"gorm.io/gorm"

	"region-feedback-server/models"
	"region-feedback-server/types"
)

var (
	// ErrInvalidDate is returned when an explicit start/end date cannot be parsed
	ErrInvalidDate = errors.New("invalid date format")
	// ErrInvalidDateRange is returned when the start date falls after the end date
	ErrInvalidDateRange = errors.New("start date must not be after end date")
)

// Stats periods supported by the aggregation endpoint
const (
	PeriodDay   = "day"
	PeriodWeek  = "week"
	PeriodMonth = "month"
	PeriodYear  = "year"
)

// IsValidPeriod reports whether the given period name is supported
func IsValidPeriod(period string) bool {
	switch period {
	case PeriodDay, PeriodWeek, PeriodMonth, PeriodYear:
		return true
	}
	return false
}

// StatsQuery carries the raw aggregation parameters from the request
type StatsQuery struct {
	Period    string
	Region    *uint
	StartDate string
	EndDate   string
}

// DistributionEntry is the per-region rating histogram
type DistributionEntry struct {
	RegionID   uint           `json:"region_id"`
	RegionName string         `json:"region_name"`
	Counts     map[string]int `json:"counts"`
	Total      int            `json:"total"`
}

// TrendPoint is one daily bucket of a region's rating trend
type TrendPoint struct {
	Date    string  `json:"date"`
	Average float64 `json:"average"`
	Count   int     `json:"count"`
}

// TrendEntry is the per-region daily average series, ascending by date
type TrendEntry struct {
	RegionID   uint         `json:"region_id"`
	RegionName string       `json:"region_name"`
	Points     []TrendPoint `json:"points"`
}

// StatsResult is the full aggregation payload
type StatsResult struct {
	Period       string              `json:"period"`
	StartDate    time.Time           `json:"start_date"`
	EndDate      time.Time           `json:"end_date"`
	Distribution []DistributionEntry `json:"distribution"`
	Trend        []TrendEntry        `json:"trend"`
}

// StatsService aggregates rating statistics per region
type StatsService struct {
	db *gorm.DB
}

// NewStatsService creates a stats service bound to a database handle
func NewStatsService(db *gorm.DB) *StatsService {
	return &StatsService{db: db}
}

// GetStats computes the rating distribution and daily trend for every region
// visible to the caller within the resolved date range. Every in-scope region
// appears in the result even when it received no ratings. An out-of-scope
// caller gets an empty result, not an error.
func (s *StatsService) GetStats(query StatsQuery, user *types.RequestUser) (*StatsResult, error) {
	period := query.Period
	if period == "" {
		period = PeriodWeek
	}

	start, end, err := resolveDateRange(period, query.StartDate, query.EndDate)
	if err != nil {
		return nil, err
	}

	result := &StatsResult{
		Period:       period,
		StartDate:    start,
		EndDate:      end,
		Distribution: []DistributionEntry{},
		Trend:        []TrendEntry{},
	}

	filter := ResolveRegionFilter(user, query.Region)
	if filter.IsEmpty() {
		return result, nil
	}

	var regions []models.Region
	if err := filter.Apply(s.db.Model(&models.Region{}), "id").
		Order("id ASC").Find(&regions).Error; err != nil {
		return nil, err
	}
	if len(regions) == 0 {
		return result, nil
	}

	var ratings []models.Rating
	if err := filter.Apply(s.db.Model(&models.Rating{}), "region_id").
		Find(&ratings).Error; err != nil {
		return nil, err
	}

	type bucket struct {
		sum   int
		count int
	}
	counts := make(map[uint][6]int)
	trends := make(map[uint]map[string]*bucket)

	for i := range ratings {
		r := &ratings[i]
		t := r.EffectiveTime()
		if t.Before(start) || t.After(end) {
			continue
		}
		if r.Rating < 1 || r.Rating > 5 {
			continue
		}

		c := counts[r.RegionID]
		c[r.Rating]++
		counts[r.RegionID] = c

		day := t.Format("2006-01-02")
		if trends[r.RegionID] == nil {
			trends[r.RegionID] = make(map[string]*bucket)
		}
		b := trends[r.RegionID][day]
		if b == nil {
			b = &bucket{}
			trends[r.RegionID][day] = b
		}
		b.sum += r.Rating
		b.count++
	}

	for _, region := range regions {
		c := counts[region.ID]
		total := 0
		dist := make(map[string]int, 5)
		for star := 1; star <= 5; star++ {
			dist[starKeys[star]] = c[star]
			total += c[star]
		}
		result.Distribution = append(result.Distribution, DistributionEntry{
			RegionID:   region.ID,
			RegionName: region.Name,
			Counts:     dist,
			Total:      total,
		})

		points := []TrendPoint{}
		for day, b := range trends[region.ID] {
			avg := math.Round(float64(b.sum)/float64(b.count)*100) / 100
			points = append(points, TrendPoint{Date: day, Average: avg, Count: b.count})
		}
		sort.Slice(points, func(i, j int) bool { return points[i].Date < points[j].Date })
		result.Trend = append(result.Trend, TrendEntry{
			RegionID:   region.ID,
			RegionName: region.Name,
			Points:     points,
		})
	}

	return result, nil
}

var starKeys = [6]string{"", "1", "2", "3", "4", "5"}

// resolveDateRange computes the effective [start, end] window. Explicit dates
// override the period; the end is pushed to the last instant of its day and
// the start to the first.
func resolveDateRange(period, startDate, endDate string) (time.Time, time.Time, error) {
	end := time.Now()
	if endDate != "" {
		parsed, err := parseDate(endDate)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		end = parsed
	}
	end = endOfDay(end)

	var start time.Time
	if startDate != "" {
		parsed, err := parseDate(startDate)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		start = startOfDay(parsed)
	} else {
		switch period {
		case PeriodDay:
			start = startOfDay(end)
		case PeriodMonth:
			start = time.Date(end.Year(), end.Month(), 1, 0, 0, 0, 0, end.Location())
		case PeriodYear:
			start = time.Date(end.Year(), time.January, 1, 0, 0, 0, 0, end.Location())
		default:
			start = startOfDay(end.AddDate(0, 0, -6))
		}
	}

	if start.After(end) {
		return time.Time{}, time.Time{}, ErrInvalidDateRange
	}
	return start, end, nil
}

func parseDate(value string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	if t, err := time.ParseInLocation("2006-01-02", value, time.Local); err == nil {
		return t, nil
	}
	return time.Time{}, ErrInvalidDate
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func endOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, int(999*time.Millisecond), t.Location())
}
