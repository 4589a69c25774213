// Package charts provides the decorative chart data shown next to a prediction.
//
// Nothing here feeds back into the prediction path. The trend is random noise
// around the displayed monthly figure and the role table is static.
package charts

import (
	"math/rand"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/aristath/salary-predictor/internal/modules/catalog"
)

// TrendMonths is the number of points in a salary projection.
const TrendMonths = 6

// TrendJitter bounds the per-month offset: each point is monthly + r with r in [-TrendJitter, TrendJitter).
const TrendJitter = 2000

// ChartDataPoint represents a single point on the projection chart
type ChartDataPoint struct {
	Month int `json:"month"` // 1-based
	Value int `json:"value"`
}

// Decorator produces illustrative chart data for a finished prediction.
type Decorator interface {
	SalaryTrend(monthly int) []ChartDataPoint
	RoleSalaries() []catalog.RoleSalary
}

// Service provides chart data operations
type Service struct {
	mu    sync.Mutex
	rng   *rand.Rand
	roles []catalog.RoleSalary
	log   zerolog.Logger
}

// NewService creates a new charts service.
// A nil source seeds from the clock.
func NewService(roles []catalog.RoleSalary, source rand.Source, log zerolog.Logger) *Service {
	if source == nil {
		source = rand.NewSource(time.Now().UnixNano())
	}

	copied := make([]catalog.RoleSalary, len(roles))
	copy(copied, roles)

	return &Service{
		rng:   rand.New(source),
		roles: copied,
		log:   log.With().Str("service", "charts").Logger(),
	}
}

// SalaryTrend returns a six month projection jittered around monthly.
func (s *Service) SalaryTrend(monthly int) []ChartDataPoint {
	points := make([]ChartDataPoint, TrendMonths)

	// rand.Rand is not safe for concurrent use.
	s.mu.Lock()
	for i := range points {
		points[i] = ChartDataPoint{
			Month: i + 1,
			Value: monthly + s.rng.Intn(2*TrendJitter) - TrendJitter,
		}
	}
	s.mu.Unlock()

	s.log.Debug().Int("monthly", monthly).Msg("Generated salary trend")
	return points
}

// RoleSalaries returns the static average monthly salary per role.
func (s *Service) RoleSalaries() []catalog.RoleSalary {
	out := make([]catalog.RoleSalary, len(s.roles))
	copy(out, s.roles)
	return out
}
