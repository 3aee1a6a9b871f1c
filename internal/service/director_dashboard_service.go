package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/academico-latam/academico-api/internal/dto"
	"github.com/academico-latam/academico-api/internal/repository"
)

const (
	dashboardCacheKey       = "dashboard:director"
	dashboardAttendanceSpan = 30 * 24 * time.Hour
)

// DirectorDashboardService aggregates institution-wide counters with a short
// cache in front, since the numbers move slowly and the query fans out.
type DirectorDashboardService interface {
	GetDashboard(ctx context.Context) (dto.DashboardResponse, error)
}

type directorDashboardService struct {
	stats      repository.StatsRepository
	attendance repository.AttendanceRepository
	cache      *redis.Client
	cacheTTL   time.Duration
	logger     zerolog.Logger
	now        func() time.Time
}

// NewDirectorDashboardService builds the dashboard aggregator. A nil cache
// client disables caching.
func NewDirectorDashboardService(stats repository.StatsRepository, attendance repository.AttendanceRepository, cache *redis.Client, ttl time.Duration, logger zerolog.Logger) DirectorDashboardService {
	return &directorDashboardService{
		stats:      stats,
		attendance: attendance,
		cache:      cache,
		cacheTTL:   ttl,
		logger:     logger.With().Str("component", "director_dashboard_service").Logger(),
		now:        time.Now,
	}
}

func (s *directorDashboardService) GetDashboard(ctx context.Context) (dto.DashboardResponse, error) {
	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, dashboardCacheKey).Result(); err == nil {
			var response dto.DashboardResponse
			if unmarshalErr := json.Unmarshal([]byte(cached), &response); unmarshalErr == nil {
				s.logger.Debug().Msg("dashboard cache hit")
				return response, nil
			}
		} else if err != redis.Nil {
			s.logger.Warn().Err(err).Msg("failed to read dashboard cache")
		}
	}

	students, err := s.stats.CountStudents(ctx)
	if err != nil {
		return dto.DashboardResponse{}, err
	}
	teachers, err := s.stats.CountTeachers(ctx)
	if err != nil {
		return dto.DashboardResponse{}, err
	}
	courses, err := s.stats.CountCourses(ctx)
	if err != nil {
		return dto.DashboardResponse{}, err
	}
	years, err := s.stats.ListActiveYears(ctx)
	if err != nil {
		return dto.DashboardResponse{}, err
	}
	total, present, err := s.attendance.CountSince(ctx, s.now().Add(-dashboardAttendanceSpan))
	if err != nil {
		return dto.DashboardResponse{}, err
	}

	response := dto.DashboardResponse{
		Students:    students,
		Teachers:    teachers,
		Courses:     courses,
		ActiveYears: make([]dto.DashboardYear, 0, len(years)),
		GeneratedAt: s.now().UTC(),
	}
	if total > 0 {
		response.AttendanceRate = float64(present) / float64(total)
	}
	for _, year := range years {
		response.ActiveYears = append(response.ActiveYears, dto.NewDashboardYear(year))
	}

	if s.cache != nil {
		if payload, err := json.Marshal(response); err == nil {
			if err := s.cache.Set(ctx, dashboardCacheKey, payload, s.cacheTTL).Err(); err != nil {
				s.logger.Warn().Err(err).Msg("failed to store dashboard cache")
			}
		}
	}

	return response, nil
}
