package services

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/zaryah/zaryah-backend/internal/data/repos"
	types "github.com/zaryah/zaryah-backend/internal/domain"
	"github.com/zaryah/zaryah-backend/internal/platform/dbctx"
	"github.com/zaryah/zaryah-backend/internal/platform/logger"
)

const (
	userStatsCacheKey = "user-stats:v1"
	topSubjectsLimit  = 10
)

// StatsCache is the subset of the Redis cache the stats service needs.
type StatsCache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, val any, ttl time.Duration) error
}

type Demographics struct {
	AvgAge         float64        `json:"avgAge"`
	MinAge         int            `json:"minAge"`
	MaxAge         int            `json:"maxAge"`
	EducationLevel map[string]int `json:"educationLevel"`
}

type LearningStats struct {
	LearningStyles  map[string]int `json:"learningStyles"`
	LearningPace    map[string]int `json:"learningPace"`
	MotivationLevel map[string]int `json:"motivationLevel"`
	AvgHoursPerWeek float64        `json:"avgHoursPerWeek"`
	MaxHoursPerWeek int            `json:"maxHoursPerWeek"`
	MinHoursPerWeek int            `json:"minHoursPerWeek"`
}

type SubjectCount struct {
	Subject string `json:"subject"`
	Count   int    `json:"count"`
}

type SubjectStats struct {
	// TopSubjects is ordered by count, most popular first.
	TopSubjects         []SubjectCount `json:"topSubjects"`
	TotalUniqueSubjects int            `json:"totalUniqueSubjects"`
}

type UserStats struct {
	TotalUsers   int            `json:"totalUsers"`
	Message      string         `json:"message,omitempty"`
	Demographics *Demographics  `json:"demographics,omitempty"`
	Learning     *LearningStats `json:"learning,omitempty"`
	Subjects     *SubjectStats  `json:"subjects,omitempty"`
	GeneratedAt  *time.Time     `json:"generatedAt,omitempty"`
}

type UserStatsService interface {
	Stats(ctx context.Context) (*UserStats, error)
}

type userStatsService struct {
	log      *logger.Logger
	userRepo repos.UserRepo
	cache    StatsCache
	ttl      time.Duration
	now      func() time.Time
}

// NewUserStatsService aggregates profile statistics. cache may be nil; ttl <= 0 disables caching.
func NewUserStatsService(log *logger.Logger, userRepo repos.UserRepo, cache StatsCache, ttl time.Duration) UserStatsService {
	return &userStatsService{
		log:      log.With("service", "UserStatsService"),
		userRepo: userRepo,
		cache:    cache,
		ttl:      ttl,
		now:      time.Now,
	}
}

func (s *userStatsService) Stats(ctx context.Context) (*UserStats, error) {
	useCache := s.cache != nil && s.ttl > 0
	if useCache {
		var cached UserStats
		ok, err := s.cache.Get(ctx, userStatsCacheKey, &cached)
		if err != nil {
			s.log.Warn("Stats cache read failed", "error", err)
		} else if ok {
			return &cached, nil
		}
	}

	users, err := s.userRepo.FindAll(dbctx.Context{Ctx: ctx})
	if err != nil {
		return nil, fmt.Errorf("load users: %w", err)
	}
	profiles := make([]*types.Profile, 0, len(users))
	for _, u := range users {
		if u != nil && u.Profile != nil {
			profiles = append(profiles, u.Profile)
		}
	}
	if len(profiles) == 0 {
		return &UserStats{TotalUsers: 0, Message: "No users found"}, nil
	}

	stats := ComputeUserStats(ctx, profiles, s.now())
	if useCache {
		if err := s.cache.Set(ctx, userStatsCacheKey, stats, s.ttl); err != nil {
			s.log.Warn("Stats cache write failed", "error", err)
		}
	}
	return stats, nil
}

// ComputeUserStats aggregates non-empty profiles. The three sections are independent and are
// computed concurrently.
func ComputeUserStats(ctx context.Context, profiles []*types.Profile, now time.Time) *UserStats {
	var (
		demo     Demographics
		learning LearningStats
		subjects SubjectStats
	)
	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error {
		demo = demographicsOf(profiles)
		return nil
	})
	g.Go(func() error {
		learning = learningOf(profiles)
		return nil
	})
	g.Go(func() error {
		subjects = subjectsOf(profiles)
		return nil
	})
	_ = g.Wait()

	generatedAt := now.UTC()
	return &UserStats{
		TotalUsers:   len(profiles),
		Demographics: &demo,
		Learning:     &learning,
		Subjects:     &subjects,
		GeneratedAt:  &generatedAt,
	}
}

func demographicsOf(profiles []*types.Profile) Demographics {
	d := Demographics{
		MinAge:         profiles[0].Age,
		MaxAge:         profiles[0].Age,
		EducationLevel: map[string]int{},
	}
	sum := 0
	for _, p := range profiles {
		sum += p.Age
		d.MinAge = min(d.MinAge, p.Age)
		d.MaxAge = max(d.MaxAge, p.Age)
		d.EducationLevel[p.EducationLevel]++
	}
	d.AvgAge = round1(float64(sum) / float64(len(profiles)))
	return d
}

func learningOf(profiles []*types.Profile) LearningStats {
	l := LearningStats{
		LearningStyles:  map[string]int{},
		LearningPace:    map[string]int{},
		MotivationLevel: map[string]int{},
		MinHoursPerWeek: profiles[0].AvailableHoursPerWeek,
		MaxHoursPerWeek: profiles[0].AvailableHoursPerWeek,
	}
	sum := 0
	for _, p := range profiles {
		l.LearningStyles[p.LearningStyle]++
		l.LearningPace[p.LearningPace]++
		l.MotivationLevel[p.MotivationLevel]++
		sum += p.AvailableHoursPerWeek
		l.MinHoursPerWeek = min(l.MinHoursPerWeek, p.AvailableHoursPerWeek)
		l.MaxHoursPerWeek = max(l.MaxHoursPerWeek, p.AvailableHoursPerWeek)
	}
	l.AvgHoursPerWeek = round1(float64(sum) / float64(len(profiles)))
	return l
}

func subjectsOf(profiles []*types.Profile) SubjectStats {
	counts := map[string]int{}
	var order []string
	for _, p := range profiles {
		for _, s := range p.SubjectList() {
			if _, seen := counts[s]; !seen {
				order = append(order, s)
			}
			counts[s]++
		}
	}
	top := make([]SubjectCount, 0, len(order))
	for _, s := range order {
		top = append(top, SubjectCount{Subject: s, Count: counts[s]})
	}
	// Ties keep first-seen order.
	sort.SliceStable(top, func(i, j int) bool { return top[i].Count > top[j].Count })
	if len(top) > topSubjectsLimit {
		top = top[:topSubjectsLimit]
	}
	return SubjectStats{TopSubjects: top, TotalUniqueSubjects: len(counts)}
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
