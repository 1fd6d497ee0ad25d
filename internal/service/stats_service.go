package service

import (
	"context"
	"time"

	"github.com/haiminhwork/task_management_sample/internal/domain"
)

type StatsService interface {
	Overview(ctx context.Context) (*domain.TaskOverview, error)
	Analytics(ctx context.Context) (*domain.Analytics, error)
	Team(ctx context.Context) ([]domain.MemberStats, error)
	System(ctx context.Context) (*domain.SystemStats, error)
	UserDashboard(ctx context.Context, userID int64) (*domain.UserDashboard, error)
}

type statsService struct {
	stats      domain.StatsRepository
	users      domain.UserRepository
	activities domain.ActivityRepository
	now        func() time.Time
}

func NewStatsService(stats domain.StatsRepository, users domain.UserRepository, activities domain.ActivityRepository) StatsService {
	return &statsService{
		stats:      stats,
		users:      users,
		activities: activities,
		now:        time.Now,
	}
}

func (s *statsService) Overview(ctx context.Context) (*domain.TaskOverview, error) {
	byStatus, err := s.stats.StatusCounts(ctx)
	if err != nil {
		return nil, err
	}
	byPriority, err := s.stats.PriorityCounts(ctx)
	if err != nil {
		return nil, err
	}
	overdue, err := s.stats.OverdueCount(ctx, s.now())
	if err != nil {
		return nil, err
	}

	var total int64
	for _, n := range byStatus {
		total += n
	}
	return &domain.TaskOverview{
		Total:          total,
		ByStatus:       byStatus,
		ByPriority:     byPriority,
		Overdue:        overdue,
		CompletionRate: domain.CompletionRate(byStatus[domain.StatusDone], total),
	}, nil
}

func (s *statsService) Analytics(ctx context.Context) (*domain.Analytics, error) {
	now := s.now()
	weekAgo := now.AddDate(0, 0, -7)
	twoWeeksAgo := now.AddDate(0, 0, -14)

	trend := func(count func(from, to time.Time) (int64, error)) (domain.WeeklyTrend, error) {
		thisWeek, err := count(weekAgo, now)
		if err != nil {
			return domain.WeeklyTrend{}, err
		}
		lastWeek, err := count(twoWeeksAgo, weekAgo)
		if err != nil {
			return domain.WeeklyTrend{}, err
		}
		return domain.WeeklyTrend{
			ThisWeek:      thisWeek,
			LastWeek:      lastWeek,
			ChangePercent: domain.TrendChange(thisWeek, lastWeek),
		}, nil
	}

	created, err := trend(func(from, to time.Time) (int64, error) {
		return s.activities.CountByActionBetween(ctx, domain.ActionCreated, from, to)
	})
	if err != nil {
		return nil, err
	}
	completed, err := trend(func(from, to time.Time) (int64, error) {
		return s.activities.CountStatusChangedTo(ctx, domain.StatusDone, from, to)
	})
	if err != nil {
		return nil, err
	}
	deleted, err := trend(func(from, to time.Time) (int64, error) {
		return s.activities.CountByActionBetween(ctx, domain.ActionDeleted, from, to)
	})
	if err != nil {
		return nil, err
	}

	return &domain.Analytics{
		Created:   created,
		Completed: completed,
		Deleted:   deleted,
	}, nil
}

func (s *statsService) Team(ctx context.Context) ([]domain.MemberStats, error) {
	counts, err := s.stats.CountsByAssignee(ctx, s.now())
	if err != nil {
		return nil, err
	}

	team := make([]domain.MemberStats, 0, len(counts))
	for _, c := range counts {
		member := domain.MemberStats{
			UserID:         c.UserID,
			Total:          c.Total,
			Done:           c.Done,
			Overdue:        c.Overdue,
			CompletionRate: domain.CompletionRate(c.Done, c.Total),
		}
		if user, err := s.users.GetByID(ctx, c.UserID); err == nil {
			member.Name = user.FullName()
			member.Email = user.Email
		}
		team = append(team, member)
	}
	return team, nil
}

func (s *statsService) System(ctx context.Context) (*domain.SystemStats, error) {
	coverage, err := s.stats.FieldCoverage(ctx)
	if err != nil {
		return nil, err
	}
	activity, err := s.activities.CountSince(ctx, s.now().Add(-24*time.Hour))
	if err != nil {
		return nil, err
	}
	users, err := s.users.Count(ctx)
	if err != nil {
		return nil, err
	}
	return &domain.SystemStats{
		Coverage:    coverage,
		HealthScore: domain.HealthScore(coverage),
		Activity24h: activity,
		Users:       users,
	}, nil
}

func (s *statsService) UserDashboard(ctx context.Context, userID int64) (*domain.UserDashboard, error) {
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return nil, err
	}
	counts, err := s.stats.AssigneeCounts(ctx, userID, s.now())
	if err != nil {
		return nil, err
	}
	byStatus, err := s.stats.AssigneeStatusCounts(ctx, userID)
	if err != nil {
		return nil, err
	}
	recent, _, err := s.activities.List(ctx, domain.ActivityFilter{
		UserID: &userID,
		Page:   1,
		Limit:  10,
	})
	if err != nil {
		return nil, err
	}
	return &domain.UserDashboard{
		UserID:         userID,
		Assigned:       counts.Total,
		ByStatus:       byStatus,
		Overdue:        counts.Overdue,
		CompletionRate: domain.CompletionRate(counts.Done, counts.Total),
		RecentActivity: recent,
	}, nil
}
