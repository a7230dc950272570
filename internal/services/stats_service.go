package services

import (
	"time"

	"libris/internal/domain"
	"libris/internal/repos"
)

type StatsService struct {
	Stats *repos.StatsRepo
}

func NewStatsService(stats *repos.StatsRepo) *StatsService {
	return &StatsService{Stats: stats}
}

func (s *StatsService) Summary(now time.Time) (domain.Stats, error) {
	return s.Stats.Summary(now)
}
