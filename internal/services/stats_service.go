package services

import (
	"context"

	"github.com/civicdesk/backend/internal/models"
	"gorm.io/gorm"
)

// StatsService aggregates global complaint counts for the dashboard and the
// report's overview page. Counts are system-wide on purpose, not scoped to a
// user.
type StatsService struct {
	db *gorm.DB
}

func NewStatsService(db *gorm.DB) *StatsService {
	return &StatsService{db: db}
}

type StatusCounts struct {
	Pending    int64 `json:"pending"`
	InProgress int64 `json:"inProgress"`
	Resolved   int64 `json:"resolved"`
}

type CategoryCount struct {
	Category models.ComplaintCategory `json:"category"`
	Total    int64                    `json:"total"`
}

// StatusCounts returns the global number of complaints in each state.
func (s *StatsService) StatusCounts(ctx context.Context) (StatusCounts, error) {
	var rows []struct {
		Status models.ComplaintStatus
		Total  int64
	}
	err := s.db.WithContext(ctx).
		Model(&models.Complaint{}).
		Select("status, COUNT(*) AS total").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return StatusCounts{}, err
	}

	var counts StatusCounts
	for _, row := range rows {
		switch row.Status {
		case models.StatusPending:
			counts.Pending = row.Total
		case models.StatusInProgress:
			counts.InProgress = row.Total
		case models.StatusResolved:
			counts.Resolved = row.Total
		}
	}
	return counts, nil
}

// CategoryCounts returns complaint totals per category.
func (s *StatsService) CategoryCounts(ctx context.Context) ([]CategoryCount, error) {
	var rows []CategoryCount
	err := s.db.WithContext(ctx).
		Model(&models.Complaint{}).
		Select("category, COUNT(*) AS total").
		Group("category").
		Order("category").
		Scan(&rows).Error
	return rows, err
}
