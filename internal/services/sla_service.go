package services

import (
	"context"
	"time"

	"github.com/civicdesk/backend/internal/models"
	"gorm.io/gorm"
)

// SLAService flags complaints that blew their resolution deadline. The sweep
// runs synchronously before a citizen lists their complaints rather than on a
// timer, so the listing always reflects the deadline state at read time.
type SLAService struct {
	db *gorm.DB
}

func NewSLAService(db *gorm.DB) *SLAService {
	return &SLAService{db: db}
}

// MarkOverdue sets is_overdue on every Pending or In Progress complaint whose
// deadline is strictly in the past. Idempotent: rows already flagged are
// matched again and re-set to the same value. The flag is sticky; resolving a
// complaint does not clear it.
func (s *SLAService) MarkOverdue(ctx context.Context) (int64, error) {
	res := s.db.WithContext(ctx).
		Model(&models.Complaint{}).
		Where("status IN ? AND sla_deadline < ?",
			[]models.ComplaintStatus{models.StatusPending, models.StatusInProgress},
			time.Now()).
		Update("is_overdue", true)
	return res.RowsAffected, res.Error
}
