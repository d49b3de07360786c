package services

import (
	"context"
	"errors"
	"strings"

	"github.com/civicdesk/backend/internal/logger"
	"github.com/civicdesk/backend/internal/models"
	"gorm.io/gorm"
)

// UpdateService appends administrative status updates and keeps the parent
// complaint in sync with the latest one. Updates are append-only; there is no
// edit or delete operation.
type UpdateService struct {
	db *gorm.DB
}

func NewUpdateService(db *gorm.DB) *UpdateService {
	return &UpdateService{db: db}
}

type UpdateInput struct {
	Status models.ComplaintStatus
	Remark string
	Media  *string
}

// Append inserts a new update for the complaint, then copies the latest
// update's status and remark onto the complaint itself. Only status,
// admin_comment, resolved_at and after_image can change through this path;
// the complaint's identity fields are untouchable here.
func (s *UpdateService) Append(ctx context.Context, complaintID uint, in UpdateInput) (*models.ComplaintUpdate, error) {
	if !models.ValidStatus(in.Status) {
		return nil, &ValidationError{Field: "status", Message: "unknown status"}
	}
	if strings.TrimSpace(in.Remark) == "" {
		return nil, &ValidationError{Field: "remark", Message: "remark is required"}
	}

	var complaint models.Complaint
	if err := s.db.WithContext(ctx).First(&complaint, complaintID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrComplaintNotFound
		}
		return nil, err
	}

	update := &models.ComplaintUpdate{
		ComplaintID: complaint.ID,
		Remark:      in.Remark,
		Status:      in.Status,
		Media:       in.Media,
	}
	if err := s.db.WithContext(ctx).Create(update).Error; err != nil {
		return nil, err
	}

	if err := s.syncLatest(ctx, &complaint); err != nil {
		return nil, err
	}

	logger.WithComplaint(complaint.ID, string(complaint.Category)).WithFields(map[string]interface{}{
		"update_id": update.ID,
		"status":    update.Status,
	}).Info("Status update appended")

	return update, nil
}

// syncLatest re-reads the complaint's most recent update and mirrors its
// status and remark onto the complaint. The id column breaks ties between
// same-instant updates so "latest" is deterministic. The first transition to
// Resolved stamps ResolvedAt; it is never overwritten afterwards.
func (s *UpdateService) syncLatest(ctx context.Context, complaint *models.Complaint) error {
	var latest models.ComplaintUpdate
	err := s.db.WithContext(ctx).
		Where("complaint_id = ?", complaint.ID).
		Order("created_at DESC, id DESC").
		First(&latest).Error
	if err != nil {
		return err
	}

	changes := map[string]interface{}{
		"status":        latest.Status,
		"admin_comment": latest.Remark,
	}
	if latest.Status == models.StatusResolved && complaint.ResolvedAt == nil {
		changes["resolved_at"] = latest.CreatedAt
	}
	if latest.Media != nil {
		changes["after_image"] = *latest.Media
	}

	return s.db.WithContext(ctx).
		Model(&models.Complaint{}).
		Where("id = ?", complaint.ID).
		Updates(changes).Error
}

// History returns every update for a complaint, newest first.
func (s *UpdateService) History(ctx context.Context, complaintID uint) ([]models.ComplaintUpdate, error) {
	var updates []models.ComplaintUpdate
	err := s.db.WithContext(ctx).
		Where("complaint_id = ?", complaintID).
		Order("created_at DESC, id DESC").
		Find(&updates).Error
	return updates, err
}
