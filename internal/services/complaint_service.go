package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/civicdesk/backend/internal/logger"
	"github.com/civicdesk/backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	// DuplicateWarning is the advisory comment stamped on a complaint that
	// looks like a resubmission. It never blocks the filing.
	DuplicateWarning = "⚠ Possible duplicate complaint detected."

	duplicatePrefixLen = 20
	slaWindow          = 7 * 24 * time.Hour
)

// ComplaintService owns the intake workflow and complaint queries. Complaints
// are only ever created here; administrators act on them through
// UpdateService and never create or delete them.
type ComplaintService struct {
	db *gorm.DB
}

func NewComplaintService(db *gorm.DB) *ComplaintService {
	return &ComplaintService{db: db}
}

// ComplaintInput is a candidate complaint as submitted by a citizen.
// Priority, status, SLA deadline and the duplicate flag are all derived here
// and never accepted from the caller.
type ComplaintInput struct {
	Category      models.ComplaintCategory
	OtherCategory string
	Location      string
	Description   string
	BeforeImage   *string
}

// ComplaintFilter narrows the admin listing. Zero values mean "any".
type ComplaintFilter struct {
	Status   models.ComplaintStatus
	Priority models.ComplaintPriority
	Category models.ComplaintCategory
}

// Create validates the submission, derives priority and the SLA deadline,
// flags likely duplicates and persists exactly one complaint. On validation
// failure nothing is written and the offending field is reported back.
func (s *ComplaintService) Create(ctx context.Context, userID uint, in ComplaintInput) (*models.Complaint, error) {
	if !models.ValidCategory(in.Category) {
		return nil, &ValidationError{Field: "category", Message: "unknown category"}
	}
	if strings.TrimSpace(in.Description) == "" {
		return nil, &ValidationError{Field: "description", Message: "description is required"}
	}
	if in.Category == models.CategoryOther && strings.TrimSpace(in.OtherCategory) == "" {
		return nil, &ValidationError{Field: "other_category", Message: "please specify the category"}
	}

	complaint := &models.Complaint{
		Reference:     uuid.NewString(),
		UserID:        userID,
		Category:      in.Category,
		OtherCategory: in.OtherCategory,
		Location:      in.Location,
		Description:   in.Description,
		Priority:      DerivePriority(in.Description),
		Status:        models.StatusPending,
		SLADeadline:   time.Now().Add(slaWindow),
		IsOverdue:     false,
		BeforeImage:   in.BeforeImage,
	}

	dup, err := s.hasDuplicate(ctx, complaint)
	if err != nil {
		return nil, err
	}
	if dup {
		msg := DuplicateWarning
		complaint.AdminComment = &msg
	}

	if err := s.db.WithContext(ctx).Create(complaint).Error; err != nil {
		return nil, err
	}

	logger.WithComplaint(complaint.ID, string(complaint.Category)).WithFields(map[string]interface{}{
		"priority":  complaint.Priority,
		"duplicate": dup,
	}).Info("Complaint filed")

	return complaint, nil
}

// hasDuplicate checks for an existing complaint with the same category, the
// same location and a stored description containing the first 20 characters
// of the new one. Advisory only.
func (s *ComplaintService) hasDuplicate(ctx context.Context, c *models.Complaint) (bool, error) {
	prefix := descriptionPrefix(c.Description)
	if prefix == "" {
		return false, nil
	}

	var count int64
	err := s.db.WithContext(ctx).
		Model(&models.Complaint{}).
		Where("category = ? AND location = ?", c.Category, c.Location).
		Where(`description LIKE ? ESCAPE '\'`, "%"+escapeLike(prefix)+"%").
		Count(&count).Error
	return count > 0, err
}

// descriptionPrefix returns the first duplicatePrefixLen characters of the
// description, counted in runes so multibyte text is not cut mid-character.
func descriptionPrefix(description string) string {
	runes := []rune(description)
	if len(runes) > duplicatePrefixLen {
		runes = runes[:duplicatePrefixLen]
	}
	return string(runes)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

// ListByUser returns the caller's complaints, newest first.
func (s *ComplaintService) ListByUser(ctx context.Context, userID uint) ([]models.Complaint, error) {
	var complaints []models.Complaint
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&complaints).Error
	return complaints, err
}

// GetOwned fetches a complaint only if it belongs to userID. A complaint
// owned by somebody else comes back as ErrComplaintNotFound.
func (s *ComplaintService) GetOwned(ctx context.Context, userID, complaintID uint) (*models.Complaint, error) {
	var complaint models.Complaint
	err := s.db.WithContext(ctx).
		Preload("User").
		Where("id = ? AND user_id = ?", complaintID, userID).
		First(&complaint).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrComplaintNotFound
	}
	if err != nil {
		return nil, err
	}
	return &complaint, nil
}

// Get fetches any complaint with its submitter and full update history,
// newest update first. Admin use.
func (s *ComplaintService) Get(ctx context.Context, complaintID uint) (*models.Complaint, error) {
	var complaint models.Complaint
	err := s.db.WithContext(ctx).
		Preload("User").
		Preload("Updates", func(db *gorm.DB) *gorm.DB {
			return db.Order("complaint_updates.created_at DESC, complaint_updates.id DESC")
		}).
		First(&complaint, complaintID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrComplaintNotFound
	}
	if err != nil {
		return nil, err
	}
	return &complaint, nil
}

// List returns all complaints matching the filter, newest first, with the
// submitter preloaded. Admin use.
func (s *ComplaintService) List(ctx context.Context, filter ComplaintFilter) ([]models.Complaint, error) {
	q := s.db.WithContext(ctx).Model(&models.Complaint{}).Preload("User")
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.Priority != "" {
		q = q.Where("priority = ?", filter.Priority)
	}
	if filter.Category != "" {
		q = q.Where("category = ?", filter.Category)
	}

	var complaints []models.Complaint
	err := q.Order("created_at DESC").Find(&complaints).Error
	return complaints, err
}
