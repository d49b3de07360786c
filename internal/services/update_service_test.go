package services

import (
	"context"
	"errors"
	"testing"

	"github.com/civicdesk/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppendUpdate_SyncsComplaint(t *testing.T) {
	db := setupTestDB(t)
	user := seedUser(t, db, "asha", models.RoleCitizen)
	complaints := NewComplaintService(db)
	updates := NewUpdateService(db)
	ctx := context.Background()

	complaint, err := complaints.Create(ctx, user.ID, ComplaintInput{
		Category:    models.CategoryRoad,
		Description: "broken divider",
	})
	require.NoError(t, err)

	_, err = updates.Append(ctx, complaint.ID, UpdateInput{
		Status: models.StatusInProgress,
		Remark: "Crew dispatched",
	})
	require.NoError(t, err)

	_, err = updates.Append(ctx, complaint.ID, UpdateInput{
		Status: models.StatusResolved,
		Remark: "Fixed",
	})
	require.NoError(t, err)

	var reloaded models.Complaint
	require.NoError(t, db.First(&reloaded, complaint.ID).Error)

	// The complaint mirrors the latest update, regardless of prior state.
	assert.Equal(t, models.StatusResolved, reloaded.Status)
	require.NotNil(t, reloaded.AdminComment)
	assert.Equal(t, "Fixed", *reloaded.AdminComment)
	require.NotNil(t, reloaded.ResolvedAt, "first transition to Resolved must stamp ResolvedAt")
}

func TestAppendUpdate_ResolvedAtStampedOnce(t *testing.T) {
	db := setupTestDB(t)
	user := seedUser(t, db, "asha", models.RoleCitizen)
	complaints := NewComplaintService(db)
	updates := NewUpdateService(db)
	ctx := context.Background()

	complaint, err := complaints.Create(ctx, user.ID, ComplaintInput{
		Category:    models.CategoryGarbage,
		Description: "overflowing bin",
	})
	require.NoError(t, err)

	_, err = updates.Append(ctx, complaint.ID, UpdateInput{Status: models.StatusResolved, Remark: "Cleared"})
	require.NoError(t, err)

	var first models.Complaint
	require.NoError(t, db.First(&first, complaint.ID).Error)
	require.NotNil(t, first.ResolvedAt)
	stamp := *first.ResolvedAt

	_, err = updates.Append(ctx, complaint.ID, UpdateInput{Status: models.StatusResolved, Remark: "Verified"})
	require.NoError(t, err)

	var second models.Complaint
	require.NoError(t, db.First(&second, complaint.ID).Error)
	require.NotNil(t, second.ResolvedAt)
	assert.Equal(t, stamp, *second.ResolvedAt, "ResolvedAt must not move on later updates")
	assert.Equal(t, "Verified", *second.AdminComment)
}

func TestAppendUpdate_MediaBecomesAfterImage(t *testing.T) {
	db := setupTestDB(t)
	user := seedUser(t, db, "asha", models.RoleCitizen)
	complaints := NewComplaintService(db)
	updates := NewUpdateService(db)
	ctx := context.Background()

	complaint, err := complaints.Create(ctx, user.ID, ComplaintInput{
		Category:    models.CategoryWater,
		Description: "leaking main",
	})
	require.NoError(t, err)

	key := "complaint_updates/fixed.jpg"
	_, err = updates.Append(ctx, complaint.ID, UpdateInput{
		Status: models.StatusResolved,
		Remark: "Pipe replaced",
		Media:  &key,
	})
	require.NoError(t, err)

	var reloaded models.Complaint
	require.NoError(t, db.First(&reloaded, complaint.ID).Error)
	require.NotNil(t, reloaded.AfterImage)
	assert.Equal(t, key, *reloaded.AfterImage)
}

func TestAppendUpdate_Validation(t *testing.T) {
	db := setupTestDB(t)
	user := seedUser(t, db, "asha", models.RoleCitizen)
	complaints := NewComplaintService(db)
	updates := NewUpdateService(db)
	ctx := context.Background()

	complaint, err := complaints.Create(ctx, user.ID, ComplaintInput{
		Category:    models.CategoryRoad,
		Description: "cracked surface",
	})
	require.NoError(t, err)

	_, err = updates.Append(ctx, complaint.ID, UpdateInput{Status: "Closed", Remark: "done"})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "status", verr.Field)

	_, err = updates.Append(ctx, complaint.ID, UpdateInput{Status: models.StatusResolved, Remark: "   "})
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "remark", verr.Field)

	_, err = updates.Append(ctx, 9999, UpdateInput{Status: models.StatusResolved, Remark: "done"})
	assert.True(t, errors.Is(err, ErrComplaintNotFound))

	// Failed appends must leave no trace.
	var count int64
	db.Model(&models.ComplaintUpdate{}).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestUpdateHistory_NewestFirst(t *testing.T) {
	db := setupTestDB(t)
	user := seedUser(t, db, "asha", models.RoleCitizen)
	complaints := NewComplaintService(db)
	updates := NewUpdateService(db)
	ctx := context.Background()

	complaint, err := complaints.Create(ctx, user.ID, ComplaintInput{
		Category:    models.CategoryElectricity,
		Description: "pole leaning",
	})
	require.NoError(t, err)

	for _, remark := range []string{"logged", "inspected", "repaired"} {
		_, err := updates.Append(ctx, complaint.ID, UpdateInput{Status: models.StatusInProgress, Remark: remark})
		require.NoError(t, err)
	}

	history, err := updates.History(ctx, complaint.ID)
	require.NoError(t, err)
	require.Len(t, history, 3)
	// Same-instant rows fall back to id ordering, so the latest insert wins.
	assert.Equal(t, "repaired", history[0].Remark)
	assert.Equal(t, "logged", history[2].Remark)
}
