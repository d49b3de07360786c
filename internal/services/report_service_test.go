package services

import (
	"bytes"
	"context"
	"errors"
	"image/color"
	"testing"

	"github.com/civicdesk/backend/internal/media"
	"github.com/civicdesk/backend/internal/models"
	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestReportService(t *testing.T) (*ReportService, *ComplaintService, *UpdateService, media.Store) {
	t.Helper()

	db := setupTestDB(t)
	store, err := media.NewDiskStore(t.TempDir())
	require.NoError(t, err)

	complaints := NewComplaintService(db)
	updates := NewUpdateService(db)
	reports := NewReportService(db, store, NewStatsService(db))
	return reports, complaints, updates, store
}

func TestGenerateReport(t *testing.T) {
	reports, complaints, updates, _ := newTestReportService(t)
	ctx := context.Background()

	db := reports.db
	user := seedUser(t, db, "asha", models.RoleCitizen)

	complaint, err := complaints.Create(ctx, user.ID, ComplaintInput{
		Category:    models.CategoryRoad,
		Location:    "Main St",
		Description: "Large pothole causing accident risk on the road",
	})
	require.NoError(t, err)

	_, err = updates.Append(ctx, complaint.ID, UpdateInput{
		Status: models.StatusResolved,
		Remark: "Filled and leveled",
	})
	require.NoError(t, err)

	pdfBytes, err := reports.Generate(ctx, user.ID, complaint.ID)
	require.NoError(t, err)
	require.NotEmpty(t, pdfBytes)

	assert.True(t, bytes.HasPrefix(pdfBytes, []byte("%PDF")), "output must be a PDF document")
	assert.Contains(t, string(pdfBytes), "/Count 2", "report must have exactly two pages")
}

func TestGenerateReport_ForeignComplaintIsNotFound(t *testing.T) {
	reports, complaints, _, _ := newTestReportService(t)
	ctx := context.Background()

	db := reports.db
	owner := seedUser(t, db, "asha", models.RoleCitizen)
	stranger := seedUser(t, db, "ravi", models.RoleCitizen)

	complaint, err := complaints.Create(ctx, owner.ID, ComplaintInput{
		Category:    models.CategoryWater,
		Description: "contaminated supply",
	})
	require.NoError(t, err)

	_, err = reports.Generate(ctx, stranger.ID, complaint.ID)
	assert.True(t, errors.Is(err, ErrComplaintNotFound),
		"foreign complaint must look like a missing one, got: %v", err)
}

func TestGenerateReport_WithAttachments(t *testing.T) {
	reports, complaints, _, store := newTestReportService(t)
	ctx := context.Background()

	db := reports.db
	user := seedUser(t, db, "asha", models.RoleCitizen)

	// Store a real image for the before slot.
	img := imaging.New(40, 30, color.NRGBA{R: 120, G: 120, B: 120, A: 255})
	var buf bytes.Buffer
	require.NoError(t, imaging.Encode(&buf, img, imaging.JPEG))
	key := "complaints/before/test.jpg"
	require.NoError(t, store.Save(ctx, key, bytes.NewReader(buf.Bytes()), int64(buf.Len()), "image/jpeg"))

	complaint, err := complaints.Create(ctx, user.ID, ComplaintInput{
		Category:    models.CategoryGarbage,
		Description: "burning garbage near homes",
		BeforeImage: &key,
	})
	require.NoError(t, err)

	pdfBytes, err := reports.Generate(ctx, user.ID, complaint.ID)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(pdfBytes, []byte("%PDF")))
}

func TestGenerateReport_BadImageSkippedSilently(t *testing.T) {
	reports, complaints, _, store := newTestReportService(t)
	ctx := context.Background()

	db := reports.db
	user := seedUser(t, db, "asha", models.RoleCitizen)

	// An unreadable attachment must never abort report generation.
	key := "complaints/before/broken.jpg"
	garbage := []byte("definitely not an image")
	require.NoError(t, store.Save(ctx, key, bytes.NewReader(garbage), int64(len(garbage)), "image/jpeg"))

	complaint, err := complaints.Create(ctx, user.ID, ComplaintInput{
		Category:    models.CategoryElectricity,
		Description: "hanging wires",
		BeforeImage: &key,
	})
	require.NoError(t, err)

	pdfBytes, err := reports.Generate(ctx, user.ID, complaint.ID)
	require.NoError(t, err, "bad image must be skipped, not fatal")
	assert.True(t, bytes.HasPrefix(pdfBytes, []byte("%PDF")))
}
