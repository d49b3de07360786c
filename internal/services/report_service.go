package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"math"
	"os"

	"github.com/civicdesk/backend/internal/logger"
	"github.com/civicdesk/backend/internal/media"
	"github.com/civicdesk/backend/internal/models"
	"github.com/disintegration/imaging"
	"github.com/jung-kurt/gofpdf"
	"gorm.io/gorm"
)

const (
	reportMarginX  = 60.0
	reportLineGap  = 18.0
	imageSlotH     = 150.0
	timestampStamp = "2 January 2006, 3:04 PM"

	reportTitle     = "Public Complaint Resolution Report"
	reportTagline   = "Transparent complaints - Visual insights - Faster resolutions"
	reportWatermark = "Public Grievance Management System"
	reportFooter    = "Public Grievance Management System"

	defaultResolverName    = "Mr. Rajesh Kumar (Municipal Officer)"
	defaultResolverContact = "+91 98765 43210"
)

// ReportService renders the two-page PDF resolution report for a single
// complaint: page one is the complaint itself, page two the global status
// overview chart.
type ReportService struct {
	db    *gorm.DB
	media media.Store
	stats *StatsService
}

func NewReportService(db *gorm.DB, store media.Store, stats *StatsService) *ReportService {
	return &ReportService{db: db, media: store, stats: stats}
}

// Generate builds the report for a complaint owned by userID. A complaint id
// belonging to another user fails with ErrComplaintNotFound. Unreadable or
// missing attachments never fail the report; their slot is left empty.
func (s *ReportService) Generate(ctx context.Context, userID, complaintID uint) ([]byte, error) {
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

	var latest *models.ComplaintUpdate
	var lastUpdate models.ComplaintUpdate
	err = s.db.WithContext(ctx).
		Where("complaint_id = ?", complaint.ID).
		Order("created_at DESC, id DESC").
		First(&lastUpdate).Error
	if err == nil {
		latest = &lastUpdate
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	counts, err := s.stats.StatusCounts(ctx)
	if err != nil {
		return nil, err
	}

	pdf := gofpdf.New("P", "pt", "A4", "")
	pdf.SetAutoPageBreak(false, 0)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	s.renderComplaintPage(ctx, pdf, tr, &complaint, latest)
	s.renderOverviewPage(pdf, tr, counts)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}

	logger.WithComplaint(complaint.ID, string(complaint.Category)).
		WithField("bytes", buf.Len()).
		Info("Report generated")

	return buf.Bytes(), nil
}

func (s *ReportService) renderComplaintPage(ctx context.Context, pdf *gofpdf.Fpdf, tr func(string) string, complaint *models.Complaint, latest *models.ComplaintUpdate) {
	pdf.AddPage()
	pageW, pageH := pdf.GetPageSize()
	contentW := pageW - 2*reportMarginX

	// Diagonal watermark behind everything else.
	pdf.SetFont("Helvetica", "B", 50)
	pdf.SetTextColor(230, 230, 230)
	pdf.SetAlpha(0.2, "Normal")
	pdf.TransformBegin()
	pdf.TransformRotate(45, pageW/2, pageH/2)
	pdf.Text(pageW/2-pdf.GetStringWidth(reportWatermark)/2, pageH/2, tr(reportWatermark))
	pdf.TransformEnd()
	pdf.SetAlpha(1, "Normal")
	pdf.SetTextColor(0, 0, 0)

	// Header.
	pdf.SetXY(reportMarginX, 44)
	pdf.SetFont("Helvetica", "B", 20)
	pdf.CellFormat(contentW, 24, tr(reportTitle), "", 1, "C", false, 0, "")
	pdf.SetX(reportMarginX)
	pdf.SetFont("Helvetica", "I", 11)
	pdf.CellFormat(contentW, 16, tr(reportTagline), "", 1, "C", false, 0, "")

	y := pdf.GetY() + 14
	pdf.Line(reportMarginX, y, pageW-reportMarginX, y)

	// Details block.
	y += 22
	pdf.SetXY(reportMarginX, y)
	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(contentW, 16, "Complaint Details", "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 12)
	details := []struct {
		label string
		value string
	}{
		{"Complaint ID", complaint.Reference},
		{"User", complaint.User.Username},
		{"Category", categoryLabel(complaint)},
		{"Priority", string(complaint.Priority)},
		{"Status", string(complaint.Status)},
		{"Filed On", complaint.CreatedAt.Format(timestampStamp)},
	}
	for _, d := range details {
		pdf.SetX(reportMarginX)
		pdf.CellFormat(contentW, reportLineGap, tr(fmt.Sprintf("%s: %s", d.label, d.value)), "", 1, "L", false, 0, "")
	}

	// Description, word-wrapped.
	pdf.Ln(8)
	pdf.SetX(reportMarginX)
	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(contentW, 16, "Complaint Description", "", 1, "L", false, 0, "")
	pdf.SetX(reportMarginX)
	pdf.SetFont("Helvetica", "", 11)
	pdf.MultiCell(contentW, 15, tr(complaint.Description), "", "L", false)

	// Attachment slots, each independently optional.
	pdf.Ln(14)
	pdf.SetX(reportMarginX)
	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(contentW, 16, "Attachments:", "", 1, "L", false, 0, "")

	slotW := (contentW - 20) / 2
	pdf.SetX(reportMarginX)
	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(slotW, 14, "Citizen Attachment", "", 0, "L", false, 0, "")
	pdf.SetX(reportMarginX + slotW + 20)
	pdf.CellFormat(slotW, 14, "Admin Attachment", "", 1, "L", false, 0, "")

	slotY := pdf.GetY() + 6
	if complaint.BeforeImage != nil {
		s.drawImageSlot(ctx, pdf, *complaint.BeforeImage, reportMarginX, slotY, slotW, imageSlotH)
	}
	if latest != nil && latest.Media != nil {
		s.drawImageSlot(ctx, pdf, *latest.Media, reportMarginX+slotW+20, slotY, slotW, imageSlotH)
	}

	// Admin remark, placeholder dash when no update has landed yet.
	y = slotY + imageSlotH + 24
	pdf.SetXY(reportMarginX, y)
	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(contentW, 16, "Admin Remark", "", 1, "L", false, 0, "")
	remark := "-"
	if complaint.AdminComment != nil && *complaint.AdminComment != "" {
		remark = *complaint.AdminComment
	}
	pdf.SetX(reportMarginX)
	pdf.SetFont("Helvetica", "", 12)
	pdf.CellFormat(contentW, reportLineGap, tr(remark), "", 1, "L", false, 0, "")

	// Resolver block.
	pdf.Ln(10)
	pdf.SetX(reportMarginX)
	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(contentW, 16, "Resolved By:", "", 1, "L", false, 0, "")
	pdf.SetX(reportMarginX)
	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(contentW, 15, tr("Officer Name: "+resolverName()), "", 1, "L", false, 0, "")
	pdf.SetX(reportMarginX)
	pdf.CellFormat(contentW, 15, tr("Contact: "+resolverContact()), "", 1, "L", false, 0, "")
	pdf.SetX(reportMarginX)
	pdf.CellFormat(contentW, 15, tr("Resolved On: "+resolutionStamp(complaint)), "", 1, "L", false, 0, "")

	// Footer.
	pdf.SetFont("Helvetica", "I", 9)
	pdf.Text(pageW/2-pdf.GetStringWidth(reportFooter)/2, pageH-40, tr(reportFooter))
	pdf.Text(pageW-reportMarginX-pdf.GetStringWidth("Page 1"), pageH-40, "Page 1")
}

// renderOverviewPage draws the global status bar chart. The counts are
// system-wide dashboard data embedded in every per-complaint report.
func (s *ReportService) renderOverviewPage(pdf *gofpdf.Fpdf, tr func(string) string, counts StatusCounts) {
	pdf.AddPage()
	pageW, pageH := pdf.GetPageSize()

	pdf.SetXY(reportMarginX, 44)
	pdf.SetFont("Helvetica", "B", 18)
	pdf.CellFormat(pageW-2*reportMarginX, 24, "Complaints Status Overview", "", 1, "C", false, 0, "")

	bars := []struct {
		label string
		value int64
	}{
		{"Pending", counts.Pending},
		{"Resolved", counts.Resolved},
		{"In Progress", counts.InProgress},
	}

	maxValue := int64(1)
	for _, b := range bars {
		if b.value > maxValue {
			maxValue = b.value
		}
	}

	chartX := 150.0
	chartTop := 160.0
	chartW := 300.0
	chartH := 220.0
	baseline := chartTop + chartH

	pdf.SetDrawColor(0, 0, 0)
	pdf.Line(chartX, chartTop, chartX, baseline)
	pdf.Line(chartX, baseline, chartX+chartW, baseline)

	barW := 60.0
	gap := (chartW - 3*barW) / 4
	pdf.SetFillColor(79, 129, 189)
	pdf.SetFont("Helvetica", "", 10)

	for i, b := range bars {
		bx := chartX + gap + float64(i)*(barW+gap)
		bh := float64(b.value) / float64(maxValue) * (chartH - 20)
		pdf.Rect(bx, baseline-bh, barW, bh, "F")

		value := fmt.Sprintf("%d", b.value)
		pdf.Text(bx+barW/2-pdf.GetStringWidth(value)/2, baseline-bh-6, value)
		pdf.Text(bx+barW/2-pdf.GetStringWidth(b.label)/2, baseline+16, tr(b.label))
	}

	pdf.SetFont("Helvetica", "I", 9)
	pdf.Text(pageW-reportMarginX-pdf.GetStringWidth("Page 2"), pageH-40, "Page 2")
}

// drawImageSlot fetches an attachment and draws it scaled to fit the slot
// box, aspect ratio preserved, with a border. Any failure along the way
// leaves the slot empty; a bad image must never abort the report.
func (s *ReportService) drawImageSlot(ctx context.Context, pdf *gofpdf.Fpdf, key string, x, y, slotW, slotH float64) {
	rc, err := s.media.Open(ctx, key)
	if err != nil {
		return
	}
	defer rc.Close()

	img, err := imaging.Decode(rc)
	if err != nil {
		return
	}

	iw := float64(img.Bounds().Dx())
	ih := float64(img.Bounds().Dy())
	if iw <= 0 || ih <= 0 {
		return
	}
	ratio := math.Min(slotW/iw, slotH/ih)
	w := iw * ratio
	h := ih * ratio

	// Re-encode through imaging so gofpdf only ever sees a well-formed JPEG.
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG); err != nil {
		return
	}

	opts := gofpdf.ImageOptions{ImageType: "JPG"}
	pdf.RegisterImageOptionsReader(key, opts, &buf)
	if !pdf.Ok() {
		pdf.ClearError()
		return
	}

	pdf.ImageOptions(key, x, y, w, h, false, opts, 0, "")
	pdf.Rect(x, y, w, h, "D")
}

func categoryLabel(c *models.Complaint) string {
	if c.Category == models.CategoryOther && c.OtherCategory != "" {
		return fmt.Sprintf("Other (%s)", c.OtherCategory)
	}
	return string(c.Category)
}

// resolutionStamp picks the timestamp for the "Resolved On" line: the actual
// resolution time when the complaint is resolved, the filing time as a
// fallback label otherwise.
func resolutionStamp(c *models.Complaint) string {
	t := c.CreatedAt
	if c.Status == models.StatusResolved && c.ResolvedAt != nil {
		t = *c.ResolvedAt
	}
	return t.Format(timestampStamp)
}

func resolverName() string {
	if v := os.Getenv("RESOLVER_NAME"); v != "" {
		return v
	}
	return defaultResolverName
}

func resolverContact() string {
	if v := os.Getenv("RESOLVER_CONTACT"); v != "" {
		return v
	}
	return defaultResolverContact
}
