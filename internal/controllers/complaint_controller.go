package controllers

import (
	"bytes"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/civicdesk/backend/internal/media"
	"github.com/civicdesk/backend/internal/models"
	"github.com/civicdesk/backend/internal/services"
	"github.com/gin-gonic/gin"
)

const maxUploadSize = 5 * 1024 * 1024

// ComplaintController serves the citizen-facing complaint endpoints: filing,
// listing, detail and the PDF report download.
type ComplaintController struct {
	complaints *services.ComplaintService
	sla        *services.SLAService
	reports    *services.ReportService
	store      media.Store
}

func NewComplaintController(complaints *services.ComplaintService, sla *services.SLAService, reports *services.ReportService, store media.Store) *ComplaintController {
	return &ComplaintController{complaints: complaints, sla: sla, reports: reports, store: store}
}

func (cc *ComplaintController) Create(c *gin.Context) {
	userID := c.GetUint("userID")
	if userID == 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	input := services.ComplaintInput{
		Category:      models.ComplaintCategory(c.PostForm("category")),
		OtherCategory: c.PostForm("other_category"),
		Location:      c.PostForm("location"),
		Description:   c.PostForm("description"),
	}

	if file, err := c.FormFile("before_image"); err == nil {
		key, err := saveUpload(c, cc.store, file, "complaints/before")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"field": "before_image", "error": err.Error()})
			return
		}
		input.BeforeImage = &key
	}

	complaint, err := cc.complaints.Create(c.Request.Context(), userID, input)
	if err != nil {
		var verr *services.ValidationError
		if errors.As(err, &verr) {
			c.JSON(http.StatusBadRequest, gin.H{"field": verr.Field, "error": verr.Message})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to file complaint"})
		return
	}

	c.JSON(http.StatusCreated, complaint)
}

// ListMine runs the SLA sweep and then returns the caller's complaints, so
// overdue flags are current at read time.
func (cc *ComplaintController) ListMine(c *gin.Context) {
	userID := c.GetUint("userID")
	if userID == 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	if _, err := cc.sla.MarkOverdue(c.Request.Context()); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to refresh complaints"})
		return
	}

	complaints, err := cc.complaints.ListByUser(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list complaints"})
		return
	}

	c.JSON(http.StatusOK, complaints)
}

func (cc *ComplaintController) GetMine(c *gin.Context) {
	userID := c.GetUint("userID")
	complaintID, err := parseID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid complaint id"})
		return
	}

	complaint, err := cc.complaints.GetOwned(c.Request.Context(), userID, complaintID)
	if err != nil {
		if errors.Is(err, services.ErrComplaintNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Complaint not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load complaint"})
		return
	}

	c.JSON(http.StatusOK, complaint)
}

// DownloadReport streams the two-page PDF for an owned complaint. A foreign
// complaint id comes back as 404, never 403.
func (cc *ComplaintController) DownloadReport(c *gin.Context) {
	userID := c.GetUint("userID")
	complaintID, err := parseID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid complaint id"})
		return
	}

	pdfBytes, err := cc.reports.Generate(c.Request.Context(), userID, complaintID)
	if err != nil {
		if errors.Is(err, services.ErrComplaintNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Complaint not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate report"})
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="complaint_%d.pdf"`, complaintID))
	c.Data(http.StatusOK, "application/pdf", pdfBytes)
}

func parseID(c *gin.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	return uint(id), err
}

// saveUpload normalizes an uploaded image and writes it to the media store,
// returning the object key.
func saveUpload(c *gin.Context, store media.Store, file *multipart.FileHeader, prefix string) (string, error) {
	if file.Size > maxUploadSize {
		return "", fmt.Errorf("file too large (max 5MB)")
	}

	f, err := file.Open()
	if err != nil {
		return "", err
	}
	defer f.Close()

	data, contentType, err := media.NormalizeUpload(f)
	if err != nil {
		return "", err
	}

	key := media.NewKey(prefix, file.Filename)
	if err := store.Save(c.Request.Context(), key, bytes.NewReader(data), int64(len(data)), contentType); err != nil {
		return "", err
	}
	return key, nil
}
