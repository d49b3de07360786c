package controllers

import (
	"errors"
	"net/http"

	"github.com/civicdesk/backend/internal/media"
	"github.com/civicdesk/backend/internal/models"
	"github.com/civicdesk/backend/internal/services"
	"github.com/gin-gonic/gin"
)

// AdminController serves the administrative endpoints: browsing and filtering
// all complaints, appending status updates and the aggregate dashboard.
// There are deliberately no endpoints for creating, editing or deleting
// complaints here; admins only act through append-only updates.
type AdminController struct {
	complaints *services.ComplaintService
	updates    *services.UpdateService
	stats      *services.StatsService
	store      media.Store
}

func NewAdminController(complaints *services.ComplaintService, updates *services.UpdateService, stats *services.StatsService, store media.Store) *AdminController {
	return &AdminController{complaints: complaints, updates: updates, stats: stats, store: store}
}

func (ac *AdminController) ListComplaints(c *gin.Context) {
	filter := services.ComplaintFilter{
		Status:   models.ComplaintStatus(c.Query("status")),
		Priority: models.ComplaintPriority(c.Query("priority")),
		Category: models.ComplaintCategory(c.Query("category")),
	}

	complaints, err := ac.complaints.List(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list complaints"})
		return
	}

	c.JSON(http.StatusOK, complaints)
}

func (ac *AdminController) GetComplaint(c *gin.Context) {
	complaintID, err := parseID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid complaint id"})
		return
	}

	complaint, err := ac.complaints.Get(c.Request.Context(), complaintID)
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

// AppendUpdate records a status update for a complaint. The complaint's
// status and admin comment follow the latest update automatically.
func (ac *AdminController) AppendUpdate(c *gin.Context) {
	complaintID, err := parseID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid complaint id"})
		return
	}

	input := services.UpdateInput{
		Status: models.ComplaintStatus(c.PostForm("status")),
		Remark: c.PostForm("remark"),
	}

	if file, err := c.FormFile("media"); err == nil {
		key, err := saveUpload(c, ac.store, file, "complaint_updates")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"field": "media", "error": err.Error()})
			return
		}
		input.Media = &key
	}

	update, err := ac.updates.Append(c.Request.Context(), complaintID, input)
	if err != nil {
		var verr *services.ValidationError
		if errors.As(err, &verr) {
			c.JSON(http.StatusBadRequest, gin.H{"field": verr.Field, "error": verr.Message})
			return
		}
		if errors.Is(err, services.ErrComplaintNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Complaint not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to append update"})
		return
	}

	c.JSON(http.StatusCreated, update)
}

// Stats returns the global dashboard aggregates.
func (ac *AdminController) Stats(c *gin.Context) {
	statusCounts, err := ac.stats.StatusCounts(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute statistics"})
		return
	}

	categoryCounts, err := ac.stats.CategoryCounts(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute statistics"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":     statusCounts,
		"categories": categoryCounts,
	})
}
