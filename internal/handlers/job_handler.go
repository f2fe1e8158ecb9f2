package handlers

import (
	"net/http"

	"dispatchhub_backend/internal/middleware"
	"dispatchhub_backend/internal/services"
	"dispatchhub_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type JobHandler struct {
	*BaseHandler
	jobService      *services.JobService
	earningsService *services.EarningsService
}

func NewJobHandler(base *BaseHandler, jobService *services.JobService, earningsService *services.EarningsService) *JobHandler {
	return &JobHandler{
		BaseHandler:     base,
		jobService:      jobService,
		earningsService: earningsService,
	}
}

// Create handles POST /api/v1/jobs.
func (h *JobHandler) Create(c *gin.Context) {
	userID, ok := h.AuthorizedUserID(c)
	if !ok {
		return
	}

	var req dto.CreateJobRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}
	req.CreatorID = userID

	job, err := h.jobService.CreateJob(c.Request.Context(), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, job)
}

// List handles GET /api/v1/jobs. The result set depends on the caller's role.
func (h *JobHandler) List(c *gin.Context) {
	userID, ok := h.AuthorizedUserID(c)
	if !ok {
		return
	}

	jobs, err := h.jobService.ListJobs(c.Request.Context(), userID, middleware.GetRole(c))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"jobs": jobs, "count": len(jobs)})
}

// Get handles GET /api/v1/jobs/:id.
func (h *JobHandler) Get(c *gin.Context) {
	job, err := h.jobService.GetJob(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, job)
}

// Claim handles POST /api/v1/jobs/:id/claim.
func (h *JobHandler) Claim(c *gin.Context) {
	userID, ok := h.AuthorizedUserID(c)
	if !ok {
		return
	}

	job, err := h.jobService.ClaimJob(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, job)
}

// Complete handles POST /api/v1/jobs/:id/complete.
func (h *JobHandler) Complete(c *gin.Context) {
	userID, ok := h.AuthorizedUserID(c)
	if !ok {
		return
	}

	job, err := h.jobService.CompleteJob(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, job)
}

// Assign handles POST /api/v1/jobs/:id/assign.
func (h *JobHandler) Assign(c *gin.Context) {
	userID, ok := h.AuthorizedUserID(c)
	if !ok {
		return
	}

	var req dto.AssignJobRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	job, err := h.jobService.AssignJob(c.Request.Context(), c.Param("id"), req.DriverID, userID, middleware.GetRole(c))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, job)
}

// Earnings handles GET /api/v1/earnings.
func (h *JobHandler) Earnings(c *gin.Context) {
	userID, ok := h.AuthorizedUserID(c)
	if !ok {
		return
	}

	earnings, err := h.earningsService.ComputeEarnings(c.Request.Context(), userID, middleware.GetRole(c))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, earnings)
}

// DeleteAll handles DELETE /api/v1/admin/jobs. Admin only.
func (h *JobHandler) DeleteAll(c *gin.Context) {
	deleted, err := h.jobService.DeleteAllJobs(c.Request.Context())
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": deleted})
}

// Stats handles GET /api/v1/admin/jobs/stats. Admin only.
func (h *JobHandler) Stats(c *gin.Context) {
	stats, err := h.jobService.GetJobStats(c.Request.Context())
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}
