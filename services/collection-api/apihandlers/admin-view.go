package apihandlers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	mw "github.com/hikuken/submission-project/pkg/apihelpers/middlewares"
	"github.com/hikuken/submission-project/pkg/collection/types"
	submissionresponses "github.com/hikuken/submission-project/pkg/exporter/submission-responses"
)

// header carrying the collection password; the access gate is stateless, so
// password protected admin reads must include it on every request
const passwordHeader = "X-Collection-Password"

func (h *HttpEndpoints) AddAdminViewAPI(rg *gin.RouterGroup) {
	adminGroup := rg.Group("/admin", ValidateTokenParam("adminToken"))
	{
		adminGroup.GET("/:adminToken", h.getAdminView)
		adminGroup.GET("/:adminToken/password-required", h.checkPasswordRequired)
		adminGroup.POST("/:adminToken/verify-password", mw.RequirePayload(), h.verifyPassword)
		adminGroup.GET("/:adminToken/export", h.exportSubmissions)
	}
}

func (h *HttpEndpoints) getAdminView(c *gin.Context) {
	adminToken := c.Param("adminToken")

	view, err := h.collectionService.GetAdminView(c.Request.Context(), adminToken, c.GetHeader(passwordHeader))
	if err != nil {
		h.handleAdminViewError(c, err)
		return
	}

	c.JSON(http.StatusOK, view)
}

func (h *HttpEndpoints) checkPasswordRequired(c *gin.Context) {
	adminToken := c.Param("adminToken")

	requirement, err := h.collectionService.CheckPasswordRequired(c.Request.Context(), adminToken)
	if err != nil {
		slog.Error("error checking password requirement", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "error checking password requirement"})
		return
	}

	c.JSON(http.StatusOK, requirement)
}

func (h *HttpEndpoints) verifyPassword(c *gin.Context) {
	adminToken := c.Param("adminToken")

	var req struct {
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Error("failed to bind request", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.collectionService.VerifyPassword(c.Request.Context(), adminToken, req.Password); err != nil {
		h.handleAdminViewError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"granted": true})
}

func (h *HttpEndpoints) exportSubmissions(c *gin.Context) {
	adminToken := c.Param("adminToken")

	view, err := h.collectionService.GetAdminView(c.Request.Context(), adminToken, c.GetHeader(passwordHeader))
	if err != nil {
		h.handleAdminViewError(c, err)
		return
	}

	filename := fmt.Sprintf("%s_submissions.csv", view.Collection.Name)
	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))

	exporter, err := submissionresponses.NewSubmissionExporter(view.Fields, c.Writer)
	if err != nil {
		slog.Error("error initializing exporter", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "error exporting submissions"})
		return
	}
	for _, submission := range view.Submissions {
		if err := exporter.WriteSubmission(submission.SubmitterName, submission.Responses); err != nil {
			slog.Error("error writing export row", slog.String("error", err.Error()))
			return
		}
	}
	if err := exporter.Finish(); err != nil {
		slog.Error("error finishing export", slog.String("error", err.Error()))
	}
}

// handleAdminViewError distinguishes "collection doesn't exist" from "exists
// but locked" on every admin read path.
func (h *HttpEndpoints) handleAdminViewError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, types.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "collection not found"})
	case errors.Is(err, types.ErrAccessDenied):
		c.JSON(http.StatusForbidden, gin.H{"error": "access denied"})
	default:
		slog.Error("error loading admin view", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "error loading admin view"})
	}
}
