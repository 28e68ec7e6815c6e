package apihandlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	mw "github.com/hikuken/submission-project/pkg/apihelpers/middlewares"
	"github.com/hikuken/submission-project/pkg/collection/types"
)

func (h *HttpEndpoints) AddSubmissionFlowAPI(rg *gin.RouterGroup) {
	submissionGroup := rg.Group("/submission", ValidateTokenParam("submissionToken"))
	{
		submissionGroup.GET("/:submissionToken", h.getSubmissionView)
		submissionGroup.POST("/:submissionToken/responses", mw.RequirePayload(), h.submitResponse)
		submissionGroup.GET("/:submissionToken/responses/:submitterName", h.getSubmission)
		submissionGroup.POST("/:submissionToken/upload-url", h.generateUploadURL)
	}
}

func (h *HttpEndpoints) getSubmissionView(c *gin.Context) {
	submissionToken := c.Param("submissionToken")

	view, err := h.collectionService.GetSubmissionView(c.Request.Context(), submissionToken)
	if err != nil {
		if errors.Is(err, types.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "collection not found"})
			return
		}
		slog.Error("error loading submission view", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "error loading submission view"})
		return
	}

	c.JSON(http.StatusOK, view)
}

func (h *HttpEndpoints) submitResponse(c *gin.Context) {
	submissionToken := c.Param("submissionToken")

	coll, err := h.collectionService.GetCollectionBySubmissionToken(c.Request.Context(), submissionToken)
	if err != nil {
		if errors.Is(err, types.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "collection not found"})
			return
		}
		slog.Error("error resolving submission token", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "error submitting response"})
		return
	}

	var req struct {
		SubmitterName string                         `json:"submitterName"`
		Responses     map[string]types.ResponseValue `json:"responses"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Error("failed to bind request", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.SubmitterName == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "submitterName is required"})
		return
	}

	submissionID, err := h.collectionService.SubmitResponse(c.Request.Context(), coll.ID.Hex(), req.SubmitterName, req.Responses)
	if err != nil {
		slog.Error("error submitting response", slog.String("collectionID", coll.ID.Hex()), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "error submitting response"})
		return
	}

	slog.Info("response submitted", slog.String("collectionID", coll.ID.Hex()), slog.String("submitterName", req.SubmitterName))
	c.JSON(http.StatusOK, gin.H{"submissionId": submissionID})
}

func (h *HttpEndpoints) getSubmission(c *gin.Context) {
	submissionToken := c.Param("submissionToken")
	submitterName := c.Param("submitterName")

	coll, err := h.collectionService.GetCollectionBySubmissionToken(c.Request.Context(), submissionToken)
	if err != nil {
		if errors.Is(err, types.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "collection not found"})
			return
		}
		slog.Error("error resolving submission token", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "error loading submission"})
		return
	}

	submission, err := h.collectionService.GetSubmission(c.Request.Context(), coll.ID.Hex(), submitterName)
	if err != nil {
		if errors.Is(err, types.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "no submission yet"})
			return
		}
		slog.Error("error loading submission", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "error loading submission"})
		return
	}

	c.JSON(http.StatusOK, submission)
}

func (h *HttpEndpoints) generateUploadURL(c *gin.Context) {
	submissionToken := c.Param("submissionToken")

	if _, err := h.collectionService.GetCollectionBySubmissionToken(c.Request.Context(), submissionToken); err != nil {
		if errors.Is(err, types.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "collection not found"})
			return
		}
		slog.Error("error resolving submission token", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "error issuing upload URL"})
		return
	}

	target, err := h.collectionService.IssueUploadTarget(c.Request.Context())
	if err != nil {
		slog.Error("error issuing upload target", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "error issuing upload URL"})
		return
	}

	c.JSON(http.StatusOK, target)
}
