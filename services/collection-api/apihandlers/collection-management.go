package apihandlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	mw "github.com/hikuken/submission-project/pkg/apihelpers/middlewares"
	"github.com/hikuken/submission-project/pkg/collection/types"
	jwthandling "github.com/hikuken/submission-project/pkg/jwt-handling"
)

func (h *HttpEndpoints) AddCollectionManagementAPI(rg *gin.RouterGroup) {
	collectionsGroup := rg.Group("/collections")
	collectionsGroup.Use(mw.GetAndValidateOrganizerJWT(h.tokenSignKey))
	{
		collectionsGroup.GET("/", h.getOwnCollections)
		collectionsGroup.POST("/", mw.RequirePayload(), h.createCollection)
		collectionsGroup.PUT("/:collectionID/fields", mw.RequirePayload(), h.replaceFields)
		collectionsGroup.POST("/:collectionID/submitters", mw.RequirePayload(), h.addSubmitter)
	}
}

func (h *HttpEndpoints) createCollection(c *gin.Context) {
	token := c.MustGet("validatedToken").(*jwthandling.OrganizerClaims)

	var req struct {
		Name     string `json:"name"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Error("failed to bind request", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name is required"})
		return
	}

	result, err := h.collectionService.CreateCollection(c.Request.Context(), token.Subject, req.Name, req.Password)
	if err != nil {
		slog.Error("error creating collection", slog.String("organizerID", token.Subject), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "error creating collection"})
		return
	}

	slog.Info("collection created", slog.String("organizerID", token.Subject), slog.String("collectionID", result.CollectionID))
	c.JSON(http.StatusOK, result)
}

func (h *HttpEndpoints) getOwnCollections(c *gin.Context) {
	token := c.MustGet("validatedToken").(*jwthandling.OrganizerClaims)

	collections, err := h.collectionService.GetCollectionsByOwner(c.Request.Context(), token.Subject)
	if err != nil {
		slog.Error("error fetching collections", slog.String("organizerID", token.Subject), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "error fetching collections"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"collections": collections})
}

func (h *HttpEndpoints) replaceFields(c *gin.Context) {
	token := c.MustGet("validatedToken").(*jwthandling.OrganizerClaims)
	collectionID := c.Param("collectionID")

	var req struct {
		Fields []struct {
			Label         string          `json:"label"`
			Kind          types.FieldKind `json:"kind"`
			Required      bool            `json:"required"`
			ChoiceOptions []string        `json:"choiceOptions"`
		} `json:"fields"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Error("failed to bind request", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	fields := make([]types.FieldDefinition, len(req.Fields))
	for i, field := range req.Fields {
		if field.Label == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "field label is required"})
			return
		}
		if !field.Kind.IsValid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid field kind: " + string(field.Kind)})
			return
		}
		fields[i] = types.FieldDefinition{
			CollectionID:  collectionID,
			Label:         field.Label,
			Kind:          field.Kind,
			Required:      field.Required,
			ChoiceOptions: field.ChoiceOptions,
			Order:         i,
		}
	}

	if err := h.collectionService.ReplaceFields(c.Request.Context(), collectionID, fields); err != nil {
		slog.Error("error replacing fields", slog.String("organizerID", token.Subject), slog.String("collectionID", collectionID), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "error replacing fields"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "fields updated"})
}

func (h *HttpEndpoints) addSubmitter(c *gin.Context) {
	token := c.MustGet("validatedToken").(*jwthandling.OrganizerClaims)
	collectionID := c.Param("collectionID")

	var req struct {
		Name string `json:"name"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Error("failed to bind request", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name is required"})
		return
	}

	id, err := h.collectionService.AddSubmitter(c.Request.Context(), collectionID, req.Name)
	if err != nil {
		if errors.Is(err, types.ErrDuplicateSubmitter) {
			c.JSON(http.StatusConflict, gin.H{"error": "submitter already exists"})
			return
		}
		slog.Error("error adding submitter", slog.String("organizerID", token.Subject), slog.String("collectionID", collectionID), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "error adding submitter"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"id": id})
}
