package apihandlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hikuken/submission-project/pkg/collection"
)

func HealthCheckHandle(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

type HttpEndpoints struct {
	collectionService *collection.Service
	tokenSignKey      string
}

func NewHTTPHandler(
	tokenSignKey string,
	collectionService *collection.Service,
) *HttpEndpoints {
	return &HttpEndpoints{
		collectionService: collectionService,
		tokenSignKey:      tokenSignKey,
	}
}
