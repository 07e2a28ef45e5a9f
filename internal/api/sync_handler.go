package api

import (
	"net/http"

	"CrackSync/internal/config"
	"CrackSync/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type SyncHandler struct {
	syncService *service.SyncService
	cfg         *config.Config
	logger      *logrus.Logger
}

func NewSyncHandler(db *gorm.DB, logger *logrus.Logger, cfg *config.Config) *SyncHandler {
	return &SyncHandler{
		syncService: service.NewSyncService(db, logger, cfg),
		cfg:         cfg,
		logger:      logger,
	}
}

// Service exposes the underlying sync service for adapter registration.
func (h *SyncHandler) Service() *service.SyncService {
	return h.syncService
}

// SyncRequest is the optional trigger body. An empty or invalid body is fine:
// everything falls back to configured defaults.
type SyncRequest struct {
	Limit      int    `json:"limit"`
	SearchTerm string `json:"searchTerm"`
	Source     string `json:"source"`
}

// TriggerSync runs one sync pass
// @Summary Synchronize the game catalog
// @Param body body SyncRequest false "limit / searchTerm / source"
// @Success 200 {object} map[string]interface{}
// @Failure 500 {object} map[string]string
// @Router /sync [post]
func (h *SyncHandler) TriggerSync(c *gin.Context) {
	var req SyncRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.WithError(err).Debug("no valid JSON body on sync trigger, using defaults")
	}
	if req.Source == "" {
		req.Source = "steam"
	}
	if req.Limit <= 0 {
		req.Limit = h.cfg.Sync.DefaultLimit
	}

	result, err := h.syncService.SyncSource(c.Request.Context(), req.Source, req.Limit, req.SearchTerm)
	if err != nil {
		h.logger.WithError(err).Errorf("sync run for %s failed", req.Source)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"processed": result.Processed,
		"message":   result.Message,
	})
}
