package api

import (
	"errors"
	"net/http"
	"strconv"

	"CrackSync/internal/repository"
	"CrackSync/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// GameHandler serves the dashboard query endpoints.
type GameHandler struct {
	gameService *service.GameService
	logger      *logrus.Logger
}

func NewGameHandler(db *gorm.DB, logger *logrus.Logger) *GameHandler {
	repo := repository.NewGameRepository(db)
	return &GameHandler{
		gameService: service.NewGameService(repo, logger),
		logger:      logger,
	}
}

// ListGames paginated game list
// GET /api/games?search=&status=all|cracked|uncracked|drm_free&page=1&page_size=20
func (h *GameHandler) ListGames(c *gin.Context) {
	filter := repository.GameFilter{
		Search: c.Query("search"),
		Status: c.DefaultQuery("status", "all"),
	}
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

	result, err := h.gameService.ListGames(c.Request.Context(), filter, page, pageSize)
	if err != nil {
		h.logger.WithError(err).Error("ListGames failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetGameDetail single game with crack status
// GET /api/games/:steam_id
func (h *GameHandler) GetGameDetail(c *gin.Context) {
	steamID, err := strconv.ParseInt(c.Param("steam_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "steam_id must be an integer"})
		return
	}

	detail, err := h.gameService.GetGame(c.Request.Context(), steamID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "game not found"})
			return
		}
		h.logger.WithError(err).Error("GetGameDetail failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, detail)
}

// GetStats dashboard aggregates
// GET /api/stats
func (h *GameHandler) GetStats(c *gin.Context) {
	stats, err := h.gameService.GetStats(c.Request.Context())
	if err != nil {
		h.logger.WithError(err).Error("GetStats failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, stats)
}
