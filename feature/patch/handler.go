package patch

import (
	"patch-tracker/core/logger"
	"patch-tracker/feature/patch/discover"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for the patch crawler.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the crawl routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/crawl")
	group.Post("/", h.HandleCrawl)
	group.Post("/init", h.HandleCrawlInit)
	group.Get("/status", h.HandleStatus)
}

// HandleCrawl triggers an incremental crawl. With ?game= only that game is
// synced, otherwise every game runs in sequence.
func (h *Handler) HandleCrawl(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	if slug := c.Query("game"); slug != "" {
		summary, err := h.service.RunGame(c.Context(), slug)
		if err != nil {
			l.Error("crawl failed", zap.String("game", slug), zap.Error(err))
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": err.Error(),
			})
		}
		return c.JSON([]RunSummary{summary})
	}

	summaries, err := h.service.RunAppend(c.Context())
	if err != nil {
		l.Error("crawl failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.JSON(summaries)
}

// HandleCrawlInit triggers the deep historical crawl. ?clicks= bounds how far
// the index is expanded; the default reaches roughly a year back.
func (h *Handler) HandleCrawlInit(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	clicks := c.QueryInt("clicks", discover.DefaultLoadMoreClicks)
	summaries, err := h.service.RunInit(c.Context(), clicks)
	if err != nil {
		l.Error("init crawl failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.JSON(summaries)
}

// HandleStatus reports each game's sync position against the live index.
// With ?game= the report is limited to that game.
func (h *Handler) HandleStatus(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	statuses, err := h.service.Status(c.Context())
	if err != nil {
		l.Error("status check failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	if slug := c.Query("game"); slug != "" {
		for _, status := range statuses {
			if status.Game == slug {
				return c.JSON([]GameStatus{status})
			}
		}
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "unknown game " + slug,
		})
	}
	return c.JSON(statuses)
}
