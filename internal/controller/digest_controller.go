package controller

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ranajunaid001/second-braind-junaid/internal/pkg/serverutils"
	"github.com/ranajunaid001/second-braind-junaid/internal/service"
)

type IDigestController interface {
	RegisterRoutes(r fiber.Router)
	Trigger(ctx *fiber.Ctx) error
}

// digestController exposes the cron-facing digest trigger. The endpoint
// stays unauthenticated so a plain scheduler URL can hit it; it sends only
// to the configured chat, so there is nothing to steal.
type digestController struct {
	digestService service.IDigestService
}

func NewDigestController(digestService service.IDigestService) IDigestController {
	return &digestController{
		digestService: digestService,
	}
}

func (c *digestController) RegisterRoutes(r fiber.Router) {
	// Cron providers differ on the verb they emit.
	r.Get("/digest", c.Trigger)
	r.Post("/digest", c.Trigger)
}

func (c *digestController) Trigger(ctx *fiber.Ctx) error {
	if err := c.digestService.DeliverDaily(ctx.UserContext()); err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, err.Error()))
	}
	return ctx.JSON(serverutils.SuccessResponse[any]("Digest sent", nil))
}
