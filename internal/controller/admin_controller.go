// FILE: internal/controller/admin_controller.go
package controller

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/ranajunaid001/second-braind-junaid/internal/dto"
	"github.com/ranajunaid001/second-braind-junaid/internal/pkg/serverutils"
	"github.com/ranajunaid001/second-braind-junaid/internal/service"
)

type IAdminController interface {
	RegisterRoutes(r fiber.Router)
	GetLogs(ctx *fiber.Ctx) error
	GetLogDetail(ctx *fiber.Ctx) error
	GetStats(ctx *fiber.Ctx) error
	GetCorrectionReport(ctx *fiber.Ctx) error
	GenerateWeeklyReview(ctx *fiber.Ctx) error
}

type adminController struct {
	service service.IAdminService
}

func NewAdminController(service service.IAdminService) IAdminController {
	return &adminController{
		service: service,
	}
}

func (c *adminController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/admin")
	h.Use(serverutils.JwtMiddleware)

	h.Get("/logs", c.GetLogs)
	h.Get("/logs/:id", c.GetLogDetail)
	h.Get("/stats", c.GetStats)
	h.Get("/corrections/report", c.GetCorrectionReport)
	h.Post("/review/weekly", c.GenerateWeeklyReview)
}

func (c *adminController) GetLogs(ctx *fiber.Ctx) error {
	page, _ := strconv.Atoi(ctx.Query("page", "1"))
	limit, _ := strconv.Atoi(ctx.Query("limit", "20"))
	level := ctx.Query("level", "")

	logs, err := c.service.GetSystemLogs(ctx.Context(), page, limit, level)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, err.Error()))
	}
	return ctx.JSON(serverutils.SuccessResponse("System logs", logs))
}

func (c *adminController) GetLogDetail(ctx *fiber.Ctx) error {
	// Log IDs are MD5 hashes, not UUIDs.
	logId := ctx.Params("id")

	l, err := c.service.GetLogDetail(ctx.Context(), logId)
	if err != nil {
		return ctx.Status(fiber.StatusNotFound).JSON(serverutils.ErrorResponse(404, "Log not found"))
	}
	return ctx.JSON(serverutils.SuccessResponse("Log detail", l))
}

func (c *adminController) GetStats(ctx *fiber.Ctx) error {
	stats, err := c.service.GetStats(ctx.Context())
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, err.Error()))
	}
	return ctx.JSON(serverutils.SuccessResponse("Ledger stats", stats))
}

func (c *adminController) GetCorrectionReport(ctx *fiber.Ctx) error {
	report, err := c.service.GetCorrectionReport(ctx.Context())
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, err.Error()))
	}
	return ctx.JSON(serverutils.SuccessResponse("Correction report", report))
}

func (c *adminController) GenerateWeeklyReview(ctx *fiber.Ctx) error {
	// The body is optional; a bare POST reviews the default week.
	var req dto.WeeklyReviewRequest
	if len(ctx.Body()) > 0 {
		if err := ctx.BodyParser(&req); err != nil {
			return err
		}
	}

	err := serverutils.ValidateRequest(req)
	if err != nil {
		return err
	}

	review, err := c.service.GenerateWeeklyReview(ctx.Context(), req.Days)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, err.Error()))
	}
	return ctx.JSON(serverutils.SuccessResponse("Weekly review", review))
}
