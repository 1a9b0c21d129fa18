package handler

import (
	"fmt"

	"go-scanner-ws/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type ReportHandler struct {
	reports service.ReportService
}

func NewReportHandler(reports service.ReportService) *ReportHandler {
	return &ReportHandler{reports: reports}
}

// Report renders the finalized session report in the requested format:
// pdf, excel, or json (the default).
func (h *ReportHandler) Report(c *fiber.Ctx) error {
	userID, sessionID, err := reportIdentity(c)
	if err != nil {
		return err
	}

	switch format := c.Query("format", "json"); format {
	case "json":
		preview, err := h.reports.Preview(userID, sessionID)
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(preview)

	case "pdf":
		data, err := h.reports.GeneratePDF(userID, sessionID)
		if err != nil {
			return fail(c, err)
		}
		c.Set(fiber.HeaderContentType, "application/pdf")
		c.Set(fiber.HeaderContentDisposition,
			fmt.Sprintf(`attachment; filename="session-%s.pdf"`, sessionID))
		return c.Send(data)

	case "excel":
		data, err := h.reports.GenerateExcel(userID, sessionID)
		if err != nil {
			return fail(c, err)
		}
		c.Set(fiber.HeaderContentType, xlsxContentType)
		c.Set(fiber.HeaderContentDisposition,
			fmt.Sprintf(`attachment; filename="session-%s.xlsx"`, sessionID))
		return c.Send(data)

	default:
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "unsupported format: " + format,
		})
	}
}

func (h *ReportHandler) Preview(c *fiber.Ctx) error {
	userID, sessionID, err := reportIdentity(c)
	if err != nil {
		return err
	}

	preview, err := h.reports.Preview(userID, sessionID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(preview)
}

func (h *ReportHandler) InventoryExport(c *fiber.Ctx) error {
	userID, sessionID, err := reportIdentity(c)
	if err != nil {
		return err
	}

	data, err := h.reports.GenerateInventoryExcel(userID, sessionID)
	if err != nil {
		return fail(c, err)
	}

	c.Set(fiber.HeaderContentType, xlsxContentType)
	c.Set(fiber.HeaderContentDisposition,
		fmt.Sprintf(`attachment; filename="inventory-%s.xlsx"`, sessionID))
	return c.Send(data)
}

func reportIdentity(c *fiber.Ctx) (uuid.UUID, uuid.UUID, error) {
	userID, err := currentUserID(c)
	if err != nil {
		return uuid.Nil, uuid.Nil, err
	}
	sessionID, err := parseID(c, "id")
	if err != nil {
		return uuid.Nil, uuid.Nil, err
	}
	return userID, sessionID, nil
}
