package handler

import (
	"go-scanner-ws/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ScanHandler struct {
	scans service.ScanService
}

func NewScanHandler(scans service.ScanService) *ScanHandler {
	return &ScanHandler{scans: scans}
}

func (h *ScanHandler) Record(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	var req service.RecordScanRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	record, err := h.scans.RecordScan(userID, &req)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(record.ToResponse())
}

type updateQuantityRequest struct {
	Quantity float64 `json:"quantity"`
}

func (h *ScanHandler) UpdateQuantity(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	recordID, err := parseID(c, "id")
	if err != nil {
		return err
	}

	var req updateQuantityRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	record, err := h.scans.UpdateQuantity(userID, recordID, req.Quantity)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(record.ToResponse())
}

func (h *ScanHandler) Delete(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	recordID, err := parseID(c, "id")
	if err != nil {
		return err
	}

	if err := h.scans.DeleteRecord(userID, recordID); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "record deleted"})
}

func (h *ScanHandler) SessionRecords(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	sessionID, err := parseID(c, "id")
	if err != nil {
		return err
	}

	records, err := h.scans.GetSessionRecords(userID, sessionID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(records)
}

func (h *ScanHandler) MissingItems(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	sessionID, err := parseID(c, "id")
	if err != nil {
		return err
	}

	missing, err := h.scans.ComputeMissingItems(userID, sessionID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(missing)
}

func (h *ScanHandler) Summary(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	sessionID, err := parseID(c, "id")
	if err != nil {
		return err
	}

	summary, err := h.scans.GetSessionSummary(userID, sessionID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(summary)
}

func (h *ScanHandler) InventorySummary(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	sessionID, err := parseID(c, "id")
	if err != nil {
		return err
	}

	summary, err := h.scans.GetInventorySummary(userID, sessionID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(summary)
}

func (h *ScanHandler) InventorySummaryByCategory(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	sessionID, err := parseID(c, "id")
	if err != nil {
		return err
	}

	summary, err := h.scans.GetInventorySummaryByCategory(userID, sessionID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(summary)
}
