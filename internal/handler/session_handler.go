package handler

import (
	"go-scanner-ws/internal/service"

	"github.com/gofiber/fiber/v2"
)

type SessionHandler struct {
	sessions service.SessionService
}

func NewSessionHandler(sessions service.SessionService) *SessionHandler {
	return &SessionHandler{sessions: sessions}
}

func (h *SessionHandler) Create(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	var req service.CreateSessionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	session, err := h.sessions.CreateSession(userID, &req)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(session)
}

func (h *SessionHandler) List(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	sessions, err := h.sessions.ListSessions(userID, c.QueryBool("active_only", false))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(sessions)
}

func (h *SessionHandler) End(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	sessionID, err := parseID(c, "id")
	if err != nil {
		return err
	}

	session, err := h.sessions.EndSession(userID, sessionID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(session)
}

func (h *SessionHandler) Delete(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	sessionID, err := parseID(c, "id")
	if err != nil {
		return err
	}

	if err := h.sessions.DeleteSession(userID, sessionID); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "session deleted"})
}

func (h *SessionHandler) Overview(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	overview, err := h.sessions.GetOverview(userID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(overview)
}
