package handler

import (
	"io"

	"go-scanner-ws/internal/service"

	"github.com/gofiber/fiber/v2"
)

// maxUploadSize bounds workbook uploads (25 MiB).
const maxUploadSize = 25 << 20

type CatalogHandler struct {
	catalog service.CatalogService
}

func NewCatalogHandler(catalog service.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalog: catalog}
}

func readUpload(c *fiber.Ctx, field string) ([]byte, error) {
	fileHeader, err := c.FormFile(field)
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "missing file upload")
	}
	if fileHeader.Size > maxUploadSize {
		return nil, fiber.NewError(fiber.StatusRequestEntityTooLarge, "file too large")
	}

	f, err := fileHeader.Open()
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "cannot open upload")
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "cannot read upload")
	}
	return data, nil
}

func (h *CatalogHandler) UploadArticles(c *fiber.Ctx) error {
	if _, err := currentUserID(c); err != nil {
		return err
	}
	data, err := readUpload(c, "file")
	if err != nil {
		return err
	}

	result, err := h.catalog.UploadArticles(data)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(result)
}

func (h *CatalogHandler) ListArticles(c *fiber.Ctx) error {
	page, err := h.catalog.ListArticles(
		c.Query("category"),
		c.Query("search"),
		c.QueryInt("skip", 0),
		c.QueryInt("limit", 100),
	)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(page)
}

func (h *CatalogHandler) GetArticle(c *fiber.Ctx) error {
	article, err := h.catalog.GetArticle(c.Params("sap"))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(article)
}

func (h *CatalogHandler) UploadBOM(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	data, err := readUpload(c, "file")
	if err != nil {
		return err
	}

	bom, err := h.catalog.UploadBOM(userID, c.FormValue("name"), c.FormValue("category"), data)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(bom.ToResponse())
}

func (h *CatalogHandler) ListBOMs(c *fiber.Ctx) error {
	boms, err := h.catalog.ListBOMs(c.Query("category"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(boms)
}

func (h *CatalogHandler) GetBOM(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	bom, err := h.catalog.GetBOM(id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(bom)
}

func (h *CatalogHandler) GetBOMItems(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	bom, err := h.catalog.GetBOM(id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(bom.Items)
}

func (h *CatalogHandler) DeleteBOM(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	if err := h.catalog.DeactivateBOM(id); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "bom deactivated"})
}

func (h *CatalogHandler) Categories(c *fiber.Ctx) error {
	categories, err := h.catalog.Categories()
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"categories": categories})
}
