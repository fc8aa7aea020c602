package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/jmfreeston/events-directory-api/internal/model"
	"github.com/jmfreeston/events-directory-api/internal/repository"
)

// CreateCategory handles POST /v1/admin/categories and adds a new
// event category to the active set.
func (h *AdminHandler) CreateCategory(c echo.Context) error {
	var body struct {
		CategoryName string `json:"categoryName"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	name := strings.TrimSpace(body.CategoryName)
	if name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "categoryName is required"})
	}
	cat := &model.Category{CategoryName: name, Active: true}
	if err := h.CategoryRepo.Create(c.Request().Context(), cat); err != nil {
		if errors.Is(err, repository.ErrCategoryExists) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "category already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create category"})
	}
	return c.JSON(http.StatusCreated, cat)
}
