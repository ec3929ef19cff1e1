package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// DirectoryHandler はユーザーとカテゴリのハンドラー
type DirectoryHandler struct {
	service DirectoryServiceInterface
}

func NewDirectoryHandler(s DirectoryServiceInterface) *DirectoryHandler {
	return &DirectoryHandler{service: s}
}

type CreateUserRequest struct {
	Name  string `json:"name" validate:"required,notblank,max=250" example:"山田花子"`
	Email string `json:"email" validate:"required,email,max=254" example:"hanako@example.com"`
}

type CreateCategoryRequest struct {
	Name string `json:"name" validate:"required,notblank,max=50" example:"コンサート"`
}

func (h *DirectoryHandler) CreateUser(c echo.Context) error {
	var req CreateUserRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	u, err := h.service.CreateUser(c.Request().Context(), req.Name, req.Email)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toUserResponse(u))
}

func (h *DirectoryHandler) ListUsers(c echo.Context) error {
	from, size, err := page(c)
	if err != nil {
		return err
	}
	us, err := h.service.ListUsers(c.Request().Context(), queryList(c, "ids"), from, size)
	if err != nil {
		return err
	}
	out := make([]UserResponse, len(us))
	for i, u := range us {
		out[i] = toUserResponse(u)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *DirectoryHandler) CreateCategory(c echo.Context) error {
	var req CreateCategoryRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	cat, err := h.service.CreateCategory(c.Request().Context(), req.Name)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toCategoryResponse(cat))
}

func (h *DirectoryHandler) GetCategory(c echo.Context) error {
	cat, err := h.service.GetCategory(c.Request().Context(), c.Param("catId"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toCategoryResponse(cat))
}

func (h *DirectoryHandler) ListCategories(c echo.Context) error {
	from, size, err := page(c)
	if err != nil {
		return err
	}
	cs, err := h.service.ListCategories(c.Request().Context(), from, size)
	if err != nil {
		return err
	}
	out := make([]CategoryResponse, len(cs))
	for i, cat := range cs {
		out[i] = toCategoryResponse(cat)
	}
	return c.JSON(http.StatusOK, out)
}
