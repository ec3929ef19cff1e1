package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

type CommentHandler struct {
	service CommentServiceInterface
}

func NewCommentHandler(s CommentServiceInterface) *CommentHandler {
	return &CommentHandler{service: s}
}

type CommentRequest struct {
	Text string `json:"text" validate:"required,notblank,max=1000" example:"楽しみにしています"`
}

func (h *CommentHandler) Create(c echo.Context) error {
	var req CommentRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	cm, err := h.service.CreateComment(c.Request().Context(), c.Param("userId"), c.Param("eventId"), req.Text)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toCommentResponse(cm))
}

// Update は作成から15分以内の投稿者だけが編集できる
func (h *CommentHandler) Update(c echo.Context) error {
	var req CommentRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	cm, err := h.service.UpdateComment(c.Request().Context(), c.Param("userId"), c.Param("commentId"), req.Text)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toCommentResponse(cm))
}

func (h *CommentHandler) DeleteOwn(c echo.Context) error {
	if err := h.service.DeleteOwnComment(c.Request().Context(), c.Param("userId"), c.Param("commentId")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *CommentHandler) Delete(c echo.Context) error {
	if err := h.service.DeleteComment(c.Request().Context(), c.Param("commentId")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *CommentHandler) ListByEvent(c echo.Context) error {
	from, size, err := page(c)
	if err != nil {
		return err
	}
	cs, err := h.service.ListEventComments(c.Request().Context(), c.Param("eventId"), from, size)
	if err != nil {
		return err
	}
	out := make([]CommentResponse, len(cs))
	for i, cm := range cs {
		out[i] = toCommentResponse(cm)
	}
	return c.JSON(http.StatusOK, out)
}
