package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sanosuguru/go-event-participation/internal/application"
	"github.com/sanosuguru/go-event-participation/internal/domain/apperror"
)

type RequestHandler struct {
	service RequestServiceInterface
}

func NewRequestHandler(s RequestServiceInterface) *RequestHandler {
	return &RequestHandler{service: s}
}

type ModerateRequestsRequest struct {
	RequestIDs []string `json:"requestIds" validate:"required,min=1"`
	Status     string   `json:"status" validate:"required,oneof=CONFIRMED REJECTED" example:"CONFIRMED"`
}

// Create godoc
// @Summary 参加リクエストを作成
// @Description 参加上限0または事前承認なしのイベントでは即時に確定します
// @Tags requests
// @Produce json
// @Param userId path string true "ユーザーID"
// @Param eventId query string true "イベントID"
// @Success 201 {object} RequestResponse
// @Failure 409 {object} api.ErrorResponse "重複、満席、未公開、自分のイベント"
// @Router /users/{userId}/requests [post]
func (h *RequestHandler) Create(c echo.Context) error {
	eventID := c.QueryParam("eventId")
	if eventID == "" {
		return apperror.Field("eventId", "必須です")
	}
	pr, err := h.service.CreateRequest(c.Request().Context(), c.Param("userId"), eventID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toRequestResponse(pr))
}

func (h *RequestHandler) ListOwn(c echo.Context) error {
	rs, err := h.service.ListOwnRequests(c.Request().Context(), c.Param("userId"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toRequestResponses(rs))
}

// Cancel は自分のリクエストを取り消す。取り消し済みでも成功する
func (h *RequestHandler) Cancel(c echo.Context) error {
	pr, err := h.service.CancelRequest(c.Request().Context(), c.Param("userId"), c.Param("requestId"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toRequestResponse(pr))
}

func (h *RequestHandler) ListForEvent(c echo.Context) error {
	rs, err := h.service.ListEventRequests(c.Request().Context(), c.Param("userId"), c.Param("eventId"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toRequestResponses(rs))
}

// Moderate godoc
// @Summary 参加リクエストの一括承認・却下
// @Description 1件でも処理できなければ何も変更しません
// @Tags requests
// @Accept json
// @Produce json
// @Param userId path string true "ユーザーID"
// @Param eventId path string true "イベントID"
// @Param request body ModerateRequestsRequest true "対象と目標状態"
// @Success 200 {object} ModerationResponse
// @Failure 409 {object} api.ErrorResponse "上限超過、承認待ちでないリクエスト"
// @Router /users/{userId}/events/{eventId}/requests [patch]
func (h *RequestHandler) Moderate(c echo.Context) error {
	var req ModerateRequestsRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	result, err := h.service.ModerateRequests(c.Request().Context(), application.ModerateRequestsInput{
		UserID:     c.Param("userId"),
		EventID:    c.Param("eventId"),
		RequestIDs: req.RequestIDs,
		Status:     req.Status,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toModerationResponse(result))
}
