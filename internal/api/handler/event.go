package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/sanosuguru/go-event-participation/internal/application"
	"github.com/sanosuguru/go-event-participation/internal/domain/apperror"
	"github.com/sanosuguru/go-event-participation/internal/domain/event"
	"github.com/sanosuguru/go-event-participation/internal/pkg/optional"
)

type EventHandler struct {
	eventService EventServiceInterface
}

func NewEventHandler(eventService EventServiceInterface) *EventHandler {
	return &EventHandler{eventService: eventService}
}

type CreateEventRequest struct {
	Title             string          `json:"title" validate:"required,notblank" example:"秋のジャズ演奏会"`
	Annotation        string          `json:"annotation" validate:"required,notblank"`
	Description       string          `json:"description" validate:"required,notblank"`
	Category          string          `json:"category" validate:"required"`
	Location          *event.Location `json:"location" validate:"required"`
	Paid              *bool           `json:"paid"`
	ParticipantLimit  *int            `json:"participantLimit" validate:"omitempty,min=0"`
	RequestModeration *bool           `json:"requestModeration"`
	EventDate         string          `json:"eventDate" validate:"required" example:"2026-12-01 18:00:00"`
}

// UpdateEventRequest は部分更新のリクエスト
// キーが存在しないフィールドは変更しない
type UpdateEventRequest struct {
	Title             optional.Field[string]         `json:"title"`
	Annotation        optional.Field[string]         `json:"annotation"`
	Description       optional.Field[string]         `json:"description"`
	Category          optional.Field[string]         `json:"category"`
	Location          optional.Field[event.Location] `json:"location"`
	Paid              optional.Field[bool]           `json:"paid"`
	ParticipantLimit  optional.Field[int]            `json:"participantLimit"`
	RequestModeration optional.Field[bool]           `json:"requestModeration"`
	EventDate         optional.Field[string]         `json:"eventDate"`
	StateAction       optional.Field[string]         `json:"stateAction"`
}

func (r *UpdateEventRequest) toPatch() (event.Patch, error) {
	p := event.Patch{
		Title:             r.Title,
		Annotation:        r.Annotation,
		Description:       r.Description,
		CategoryID:        r.Category,
		Location:          r.Location,
		Paid:              r.Paid,
		ParticipantLimit:  r.ParticipantLimit,
		RequestModeration: r.RequestModeration,
	}
	p.EventDate = optional.Field[time.Time]{Set: r.EventDate.Set, Null: r.EventDate.Null}
	if v, ok := r.EventDate.Get(); ok {
		t, err := parseDateTime("eventDate", v)
		if err != nil {
			return event.Patch{}, err
		}
		p.EventDate.Value = t
	}
	p.StateAction = optional.Field[event.StateAction]{Set: r.StateAction.Set, Null: r.StateAction.Null}
	if v, ok := r.StateAction.Get(); ok {
		a, ok := event.ParseStateAction(v)
		if !ok {
			return event.Patch{}, apperror.Field("stateAction", "未知のアクションです")
		}
		p.StateAction.Value = a
	}
	return p, nil
}

// Create godoc
// @Summary イベントを作成
// @Tags events
// @Accept json
// @Produce json
// @Param userId path string true "ユーザーID"
// @Param request body CreateEventRequest true "イベント情報"
// @Success 201 {object} EventResponse
// @Failure 400 {object} api.ErrorResponse
// @Failure 404 {object} api.ErrorResponse
// @Router /users/{userId}/events [post]
func (h *EventHandler) Create(c echo.Context) error {
	var req CreateEventRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	eventDate, err := parseDateTime("eventDate", req.EventDate)
	if err != nil {
		return err
	}

	d, err := h.eventService.CreateEvent(c.Request().Context(), application.CreateEventInput{
		UserID:            c.Param("userId"),
		CategoryID:        req.Category,
		Title:             req.Title,
		Annotation:        req.Annotation,
		Description:       req.Description,
		Location:          *req.Location,
		Paid:              req.Paid,
		ParticipantLimit:  req.ParticipantLimit,
		RequestModeration: req.RequestModeration,
		EventDate:         eventDate,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toEventResponse(d))
}

// ListOwn godoc
// @Summary 自分が主催するイベント一覧
// @Tags events
// @Produce json
// @Param userId path string true "ユーザーID"
// @Param states query []string false "状態"
// @Param from query int false "オフセット" default(0)
// @Param size query int false "取得件数" default(10)
// @Success 200 {array} EventResponse
// @Router /users/{userId}/events [get]
func (h *EventHandler) ListOwn(c echo.Context) error {
	input := application.OwnEventsInput{UserID: c.Param("userId")}
	var err error
	if input.States, err = queryStates(c); err != nil {
		return err
	}
	if input.From, input.Size, err = page(c); err != nil {
		return err
	}
	ds, err := h.eventService.ListOwnEvents(c.Request().Context(), input)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toEventResponses(ds))
}

func (h *EventHandler) GetOwn(c echo.Context) error {
	d, err := h.eventService.GetOwnEvent(c.Request().Context(), c.Param("userId"), c.Param("eventId"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toEventResponse(d))
}

// UpdateByOwner godoc
// @Summary 主催者によるイベント更新
// @Description 公開済みのイベントは変更できません。stateAction は SEND_TO_REVIEW か CANCEL_REVIEW
// @Tags events
// @Accept json
// @Produce json
// @Param userId path string true "ユーザーID"
// @Param eventId path string true "イベントID"
// @Param request body UpdateEventRequest true "変更内容"
// @Success 200 {object} EventResponse
// @Failure 409 {object} api.ErrorResponse
// @Router /users/{userId}/events/{eventId} [patch]
func (h *EventHandler) UpdateByOwner(c echo.Context) error {
	var req UpdateEventRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	patch, err := req.toPatch()
	if err != nil {
		return err
	}
	d, err := h.eventService.UpdateEventByOwner(c.Request().Context(), application.UpdateEventByOwnerInput{
		UserID:  c.Param("userId"),
		EventID: c.Param("eventId"),
		Patch:   patch,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toEventResponse(d))
}

// Search godoc
// @Summary 管理者によるイベント検索
// @Tags admin
// @Produce json
// @Param users query []string false "主催者ID"
// @Param states query []string false "状態"
// @Param categories query []string false "カテゴリID"
// @Param rangeStart query string false "yyyy-MM-dd HH:mm:ss"
// @Param rangeEnd query string false "yyyy-MM-dd HH:mm:ss"
// @Success 200 {array} EventResponse
// @Router /admin/events [get]
func (h *EventHandler) Search(c echo.Context) error {
	input := application.AdminSearchInput{
		UserIDs:     queryList(c, "users"),
		CategoryIDs: queryList(c, "categories"),
	}
	var err error
	if input.States, err = queryStates(c); err != nil {
		return err
	}
	if input.RangeStart, err = queryTime(c, "rangeStart"); err != nil {
		return err
	}
	if input.RangeEnd, err = queryTime(c, "rangeEnd"); err != nil {
		return err
	}
	if input.From, input.Size, err = page(c); err != nil {
		return err
	}

	ds, err := h.eventService.SearchEvents(c.Request().Context(), input)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toEventResponses(ds))
}

// UpdateByAdmin godoc
// @Summary 管理者によるイベント更新と公開・却下
// @Description stateAction は PUBLISH_EVENT か REJECT_EVENT
// @Tags admin
// @Accept json
// @Produce json
// @Param eventId path string true "イベントID"
// @Param request body UpdateEventRequest true "変更内容"
// @Success 200 {object} EventResponse
// @Failure 409 {object} api.ErrorResponse
// @Router /admin/events/{eventId} [patch]
func (h *EventHandler) UpdateByAdmin(c echo.Context) error {
	var req UpdateEventRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	patch, err := req.toPatch()
	if err != nil {
		return err
	}
	d, err := h.eventService.UpdateEventByAdmin(c.Request().Context(), application.UpdateEventByAdminInput{
		EventID: c.Param("eventId"),
		Patch:   patch,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toEventResponse(d))
}

// ListPublished godoc
// @Summary 公開イベントの検索
// @Description 呼び出しごとに統計サービスへアクセスを記録します
// @Tags public
// @Produce json
// @Param text query string false "概要と説明の検索語"
// @Param categories query []string false "カテゴリID"
// @Param paid query bool false "有料か"
// @Param rangeStart query string false "yyyy-MM-dd HH:mm:ss"
// @Param rangeEnd query string false "yyyy-MM-dd HH:mm:ss"
// @Param onlyAvailable query bool false "空きがあるもののみ" default(false)
// @Param sort query string false "EVENT_DATE または VIEWS"
// @Success 200 {array} EventResponse
// @Failure 400 {object} api.ErrorResponse
// @Router /events [get]
func (h *EventHandler) ListPublished(c echo.Context) error {
	input := application.PublicSearchInput{
		Text:        c.QueryParam("text"),
		CategoryIDs: queryList(c, "categories"),
		Sort:        c.QueryParam("sort"),
		ClientIP:    c.RealIP(),
		URI:         c.Request().URL.Path,
	}
	var err error
	if input.Paid, err = queryBool(c, "paid"); err != nil {
		return err
	}
	onlyAvailable, err := queryBool(c, "onlyAvailable")
	if err != nil {
		return err
	}
	input.OnlyAvailable = onlyAvailable != nil && *onlyAvailable
	if input.RangeStart, err = queryTime(c, "rangeStart"); err != nil {
		return err
	}
	if input.RangeEnd, err = queryTime(c, "rangeEnd"); err != nil {
		return err
	}
	if input.From, input.Size, err = page(c); err != nil {
		return err
	}

	ds, err := h.eventService.ListPublishedEvents(c.Request().Context(), input)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toEventResponses(ds))
}

// GetPublished godoc
// @Summary 公開イベントを取得
// @Tags public
// @Produce json
// @Param eventId path string true "イベントID"
// @Success 200 {object} EventResponse
// @Failure 404 {object} api.ErrorResponse
// @Router /events/{eventId} [get]
func (h *EventHandler) GetPublished(c echo.Context) error {
	d, err := h.eventService.GetPublishedEvent(c.Request().Context(), c.Param("eventId"), c.RealIP(), c.Request().URL.Path)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toEventResponse(d))
}
