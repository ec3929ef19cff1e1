package handler

import (
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/sanosuguru/go-event-participation/internal/application"
	"github.com/sanosuguru/go-event-participation/internal/domain/apperror"
	"github.com/sanosuguru/go-event-participation/internal/domain/category"
	"github.com/sanosuguru/go-event-participation/internal/domain/comment"
	"github.com/sanosuguru/go-event-participation/internal/domain/event"
	"github.com/sanosuguru/go-event-participation/internal/domain/request"
	"github.com/sanosuguru/go-event-participation/internal/domain/user"
)

// DateTimeLayout はAPIでやり取りする日時の書式
const DateTimeLayout = "2006-01-02 15:04:05"

type EventResponse struct {
	ID                string         `json:"id" example:"550e8400-e29b-41d4-a716-446655440000"`
	Title             string         `json:"title" example:"秋のジャズ演奏会"`
	Annotation        string         `json:"annotation"`
	Description       string         `json:"description"`
	Category          string         `json:"category"`
	Initiator         string         `json:"initiator"`
	Location          event.Location `json:"location"`
	Paid              bool           `json:"paid"`
	ParticipantLimit  int            `json:"participantLimit"`
	RequestModeration bool           `json:"requestModeration"`
	EventDate         string         `json:"eventDate" example:"2026-12-01 18:00:00"`
	CreatedOn         string         `json:"createdOn"`
	PublishedOn       *string        `json:"publishedOn,omitempty"`
	State             string         `json:"state" example:"PENDING"`
	ConfirmedRequests int            `json:"confirmedRequests"`
	Views             int64          `json:"views"`
}

func toEventResponse(d *application.EventDetails) *EventResponse {
	e := d.Event
	resp := &EventResponse{
		ID:                e.ID,
		Title:             e.Title,
		Annotation:        e.Annotation,
		Description:       e.Description,
		Category:          e.CategoryID,
		Initiator:         e.InitiatorID,
		Location:          e.Location,
		Paid:              e.Paid,
		ParticipantLimit:  e.ParticipantLimit,
		RequestModeration: e.RequestModeration,
		EventDate:         e.EventDate.Format(DateTimeLayout),
		CreatedOn:         e.CreatedOn.Format(DateTimeLayout),
		State:             string(e.State),
		ConfirmedRequests: d.ConfirmedRequests,
		Views:             d.Views,
	}
	if e.PublishedOn != nil {
		s := e.PublishedOn.Format(DateTimeLayout)
		resp.PublishedOn = &s
	}
	return resp
}

func toEventResponses(ds []*application.EventDetails) []*EventResponse {
	out := make([]*EventResponse, len(ds))
	for i, d := range ds {
		out[i] = toEventResponse(d)
	}
	return out
}

type RequestResponse struct {
	ID        string `json:"id"`
	Event     string `json:"event"`
	Requester string `json:"requester"`
	Created   string `json:"created"`
	Status    string `json:"status" example:"PENDING"`
}

func toRequestResponse(pr *request.ParticipationRequest) RequestResponse {
	return RequestResponse{
		ID:        pr.ID,
		Event:     pr.EventID,
		Requester: pr.RequesterID,
		Created:   pr.Created.Format(DateTimeLayout),
		Status:    string(pr.Status),
	}
}

func toRequestResponses(rs []*request.ParticipationRequest) []RequestResponse {
	out := make([]RequestResponse, len(rs))
	for i, pr := range rs {
		out[i] = toRequestResponse(pr)
	}
	return out
}

type ModerationResponse struct {
	ConfirmedRequests []RequestResponse `json:"confirmedRequests"`
	RejectedRequests  []RequestResponse `json:"rejectedRequests"`
}

func toModerationResponse(r *request.ModerationResult) ModerationResponse {
	return ModerationResponse{
		ConfirmedRequests: toRequestResponses(r.Confirmed),
		RejectedRequests:  toRequestResponses(r.Rejected),
	}
}

type CommentResponse struct {
	ID      string  `json:"id"`
	Event   string  `json:"event"`
	Author  string  `json:"author"`
	Text    string  `json:"text"`
	Created string  `json:"created"`
	Updated *string `json:"updated,omitempty"`
}

func toCommentResponse(c *comment.Comment) CommentResponse {
	resp := CommentResponse{
		ID:      c.ID,
		Event:   c.EventID,
		Author:  c.AuthorID,
		Text:    c.Text,
		Created: c.Created.Format(DateTimeLayout),
	}
	if c.Updated != nil {
		s := c.Updated.Format(DateTimeLayout)
		resp.Updated = &s
	}
	return resp
}

type UserResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

func toUserResponse(u *user.User) UserResponse {
	return UserResponse{ID: u.ID, Name: u.Name, Email: u.Email}
}

type CategoryResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func toCategoryResponse(c *category.Category) CategoryResponse {
	return CategoryResponse{ID: c.ID, Name: c.Name}
}

// bind はリクエストボディを読み込み、検証する
func bind(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		return apperror.Validation("リクエストの形式が不正です")
	}
	return c.Validate(req)
}

func parseDateTime(field, v string) (time.Time, error) {
	t, err := time.ParseInLocation(DateTimeLayout, v, time.UTC)
	if err != nil {
		return time.Time{}, apperror.Field(field, "yyyy-MM-dd HH:mm:ss 形式である必要があります")
	}
	return t, nil
}

// queryTime は未指定なら nil を返す
func queryTime(c echo.Context, name string) (*time.Time, error) {
	v := c.QueryParam(name)
	if v == "" {
		return nil, nil
	}
	t, err := parseDateTime(name, v)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func queryInt(c echo.Context, name string, def int) (int, error) {
	v := c.QueryParam(name)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, apperror.Field(name, "整数である必要があります")
	}
	return n, nil
}

func queryBool(c echo.Context, name string) (*bool, error) {
	v := c.QueryParam(name)
	if v == "" {
		return nil, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return nil, apperror.Field(name, "true または false である必要があります")
	}
	return &b, nil
}

// queryList は ?ids=a,b と ?ids=a&ids=b の両方を受け付ける
func queryList(c echo.Context, name string) []string {
	var out []string
	for _, v := range c.QueryParams()[name] {
		for _, s := range strings.Split(v, ",") {
			if s = strings.TrimSpace(s); s != "" {
				out = append(out, s)
			}
		}
	}
	return out
}

// page は from と size を読み取る
func page(c echo.Context) (from, size int, err error) {
	if from, err = queryInt(c, "from", 0); err != nil {
		return 0, 0, err
	}
	if size, err = queryInt(c, "size", event.DefaultPageSize); err != nil {
		return 0, 0, err
	}
	if from < 0 {
		return 0, 0, apperror.Field("from", "0以上である必要があります")
	}
	if size <= 0 {
		return 0, 0, apperror.Field("size", "1以上である必要があります")
	}
	return from, size, nil
}

// queryStates は states クエリをイベント状態に変換する
func queryStates(c echo.Context) ([]event.State, error) {
	var states []event.State
	for _, s := range queryList(c, "states") {
		state, ok := event.ParseState(s)
		if !ok {
			return nil, apperror.Field("states", "未知の状態です: "+s)
		}
		states = append(states, state)
	}
	return states, nil
}
