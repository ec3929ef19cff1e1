package handler

import "github.com/labstack/echo/v4"

// Handlers はルーティングに登録するハンドラー一式
type Handlers struct {
	Event     *EventHandler
	Request   *RequestHandler
	Comment   *CommentHandler
	Directory *DirectoryHandler
	Health    *HealthHandler
}

// RegisterRoutes は全エンドポイントを登録する
func RegisterRoutes(e *echo.Echo, h Handlers) {
	e.GET("/health", h.Health.Check)

	// 公開API
	e.GET("/events", h.Event.ListPublished)
	e.GET("/events/:eventId", h.Event.GetPublished)
	e.GET("/events/:eventId/comments", h.Comment.ListByEvent)
	e.GET("/categories", h.Directory.ListCategories)
	e.GET("/categories/:catId", h.Directory.GetCategory)

	// 利用者API
	u := e.Group("/users/:userId")
	u.POST("/events", h.Event.Create)
	u.GET("/events", h.Event.ListOwn)
	u.GET("/events/:eventId", h.Event.GetOwn)
	u.PATCH("/events/:eventId", h.Event.UpdateByOwner)
	u.GET("/events/:eventId/requests", h.Request.ListForEvent)
	u.PATCH("/events/:eventId/requests", h.Request.Moderate)
	u.POST("/events/:eventId/comments", h.Comment.Create)

	u.POST("/requests", h.Request.Create)
	u.GET("/requests", h.Request.ListOwn)
	u.PATCH("/requests/:requestId/cancel", h.Request.Cancel)

	u.PATCH("/comments/:commentId", h.Comment.Update)
	u.DELETE("/comments/:commentId", h.Comment.DeleteOwn)

	// 管理者API
	a := e.Group("/admin")
	a.GET("/events", h.Event.Search)
	a.PATCH("/events/:eventId", h.Event.UpdateByAdmin)
	a.DELETE("/comments/:commentId", h.Comment.Delete)
	a.POST("/users", h.Directory.CreateUser)
	a.GET("/users", h.Directory.ListUsers)
	a.POST("/categories", h.Directory.CreateCategory)
}
