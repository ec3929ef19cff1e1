package application

import "github.com/sanosuguru/go-event-participation/internal/domain/apperror"

var (
	ErrInvalidSort = apperror.Validation("sort は EVENT_DATE または VIEWS である必要があります",
		apperror.FieldError{Field: "sort", Message: "EVENT_DATE または VIEWS"})
)
