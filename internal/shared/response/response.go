package response

import (
	"github.com/gin-gonic/gin"
)

// Response is the envelope every endpoint returns. List endpoints fill the
// pagination fields; detail endpoints only set Data.
type Response struct {
	Data          interface{} `json:"data,omitempty"`
	ItemsTotal    *int64      `json:"itemsTotal,omitempty"`
	ItemsFiltered *int64      `json:"itemsFiltered,omitempty"`
	PagesTotal    *int        `json:"pagesTotal,omitempty"`
	Error         *Error      `json:"error,omitempty"`
}

type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func Data(c *gin.Context, statusCode int, data interface{}) {
	c.JSON(statusCode, Response{Data: data})
}

// Paginated returns a list page. pagesTotal is derived from itemsFiltered
// when a filter narrowed the set, from itemsTotal otherwise.
func Paginated(c *gin.Context, statusCode int, data interface{}, itemsTotal int64, itemsFiltered *int64, limit int) {
	effective := itemsTotal
	if itemsFiltered != nil {
		effective = *itemsFiltered
	}
	pagesTotal := 0
	if limit > 0 {
		pagesTotal = int((effective + int64(limit) - 1) / int64(limit))
	}

	c.JSON(statusCode, Response{
		Data:          data,
		ItemsTotal:    &itemsTotal,
		ItemsFiltered: itemsFiltered,
		PagesTotal:    &pagesTotal,
	})
}

func ErrorResponse(c *gin.Context, statusCode int, code, message string) {
	c.JSON(statusCode, Response{
		Error: &Error{
			Code:    code,
			Message: message,
		},
	})
}

func BadRequest(c *gin.Context, message string) {
	ErrorResponse(c, 400, "BAD_REQUEST", message)
}

func Unauthorized(c *gin.Context, message string) {
	ErrorResponse(c, 401, "UNAUTHORIZED", message)
}

func NotFound(c *gin.Context, message string) {
	ErrorResponse(c, 404, "NOT_FOUND", message)
}

func InternalServerError(c *gin.Context, message string) {
	ErrorResponse(c, 500, "INTERNAL_SERVER_ERROR", message)
}
