package api

// Response — единый конверт всех ответов сервера.
// Status всегда вычисляется как StatusCode < 400: одна фиксированная
// полярность для успеха и ошибок.
type Response struct {
	StatusCode int    `json:"statusCode"`
	Status     bool   `json:"status"`
	Message    string `json:"message"`
	Data       any    `json:"data,omitempty"`
}

// NewResponse собирает конверт, выставляя Status из кода
func NewResponse(statusCode int, message string, data any) Response {
	return Response{
		StatusCode: statusCode,
		Status:     statusCode < 400,
		Message:    message,
		Data:       data,
	}
}
