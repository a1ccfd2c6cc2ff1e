package handlers

const (
	ErrInvalidFormData     = "Invalid form data"
	ErrUnauthorized        = "Unauthorized"
	ErrForbidden           = "Forbidden"
	ErrTooManyRequests     = "Too many requests"
	ErrInternalServerError = "Internal server error"

	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)
