package error

import "net/http"

// FieldError 單一欄位的驗證錯誤
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type Error struct {
	httpCode  int
	errorCode int
	errorMsg  string
	errorDesc string
	details   []FieldError
}

func New(httpCode, errorCode int, errorMsg string, errorDesc string) *Error {
	return &Error{
		httpCode:  httpCode,
		errorCode: errorCode,
		errorMsg:  errorMsg,
		errorDesc: errorDesc,
	}

}
func From(err error) *Error {
	if appErr, ok := err.(*Error); ok {
		return appErr
	}
	return InternalServer(err.Error())
}

// ✅ 用戶端錯誤 (400 系列)
func ValidationFailed(details []FieldError) *Error {
	e := New(http.StatusBadRequest, VALIDATION_FAILED, "validation-failed", "one or more fields are invalid")
	e.details = details
	return e
}

func BadRequestBody(errorDesc string) *Error {
	return New(http.StatusBadRequest, BAD_REQUEST_BODY, "bad-request-body", errorDesc)
}

func BadRequestParams(errorDesc string) *Error {
	return New(http.StatusBadRequest, BAD_REQUEST_PARAMS, "bad-request-params", errorDesc)
}

func UnsupportedMediaType(errorDesc string) *Error {
	return New(http.StatusUnsupportedMediaType, UNSUPPORTED_MEDIA_TYPE, "unsupported-media-type", errorDesc)
}

// ✅ 權限錯誤 (401, 403)
func Unauthorized(errorDesc string) *Error {
	return New(http.StatusUnauthorized, UNAUTHORIZED, "unauthorized", errorDesc)
}

func InvalidSession(errorDesc string) *Error {
	return New(http.StatusUnauthorized, INVALID_SESSION, "invalid-session", errorDesc)
}

// AuthFailed 所有帳密失敗都回同一個錯誤，不區分原因
func AuthFailed() *Error {
	return New(http.StatusUnauthorized, AUTH_FAILED, "auth-failed", "invalid email or password")
}

func Forbidden(errorDesc string) *Error {
	return New(http.StatusForbidden, FORBIDDEN, "forbidden", errorDesc)
}

func RateLimitExceeded(errorDesc string) *Error {
	return New(http.StatusTooManyRequests, RATE_LIMIT_EXCEEDED, "rate-limit-exceeded", errorDesc)
}

// ✅ 資源錯誤 (404, 409)
func NotFound(errorDesc string) *Error {
	return New(http.StatusNotFound, NOT_FOUND, "not-found", errorDesc)
}

func Conflict(errorDesc string) *Error {
	return New(http.StatusConflict, CONFLICT, "conflict", errorDesc)
}

func DuplicateEmail() *Error {
	return New(http.StatusConflict, DUPLICATE_EMAIL, "duplicate-email", "email is already registered")
}

// ✅ 伺服器內部錯誤 (500 系列)
func InternalServer(errorDesc string) *Error {
	return New(http.StatusInternalServerError, INTERNAL_ERROR, "internal-server-error", errorDesc)
}

// DatabaseError 不回傳底層錯誤細節
func DatabaseError() *Error {
	return New(http.StatusInternalServerError, DATABASE_ERROR, "database-error", "storage operation failed")
}

func LinkFailed() *Error {
	return New(http.StatusInternalServerError, LINK_FAILED, "link-failed", "could not link external account")
}

func ServiceUnavailable(errorDesc string) *Error {
	return New(http.StatusServiceUnavailable, SERVICE_UNAVAILABLE, "service-unavailable", errorDesc)
}

func (e *Error) HttpCode() int {
	return e.httpCode
}

func (e *Error) ErrorCode() int {
	return e.errorCode
}
func (e *Error) ErrorDesc() string {
	return e.errorDesc
}
func (e *Error) Details() []FieldError {
	return e.details
}
func (e *Error) Error() string {
	return e.errorMsg
}
func MapHttpStatusToError(status int, desc string) *Error {
	switch status {
	case http.StatusBadRequest:
		return BadRequestBody(desc)
	case http.StatusUnauthorized:
		return Unauthorized(desc)
	case http.StatusForbidden:
		return Forbidden(desc)
	case http.StatusNotFound:
		return NotFound(desc)
	case http.StatusConflict:
		return Conflict(desc)
	case http.StatusServiceUnavailable:
		return ServiceUnavailable(desc)
	default:
		return InternalServer(desc)
	}
}
