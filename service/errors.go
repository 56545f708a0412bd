package service

import "errors"

// 业务错误类别，由 api 层映射为 HTTP 状态码
var (
	ErrUnauthorized     = errors.New("unauthorized")      // 401
	ErrForbidden        = errors.New("forbidden")         // 403
	ErrNotFound         = errors.New("not found")         // 404
	ErrConflict         = errors.New("conflict")          // 400
	ErrQuotaExceeded    = errors.New("quota exceeded")    // 400
	ErrInvalidOperation = errors.New("invalid operation") // 400
)

// Error 携带面向用户提示信息的业务错误
type Error struct {
	kind error
	msg  string
}

func (e *Error) Error() string {
	return e.msg
}

// Unwrap 使 errors.Is(err, ErrNotFound) 等判断生效
func (e *Error) Unwrap() error {
	return e.kind
}

func newError(kind error, msg string) *Error {
	return &Error{kind: kind, msg: msg}
}

func unauthorized(msg string) error     { return newError(ErrUnauthorized, msg) }
func forbidden(msg string) error        { return newError(ErrForbidden, msg) }
func notFound(msg string) error         { return newError(ErrNotFound, msg) }
func conflict(msg string) error         { return newError(ErrConflict, msg) }
func quotaExceeded(msg string) error    { return newError(ErrQuotaExceeded, msg) }
func invalidOperation(msg string) error { return newError(ErrInvalidOperation, msg) }
