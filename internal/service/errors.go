package service

type ErrorCode string

const (
	ErrorCodeTeamExists   ErrorCode = "TEAM_EXISTS"
	ErrorCodeNotFound     ErrorCode = "NOT_FOUND"
	ErrorCodeNotUnique    ErrorCode = "NOT_UNIQUE"
	ErrorCodeInvalidQuery ErrorCode = "INVALID_QUERY"
	ErrorCodeUnspecified  ErrorCode = "UNSPECIFIED"
	ErrorCodeInvalidBody  ErrorCode = "INVALID_BODY"
	ErrorCodeUnauthorized ErrorCode = "UNAUTHORIZED"
	ErrorCodeForbidden    ErrorCode = "FORBIDDEN"
)

type Error struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

func NewError(code ErrorCode, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
	}
}

func (e *Error) Error() string {
	return e.Message
}
