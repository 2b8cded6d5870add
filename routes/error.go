package routes

type RouteErrorType int

const (
	NOT_FOUND RouteErrorType = 1
	BAD_REQUEST RouteErrorType = 2
	OTHER_ERROR RouteErrorType = 3
)

type RouteError struct {
	ErrorType RouteErrorType
	ErrorMsg string
}

func (re *RouteError) Error() string {
	return re.ErrorMsg
}

func NewRouteError(t RouteErrorType, msg string) *RouteError {
	return &RouteError{
		ErrorType: t,
		ErrorMsg: msg,
	}
}
