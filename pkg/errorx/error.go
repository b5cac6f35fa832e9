package errorx

import "fmt"

type Error struct {
	Code    Code
	Message string
}

func (e Error) Error() string {
	return e.Message
}

// Unknown is returned to the client whenever the real cause must not leak
// outside of the process. The cause is always logged before returning this.
var Unknown = Error{Code: Internal, Message: "Request failed"}

func New(code Code, format string, a ...any) Error {
	return Error{Code: code, Message: fmt.Sprintf(format, a...)}
}
