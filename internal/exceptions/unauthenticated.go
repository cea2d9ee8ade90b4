package exceptions

import "net/http"

var ErrUnauthenticated = &Exception{
	Message:    "unauthenticated",
	StatusCode: http.StatusUnauthorized,
}
