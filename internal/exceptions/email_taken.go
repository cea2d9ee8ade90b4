package exceptions

import "net/http"

var ErrEmailTaken = &Exception{
	Message:    "email is already registered",
	StatusCode: http.StatusUnprocessableEntity,
}
