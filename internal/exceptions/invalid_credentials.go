package exceptions

import "net/http"

var ErrInvalidCredentials = &Exception{
	Message:    "the provided credentials are incorrect",
	StatusCode: http.StatusUnprocessableEntity,
}
