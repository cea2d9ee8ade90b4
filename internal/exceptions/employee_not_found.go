package exceptions

import "net/http"

var ErrEmployeeNotFound = &Exception{
	Message:    "employee does not exist",
	StatusCode: http.StatusUnprocessableEntity,
}
