package exceptions

import "net/http"

var ErrAttachmentNotFound = &Exception{
	Message:    "attachment not found",
	StatusCode: http.StatusNotFound,
}
