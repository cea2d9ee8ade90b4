package exceptions

import "net/http"

var ErrAttachmentSourceUnreachable = &Exception{
	Message:    "attachment source could not be fetched",
	StatusCode: http.StatusBadGateway,
}
