package exceptions

import "net/http"

var ErrUnknownAttachmentReference = &Exception{
	Message:    "attachment reference does not match any existing attachment",
	StatusCode: http.StatusUnprocessableEntity,
}
