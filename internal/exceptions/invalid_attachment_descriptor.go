package exceptions

import "net/http"

var ErrInvalidAttachmentDescriptor = &Exception{
	Message:    "attachment must carry exactly one of uuid, file or url",
	StatusCode: http.StatusUnprocessableEntity,
}
