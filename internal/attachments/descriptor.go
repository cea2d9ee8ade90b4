package attachments

import (
	"task-manager.com/task-manager/internal/exceptions"
)

// FilePayload is the raw content of an uploaded file.
type FilePayload struct {
	Name    string
	Content []byte
}

// Descriptor is one desired attachment in an update or create request:
// either a reference to an existing attachment by UUID ("keep") or a
// request to materialize a new one from a file payload or a source URL
// ("create"). Ambiguous combinations are rejected at construction, so a
// Descriptor value is always well-formed.
type Descriptor struct {
	uuid      string
	file      *FilePayload
	sourceURL string
	order     int
}

const DefaultOrder = 1

func NewKeep(uuid string, order int) (Descriptor, error) {
	if uuid == "" {
		return Descriptor{}, exceptions.ErrInvalidAttachmentDescriptor
	}
	if order <= 0 {
		order = DefaultOrder
	}
	return Descriptor{uuid: uuid, order: order}, nil
}

func NewCreate(file *FilePayload, sourceURL string, order int) (Descriptor, error) {
	if (file == nil) == (sourceURL == "") {
		return Descriptor{}, exceptions.ErrInvalidAttachmentDescriptor
	}
	if file != nil && (file.Name == "" || len(file.Content) == 0) {
		return Descriptor{}, exceptions.ErrInvalidAttachmentDescriptor
	}
	if order <= 0 {
		order = DefaultOrder
	}
	return Descriptor{file: file, sourceURL: sourceURL, order: order}, nil
}

func (d Descriptor) IsKeep() bool {
	return d.uuid != ""
}

func (d Descriptor) UUID() string {
	return d.uuid
}

func (d Descriptor) File() *FilePayload {
	return d.file
}

func (d Descriptor) SourceURL() string {
	return d.sourceURL
}

func (d Descriptor) Order() int {
	return d.order
}
