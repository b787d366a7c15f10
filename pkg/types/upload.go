package types

// FileUpload carries the bytes of one multipart file part into the service
// layer.
type FileUpload struct {
	Filename    string
	ContentType string
	Data        []byte
}

// IsEmpty reports whether the upload has no content.
func (f *FileUpload) IsEmpty() bool {
	return f == nil || len(f.Data) == 0
}
