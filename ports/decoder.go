package ports

// UploadDecoder turns uploaded file content into the byte stream to analyze
type UploadDecoder interface {
	Decode(filename, contentType string, content []byte) ([]byte, error)
}
