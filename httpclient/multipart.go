package httpclient

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
)

// FileUpload is one file part of a MultipartBody.
type FileUpload struct {
	// FieldName is the form field name, e.g. "document".
	FieldName string

	// FileName is the name sent for the file, e.g. "report.pdf".
	FileName string

	// Path is read when the body is encoded. Ignored when Reader is set.
	Path string

	Reader io.Reader
}

// MultipartBody is a multipart/form-data request body. Pass it as
// RequestSpec.Body or build it through RequestBuilder.File and FormField.
//
// The body is encoded once, when the request is prepared, so file paths are
// read before the first attempt and every retry sends the same bytes.
type MultipartBody struct {
	fields *Mapping[string]
	files  []FileUpload
}

// NewMultipartBody creates an empty multipart body.
func NewMultipartBody() *MultipartBody {
	return &MultipartBody{fields: NewMapping[string]()}
}

// Field sets a form field. Fields are written in insertion order.
func (mb *MultipartBody) Field(key, value string) *MultipartBody {
	mb.fields.Set(key, value)
	return mb
}

// File adds the file at path under fieldName.
func (mb *MultipartBody) File(fieldName, path string) *MultipartBody {
	mb.files = append(mb.files, FileUpload{
		FieldName: fieldName,
		FileName:  filepath.Base(path),
		Path:      path,
	})
	return mb
}

// FileReader adds in-memory file content under fieldName.
func (mb *MultipartBody) FileReader(fieldName, fileName string, r io.Reader) *MultipartBody {
	mb.files = append(mb.files, FileUpload{
		FieldName: fieldName,
		FileName:  fileName,
		Reader:    r,
	})
	return mb
}

func (mb *MultipartBody) encode() ([]byte, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	for _, it := range mb.fields.Items() {
		if err := w.WriteField(it.Key, it.Value); err != nil {
			return nil, "", err
		}
	}

	for _, f := range mb.files {
		if err := writeFilePart(w, f); err != nil {
			return nil, "", fmt.Errorf("multipart file %q: %w", f.FieldName, err)
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return buf.Bytes(), w.FormDataContentType(), nil
}

func writeFilePart(w *multipart.Writer, f FileUpload) error {
	r := f.Reader
	if r == nil {
		file, err := os.Open(f.Path)
		if err != nil {
			return err
		}
		defer file.Close()
		r = file
	}

	part, err := w.CreateFormFile(f.FieldName, f.FileName)
	if err != nil {
		return err
	}
	_, err = io.Copy(part, r)
	return err
}

// File adds a file upload from a path and switches the body to multipart.
//
//	resp, err := client.Request().
//	    File("document", "/path/to/report.pdf").
//	    FormField("title", "Q4 Report").
//	    Post(ctx, "upload")
func (rb *RequestBuilder) File(fieldName, path string) *RequestBuilder {
	rb.multipart().File(fieldName, path)
	return rb
}

// FileReader adds a file upload from r and switches the body to multipart.
func (rb *RequestBuilder) FileReader(fieldName, fileName string, r io.Reader) *RequestBuilder {
	rb.multipart().FileReader(fieldName, fileName, r)
	return rb
}

// FormField adds a multipart form field.
func (rb *RequestBuilder) FormField(key, value string) *RequestBuilder {
	rb.multipart().Field(key, value)
	return rb
}

func (rb *RequestBuilder) multipart() *MultipartBody {
	if mb, ok := rb.body.(*MultipartBody); ok {
		return mb
	}
	mb := NewMultipartBody()
	rb.body = mb
	return mb
}
