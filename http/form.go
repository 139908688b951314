package http

import (
	"bytes"
	"io"
	"mime/multipart"
	"net/textproto"
	"strings"
)

// FormData is a multipart/form-data payload. Passed as request data it is
// sent as is: it is not stringified and the merged headers carry no
// Content-Type, so the transport can set one with its own boundary.
type FormData struct {
	parts []formPart
}

type formPart struct {
	name        string
	value       string
	fileName    string
	contentType string
	data        []byte
	reader      io.Reader
	isFile      bool
}

// NewFormData returns an empty payload.
func NewFormData() *FormData {
	return &FormData{}
}

// Append adds a plain field. Fields keep their insertion order.
func (f *FormData) Append(name, value string) *FormData {
	f.parts = append(f.parts, formPart{name: name, value: value})
	return f
}

// AppendFile adds a file field with in-memory content. contentType may be
// empty, in which case application/octet-stream is used.
func (f *FormData) AppendFile(name, fileName, contentType string, data []byte) *FormData {
	f.parts = append(f.parts, formPart{
		name:        name,
		fileName:    fileName,
		contentType: contentType,
		data:        data,
		isFile:      true,
	})
	return f
}

// AppendReader adds a file field read from r when the payload is encoded.
func (f *FormData) AppendReader(name, fileName, contentType string, r io.Reader) *FormData {
	f.parts = append(f.parts, formPart{
		name:        name,
		fileName:    fileName,
		contentType: contentType,
		reader:      r,
		isFile:      true,
	})
	return f
}

// Len returns the number of parts.
func (f *FormData) Len() int {
	return len(f.parts)
}

// Get returns the first plain field named name.
func (f *FormData) Get(name string) (string, bool) {
	for _, p := range f.parts {
		if p.name == name && !p.isFile {
			return p.value, true
		}
	}
	return "", false
}

// Encode writes the multipart body and returns it with the matching
// Content-Type header value.
func (f *FormData) Encode() (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	for _, p := range f.parts {
		if !p.isFile {
			if err := w.WriteField(p.name, p.value); err != nil {
				return nil, "", err
			}
			continue
		}

		var part io.Writer
		var err error
		if p.contentType != "" {
			header := make(textproto.MIMEHeader)
			header.Set("Content-Disposition",
				`form-data; name="`+escapeQuotes(p.name)+`"; filename="`+escapeQuotes(p.fileName)+`"`)
			header.Set("Content-Type", p.contentType)
			part, err = w.CreatePart(header)
		} else {
			part, err = w.CreateFormFile(p.name, p.fileName)
		}
		if err != nil {
			return nil, "", err
		}

		if p.reader != nil {
			if _, err := io.Copy(part, p.reader); err != nil {
				return nil, "", err
			}
		} else if _, err := part.Write(p.data); err != nil {
			return nil, "", err
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return &buf, w.FormDataContentType(), nil
}

var quoteEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`)

func escapeQuotes(s string) string {
	return quoteEscaper.Replace(s)
}
