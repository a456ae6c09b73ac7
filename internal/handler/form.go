package handler

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"doemais/internal/domain"
	"doemais/internal/service"
)

// maxUploadMemory is the in-memory threshold for parsing multipart bodies.
const maxUploadMemory = 32 << 20 // 32MB

func isMultipart(r *http.Request) bool {
	return strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data")
}

// readUpload loads one multipart file part into memory.
func readUpload(fh *multipart.FileHeader) (service.Upload, error) {
	f, err := fh.Open()
	if err != nil {
		return service.Upload{}, fmt.Errorf("open upload: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return service.Upload{}, fmt.Errorf("read upload: %w", err)
	}

	contentType := fh.Header.Get("Content-Type")
	if contentType == "" {
		contentType = http.DetectContentType(data)
	}

	return service.Upload{
		Filename:    fh.Filename,
		ContentType: contentType,
		Data:        data,
	}, nil
}

// formUploads reads every file part submitted under the given field name.
// The request's multipart form must already be parsed.
func formUploads(r *http.Request, field string) ([]service.Upload, error) {
	if r.MultipartForm == nil {
		return nil, nil
	}
	var uploads []service.Upload
	for _, fh := range r.MultipartForm.File[field] {
		up, err := readUpload(fh)
		if err != nil {
			return nil, err
		}
		uploads = append(uploads, up)
	}
	return uploads, nil
}

// formUpload reads an optional single file part.
func formUpload(r *http.Request, field string) (*service.Upload, error) {
	uploads, err := formUploads(r, field)
	if err != nil {
		return nil, err
	}
	if len(uploads) == 0 {
		return nil, nil
	}
	return &uploads[0], nil
}

// parseDate accepts RFC 3339 timestamps or plain YYYY-MM-DD dates.
func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: purchase date must be an RFC 3339 timestamp or YYYY-MM-DD", domain.ErrInvalidInput)
	}
	return t, nil
}

// productInputFromRequest builds a ProductInput from either a multipart form
// (scalar fields plus "images" file parts) or a plain JSON body.
func productInputFromRequest(r *http.Request) (service.ProductInput, error) {
	var in service.ProductInput
	var purchased string

	if isMultipart(r) {
		if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
			return in, fmt.Errorf("%w: invalid multipart body", domain.ErrInvalidInput)
		}
		in.Name = r.FormValue("name")
		in.Description = r.FormValue("description")
		in.State = domain.ProductState(r.FormValue("state"))
		purchased = r.FormValue("purchased_at")

		uploads, err := formUploads(r, "images")
		if err != nil {
			return in, err
		}
		in.Uploads = uploads
	} else {
		var req struct {
			Name        string `json:"name"`
			Description string `json:"description"`
			State       string `json:"state"`
			PurchasedAt string `json:"purchased_at"`
		}
		if err := readJSON(r, &req); err != nil {
			return in, fmt.Errorf("%w: invalid request body", domain.ErrInvalidInput)
		}
		in.Name = req.Name
		in.Description = req.Description
		in.State = domain.ProductState(req.State)
		purchased = req.PurchasedAt
	}

	if purchased != "" {
		t, err := parseDate(purchased)
		if err != nil {
			return in, err
		}
		in.PurchasedAt = &t
	}
	return in, nil
}
