package services

import (
	"errors"
	"mime/multipart"
	"net/http"
	"strings"

	"tryon-combine/internal/application/usecases"
	"tryon-combine/internal/domain/apperror"
)

const (
	PersonField        = "person_upload"
	ProductUploadField = "product_upload"
	ProductURLField    = "product_url"
)

// FormService turns a /combine multipart request into a TryOnInput.
type FormService struct {
	maxBytes int64
}

func NewFormService(maxBytes int64) *FormService {
	return &FormService{maxBytes: maxBytes}
}

// ParseCombineForm validates the request in the same order the endpoint
// always has: person file, then garment source, then person filename.
// The returned release func closes the opened parts and must always be called.
func (s *FormService) ParseCombineForm(w http.ResponseWriter, r *http.Request) (*usecases.TryOnInput, func(), error) {
	release := func() {
		if r.MultipartForm != nil {
			r.MultipartForm.RemoveAll()
		}
	}

	r.Body = http.MaxBytesReader(w, r.Body, s.maxBytes)
	if err := r.ParseMultipartForm(s.maxBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) || strings.Contains(err.Error(), "request body too large") {
			return nil, release, apperror.New(apperror.PayloadTooLarge, "Upload is too large", err)
		}
		if errors.Is(err, http.ErrNotMultipart) || errors.Is(err, http.ErrMissingBoundary) {
			return nil, release, apperror.New(apperror.MissingPersonImage, "No person image uploaded", err)
		}
		return nil, release, apperror.New(apperror.InvalidUpload, "Invalid multipart form", err)
	}

	// A file part sent with filename="" is stored as a plain value, so a
	// person part without a name never shows up in MultipartForm.File.
	personFile, personHeader, err := r.FormFile(PersonField)
	personUnnamed := false
	if err != nil {
		if !hasValue(r.MultipartForm, PersonField) {
			return nil, release, apperror.New(apperror.MissingPersonImage, "No person image uploaded", err)
		}
		personUnnamed = true
	}

	var closers []multipart.File
	if personFile != nil {
		closers = append(closers, personFile)
	}
	release = func() {
		for _, f := range closers {
			f.Close()
		}
		r.MultipartForm.RemoveAll()
	}

	productURL := strings.TrimSpace(r.FormValue(ProductURLField))

	var garment *usecases.UploadedImage
	if productFile, productHeader, err := r.FormFile(ProductUploadField); err == nil {
		closers = append(closers, productFile)
		// An empty file input is submitted with no filename; treat it as absent.
		if productHeader.Filename != "" {
			garment = &usecases.UploadedImage{Filename: productHeader.Filename, Content: productFile}
		}
	}

	if garment == nil && productURL == "" {
		return nil, release, apperror.New(apperror.MissingGarmentImage, "No product image or URL provided", nil)
	}

	if personUnnamed || personHeader.Filename == "" {
		return nil, release, apperror.New(apperror.EmptyFilename, "No selected person file", nil)
	}

	return &usecases.TryOnInput{
		Person:     &usecases.UploadedImage{Filename: personHeader.Filename, Content: personFile},
		Garment:    garment,
		GarmentURL: productURL,
	}, release, nil
}

func hasValue(form *multipart.Form, field string) bool {
	if form == nil {
		return false
	}
	_, ok := form.Value[field]
	return ok
}
