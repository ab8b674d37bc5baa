package entities

import (
	"time"

	"tryon-combine/internal/domain/valueobjects"
)

type TryOnResult struct {
	requestID      TryOnRequestID
	images         []*valueobjects.ImageData
	filteredReason string
	createdAt      time.Time
}

func NewTryOnResult(requestID TryOnRequestID, images []*valueobjects.ImageData) *TryOnResult {
	return &TryOnResult{
		requestID: requestID,
		images:    images,
		createdAt: time.Now(),
	}
}

func (r *TryOnResult) RequestID() TryOnRequestID {
	return r.requestID
}

func (r *TryOnResult) Images() []*valueobjects.ImageData {
	return r.images
}

func (r *TryOnResult) CreatedAt() time.Time {
	return r.createdAt
}

func (r *TryOnResult) HasImages() bool {
	return len(r.images) > 0
}

// FirstImage returns the single generated image, or nil when none came back.
func (r *TryOnResult) FirstImage() *valueobjects.ImageData {
	if len(r.images) == 0 {
		return nil
	}
	return r.images[0]
}

// SetFilteredReason records the responsible-AI reason the model gave for
// withholding an image.
func (r *TryOnResult) SetFilteredReason(reason string) {
	r.filteredReason = reason
}

func (r *TryOnResult) FilteredReason() string {
	return r.filteredReason
}
