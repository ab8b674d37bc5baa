package entities

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"tryon-combine/internal/domain/valueobjects"
)

type TryOnRequestID string

// NewTryOnRequestID returns a fresh identifier. Temp filenames are derived
// from it so concurrent requests never share a path.
func NewTryOnRequestID() TryOnRequestID {
	return TryOnRequestID(uuid.NewString())
}

type TryOnRequest struct {
	id          TryOnRequestID
	personPath  string
	garmentPath string
	parameters  *valueobjects.TryOnParameters
	createdAt   time.Time
}

func NewTryOnRequest(
	id TryOnRequestID,
	personPath string,
	garmentPath string,
	parameters *valueobjects.TryOnParameters,
) (*TryOnRequest, error) {
	if id == "" {
		return nil, fmt.Errorf("request id is required")
	}

	if personPath == "" {
		return nil, fmt.Errorf("person image is required")
	}

	if garmentPath == "" {
		return nil, fmt.Errorf("garment image is required")
	}

	if parameters == nil {
		parameters = valueobjects.DefaultTryOnParameters()
	}

	return &TryOnRequest{
		id:          id,
		personPath:  personPath,
		garmentPath: garmentPath,
		parameters:  parameters,
		createdAt:   time.Now(),
	}, nil
}

func (r *TryOnRequest) ID() TryOnRequestID {
	return r.id
}

func (r *TryOnRequest) PersonPath() string {
	return r.personPath
}

func (r *TryOnRequest) GarmentPath() string {
	return r.garmentPath
}

func (r *TryOnRequest) Parameters() *valueobjects.TryOnParameters {
	return r.parameters
}

func (r *TryOnRequest) CreatedAt() time.Time {
	return r.createdAt
}

// LoadImages reads both inputs from disk. The bytes are forwarded unchanged;
// decoding only checks that each file is a supported image.
func (r *TryOnRequest) LoadImages() (person, garment *valueobjects.ImageData, err error) {
	person, err = valueobjects.LoadImageData(r.personPath)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid person image: %w", err)
	}

	garment, err = valueobjects.LoadImageData(r.garmentPath)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid garment image: %w", err)
	}

	return person, garment, nil
}
