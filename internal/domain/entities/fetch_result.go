package entities

import "fmt"

type FetchFailureReason string

const (
	FetchInvalidURL  FetchFailureReason = "invalid_url"
	FetchUnreachable FetchFailureReason = "unreachable"
	FetchBadStatus   FetchFailureReason = "bad_status"
	FetchNotImage    FetchFailureReason = "not_image"
	FetchWriteFailed FetchFailureReason = "write_failed"
	FetchTooLarge    FetchFailureReason = "too_large"
)

// FetchFailure explains why a garment URL could not be turned into a local file.
type FetchFailure struct {
	Reason FetchFailureReason
	Err    error
}

func (f *FetchFailure) Error() string {
	return fmt.Sprintf("fetch failed (%s): %v", f.Reason, f.Err)
}

func (f *FetchFailure) Unwrap() error {
	return f.Err
}

// FetchResult is the outcome of downloading a remote image: either Path is set
// or Failure is.
type FetchResult struct {
	Path     string
	MimeType string
	Size     int64
	Failure  *FetchFailure
}

func FetchSucceeded(path, mimeType string, size int64) FetchResult {
	return FetchResult{Path: path, MimeType: mimeType, Size: size}
}

func FetchFailed(reason FetchFailureReason, err error) FetchResult {
	return FetchResult{Failure: &FetchFailure{Reason: reason, Err: err}}
}

func (r FetchResult) OK() bool {
	return r.Failure == nil && r.Path != ""
}
