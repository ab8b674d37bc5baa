package model

// VirtualTryOnResponse represents the response structure from Google's Virtual Try-On API
type VirtualTryOnResponse struct {
	Predictions []Prediction `json:"predictions"`
}

// Prediction represents a single prediction result
type Prediction struct {
	MimeType           string `json:"mimeType"`
	BytesBase64Encoded string `json:"bytesBase64Encoded"`
	// Set instead of the image bytes when the safety filter withheld the output.
	RaiFilteredReason string                 `json:"raiFilteredReason,omitempty"`
	SafetyAttributes  map[string]interface{} `json:"safetyAttributes,omitempty"`
}

// FilteredReason returns the first responsible-AI reason in the response, if any.
func (r *VirtualTryOnResponse) FilteredReason() string {
	for _, p := range r.Predictions {
		if p.RaiFilteredReason != "" {
			return p.RaiFilteredReason
		}
	}
	return ""
}

// ErrorResponse is the JSON body returned to clients on failure.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}
