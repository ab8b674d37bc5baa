package repositories

// AIClientConfig identifies the Vertex AI project, region and model the
// try-on backends talk to.
type AIClientConfig struct {
	ProjectID string
	Location  string
	Model     string
}
