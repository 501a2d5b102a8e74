package model

// FetchResult is the metadata extracted from a paper URL. Failures are reported in
// Success and Error rather than as errors.
type FetchResult struct {
	Title    string `json:"title"`
	Abstract string `json:"abstract"`
	Success  bool   `json:"success"`
	Error    string `json:"error,omitempty"`
}
