package models

// OCRRequest asks for text extraction only, optionally scored against known text.
type OCRRequest struct {
	ImageURL     string `json:"image_url" binding:"required"`
	ExpectedText string `json:"expected_text,omitempty"`
}

// OCRResponse is returned by the extraction-only endpoint
type OCRResponse struct {
	ExtractedText  string          `json:"extracted_text"`
	WordCount      int             `json:"word_count"`
	CharacterCount int             `json:"character_count"`
	Diagnostics    *OCRDiagnostics `json:"diagnostics,omitempty"`
}

// OCRDiagnostics compares extracted text with a reference transcription
type OCRDiagnostics struct {
	ExpectedText       string  `json:"expected_text"`
	CharacterErrorRate float64 `json:"character_error_rate"`
	WordErrorRate      float64 `json:"word_error_rate"`
	MatchScore         float64 `json:"match_score"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Type    string `json:"type,omitempty"`
	Stage   string `json:"stage,omitempty"`
}

// HealthResponse is served by GET /health
type HealthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
	Version string `json:"version"`
	Time    string `json:"time"`
}
