package models

import "strings"

// ProcessingRequest is the input of one pipeline invocation.
// SessionID is supplied by the caller and only used for correlation.
type ProcessingRequest struct {
	ImageURL  string `json:"image_url" binding:"required"`
	SessionID string `json:"session_id" binding:"required"`
}

// SummaryPair holds the short and detailed summaries of a passage
type SummaryPair struct {
	ShortSummary    string `json:"short_summary"`
	DetailedSummary string `json:"detailed_summary"`
}

type Flashcard struct {
	Front string `json:"front"`
	Back  string `json:"back"`
}

// QuizOptionLabels are the answer labels every quiz question carries, in order.
var QuizOptionLabels = []string{"A", "B", "C", "D"}

// QuizQuestion is a four-option multiple choice question
type QuizQuestion struct {
	Question      string            `json:"question"`
	Options       map[string]string `json:"options"`
	CorrectAnswer string            `json:"correct_answer"`
	Explanation   string            `json:"explanation"`
}

// PipelineResult aggregates every artifact produced for one textbook page.
type PipelineResult struct {
	SessionID               string         `json:"session_id"`
	ExtractedText           string         `json:"extracted_text"`
	Topic                   string         `json:"topic"`
	ShortSummary            string         `json:"short_summary"`
	DetailedSummary         string         `json:"detailed_summary"`
	SimplifiedExplanation   string         `json:"simplified_explanation"`
	KeyConcepts             []string       `json:"key_concepts"`
	Flashcards              []Flashcard    `json:"flashcards"`
	QuizQuestions           []QuizQuestion `json:"quiz_questions"`
	WordCount               int            `json:"word_count"`
	EstimatedReadingMinutes int            `json:"estimated_reading_minutes"`
	ProcessingTimeMs        int64          `json:"processing_time_ms"`
}

// WordCount counts whitespace-delimited tokens.
func WordCount(text string) int {
	return len(strings.Fields(text))
}

// EstimateReadingMinutes assumes 200 words per minute, never less than one minute.
func EstimateReadingMinutes(wordCount int) int {
	minutes := wordCount / 200
	if minutes < 1 {
		return 1
	}
	return minutes
}
