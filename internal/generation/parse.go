package generation

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/anime-shed/study-worker-go/pkg/models"
)

var errEmptyResponse = errors.New("empty response")

// stripFences removes markdown code fence markers a model may wrap JSON in.
func stripFences(content string) string {
	content = strings.ReplaceAll(content, "```json", "")
	content = strings.ReplaceAll(content, "```", "")
	return strings.TrimSpace(content)
}

// decodeStrict decodes exactly one JSON value from content.
func decodeStrict(content string, v any) error {
	content = stripFences(content)
	if content == "" {
		return errEmptyResponse
	}
	dec := json.NewDecoder(strings.NewReader(content))
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return fmt.Errorf("invalid JSON: unexpected data after value")
	}
	return nil
}

func parseTopic(content string) (string, error) {
	topic := strings.Trim(strings.TrimSpace(content), `"'`)
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return "", errEmptyResponse
	}
	return topic, nil
}

func parseExplanation(content string) (string, error) {
	explanation := strings.TrimSpace(content)
	if explanation == "" {
		return "", errEmptyResponse
	}
	return explanation, nil
}

func parseSummary(content string) (models.SummaryPair, error) {
	var raw struct {
		ShortSummary    *string `json:"short_summary"`
		DetailedSummary *string `json:"detailed_summary"`
	}
	if err := decodeStrict(content, &raw); err != nil {
		return models.SummaryPair{}, err
	}
	if err := requireText("short_summary", raw.ShortSummary); err != nil {
		return models.SummaryPair{}, err
	}
	if err := requireText("detailed_summary", raw.DetailedSummary); err != nil {
		return models.SummaryPair{}, err
	}
	return models.SummaryPair{
		ShortSummary:    strings.TrimSpace(*raw.ShortSummary),
		DetailedSummary: strings.TrimSpace(*raw.DetailedSummary),
	}, nil
}

func parseConcepts(content string) ([]string, error) {
	var raw []string
	if err := decodeStrict(content, &raw); err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("no concepts returned")
	}
	concepts := make([]string, 0, len(raw))
	for i, c := range raw {
		c = strings.TrimSpace(c)
		if c == "" {
			return nil, fmt.Errorf("concept %d is empty", i)
		}
		concepts = append(concepts, c)
	}
	return concepts, nil
}

func parseFlashcards(content string) ([]models.Flashcard, error) {
	var raw []struct {
		Front *string `json:"front"`
		Back  *string `json:"back"`
	}
	if err := decodeStrict(content, &raw); err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("no flashcards returned")
	}
	cards := make([]models.Flashcard, 0, len(raw))
	for i, r := range raw {
		if err := requireText(fmt.Sprintf("flashcard %d front", i), r.Front); err != nil {
			return nil, err
		}
		if err := requireText(fmt.Sprintf("flashcard %d back", i), r.Back); err != nil {
			return nil, err
		}
		cards = append(cards, models.Flashcard{
			Front: strings.TrimSpace(*r.Front),
			Back:  strings.TrimSpace(*r.Back),
		})
	}
	return cards, nil
}

func parseQuiz(content string) ([]models.QuizQuestion, error) {
	var raw []struct {
		Question      *string           `json:"question"`
		Options       map[string]string `json:"options"`
		CorrectAnswer *string           `json:"correct_answer"`
		Explanation   *string           `json:"explanation"`
	}
	if err := decodeStrict(content, &raw); err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("no quiz questions returned")
	}

	questions := make([]models.QuizQuestion, 0, len(raw))
	for i, r := range raw {
		if err := requireText(fmt.Sprintf("question %d text", i), r.Question); err != nil {
			return nil, err
		}
		if len(r.Options) != len(models.QuizOptionLabels) {
			return nil, fmt.Errorf("question %d: want %d options, got %d", i, len(models.QuizOptionLabels), len(r.Options))
		}
		options := make(map[string]string, len(models.QuizOptionLabels))
		for _, label := range models.QuizOptionLabels {
			opt, ok := r.Options[label]
			if !ok || strings.TrimSpace(opt) == "" {
				return nil, fmt.Errorf("question %d: option %s missing", i, label)
			}
			options[label] = strings.TrimSpace(opt)
		}
		if err := requireText(fmt.Sprintf("question %d correct_answer", i), r.CorrectAnswer); err != nil {
			return nil, err
		}
		answer := strings.ToUpper(strings.TrimSpace(*r.CorrectAnswer))
		if _, ok := options[answer]; !ok {
			return nil, fmt.Errorf("question %d: correct_answer %q is not one of A-D", i, *r.CorrectAnswer)
		}
		if err := requireText(fmt.Sprintf("question %d explanation", i), r.Explanation); err != nil {
			return nil, err
		}
		questions = append(questions, models.QuizQuestion{
			Question:      strings.TrimSpace(*r.Question),
			Options:       options,
			CorrectAnswer: answer,
			Explanation:   strings.TrimSpace(*r.Explanation),
		})
	}
	return questions, nil
}

func requireText(field string, v *string) error {
	if v == nil {
		return fmt.Errorf("missing field %s", field)
	}
	if strings.TrimSpace(*v) == "" {
		return fmt.Errorf("field %s is empty", field)
	}
	return nil
}
