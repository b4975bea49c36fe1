package generation

import "fmt"

func summaryPrompt(text string) string {
	return fmt.Sprintf(`You are an expert educational content summarizer.

Given the following text extracted from a textbook, create:
1. A SHORT SUMMARY (2-3 sentences)
2. A DETAILED SUMMARY (5-7 sentences with more context)

Text:
%s

Respond ONLY with valid JSON (no markdown, no backticks):
{
    "short_summary": "...",
    "detailed_summary": "..."
}
`, text)
}

func explanationPrompt(text string) string {
	return fmt.Sprintf(`You are an expert teacher who explains complex topics simply.

Explain the following textbook content in simple, easy-to-understand language.
Use analogies, examples, and break down complex concepts.
Target audience: students who want to understand quickly.

Text:
%s

Provide a clear, simplified explanation:
`, text)
}

func conceptsPrompt(text string) string {
	return fmt.Sprintf(`Extract 5-8 key concepts from this text.
Return ONLY a JSON array of strings (no markdown, no backticks).

Text:
%s

Format: ["concept1", "concept2", "concept3"]
`, text)
}

func flashcardsPrompt(text string, count int) string {
	return fmt.Sprintf(`Create %d flashcards from this text for effective learning.
Each flashcard should have a clear question (front) and concise answer (back).

Text:
%s

Respond ONLY with valid JSON (no markdown, no backticks):
[
    {"front": "Question or term", "back": "Answer or definition"}
]
`, count, text)
}

func quizPrompt(text string, count int) string {
	return fmt.Sprintf(`Create %d multiple choice questions from this text.
Each question should have 4 options (A, B, C, D) with one correct answer.
Include an explanation for the correct answer.

Text:
%s

Respond ONLY with valid JSON (no markdown, no backticks):
[
    {
        "question": "Question text?",
        "options": {"A": "Option A", "B": "Option B", "C": "Option C", "D": "Option D"},
        "correct_answer": "A",
        "explanation": "Why this is correct..."
    }
]
`, count, text)
}

func topicPrompt(text string) string {
	return fmt.Sprintf(`Identify the main academic subject or topic of this text in 2-4 words.
Examples: "Biology - Cell Division", "Physics - Newton's Laws", "History - World War II"

Text:
%s

Topic:
`, text)
}
