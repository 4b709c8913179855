package models

import "time"

// JournalEntry is one stored journal submission. Content is kept encrypted at
// rest and is never decrypted back into the record by any read path.
type JournalEntry struct {
	ID               int64     `json:"id"`
	UserID           int64     `json:"user_id"`
	EntryDate        time.Time `json:"date"`
	EncryptedContent string    `json:"-"`
	Emotion          string    `json:"emotion"`
	EmotionScore     float64   `json:"emotion_score"`
	CreatedAt        string    `json:"created_at"`
}

// AnalysisResult is the payload returned for a processed entry
type AnalysisResult struct {
	Emotion       string  `json:"emotion"`
	Score         float64 `json:"score"`
	Insight       string  `json:"insight"`
	HistoryCount  int     `json:"history_count"`
	IsAudio       bool    `json:"is_audio,omitempty"`
	Transcription string  `json:"transcription,omitempty"`
}

// HistoryItem is one (date, emotion) pair of a user's emotion history
type HistoryItem struct {
	Date    string `json:"date"`
	Emotion string `json:"emotion"`
}
