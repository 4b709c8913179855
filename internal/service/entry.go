package service

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"mindlog/internal/models"
	"mindlog/internal/utils"
)

// entryDateFormat is the calendar-date format entries are submitted with
const entryDateFormat = "2006-01-02"

// historyWindowDays is the rolling lookback used for history_count
const historyWindowDays = 90

// AnalyzeText runs the entry pipeline on raw journal text
func (s *Service) AnalyzeText(user *models.User, text, date string) (*models.AnalysisResult, error) {
	return s.processEntry(user, text, date)
}

// AnalyzeAudio transcribes uploaded audio and runs the entry pipeline on the
// transcript. The audio is held in a uniquely named temp file that is removed
// on every exit path. A transcript that is empty after trimming fails with
// ErrEmptyTranscription and persists nothing.
func (s *Service) AnalyzeAudio(ctx context.Context, user *models.User, audio []byte, filenameHint, date string) (*models.AnalysisResult, error) {
	if s.transcriber == nil {
		return nil, fmt.Errorf("transcription is not configured")
	}

	tmp, err := utils.NewAudioTempFile(audio, filenameHint)
	if err != nil {
		return nil, err
	}
	defer tmp.Remove()

	text, err := s.transcriber.Transcribe(ctx, tmp.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to transcribe audio: %w", err)
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyTranscription
	}

	result, err := s.processEntry(user, text, date)
	if err != nil {
		return nil, err
	}
	result.IsAudio = true
	result.Transcription = text
	return result, nil
}

// processEntry classifies the text, encrypts and persists the entry, and
// assembles the response with the rolling-window count and coping insight.
func (s *Service) processEntry(user *models.User, text, date string) (*models.AnalysisResult, error) {
	probs, err := s.classifier.Classify(text)
	if err != nil {
		return nil, fmt.Errorf("failed to classify text: %w", err)
	}

	idx := models.ArgMax(probs)
	emotion := models.LabelFor(idx)
	score := 0.0
	if idx >= 0 {
		score = probs[idx]
	}

	entryDate, err := time.Parse(entryDateFormat, date)
	if err != nil {
		return nil, ErrInvalidDate
	}

	encrypted, err := s.cipher.Encrypt(text)
	if err != nil {
		return nil, fmt.Errorf("failed to encrypt content: %w", err)
	}

	entry := &models.JournalEntry{
		UserID:           user.ID,
		EntryDate:        entryDate,
		EncryptedContent: encrypted,
		Emotion:          emotion,
		EmotionScore:     score,
	}
	if err := s.repo.CreateEntry(entry); err != nil {
		return nil, fmt.Errorf("failed to save entry: %w", err)
	}

	windowStart := entryDate.AddDate(0, 0, -historyWindowDays)
	history, err := s.repo.FindEntriesSince(user.ID, windowStart)
	if err != nil {
		return nil, fmt.Errorf("failed to load history window: %w", err)
	}

	s.log.Infof("Entry %d saved for user %s: %s (%.2f)", entry.ID, user.Username, emotion, score)
	return &models.AnalysisResult{
		Emotion:      emotion,
		Score:        math.Round(score*10000) / 100,
		Insight:      models.Insight(emotion),
		HistoryCount: len(history),
	}, nil
}
