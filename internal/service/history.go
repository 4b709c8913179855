package service

import (
	"fmt"

	"github.com/beevik/etree"

	"mindlog/internal/models"
)

// History returns the user's (date, emotion) pairs, ascending by date.
// Results are scoped strictly to the given account.
func (s *Service) History(user *models.User) ([]models.HistoryItem, error) {
	entries, err := s.repo.ListEntriesByUser(user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load history: %w", err)
	}

	items := make([]models.HistoryItem, 0, len(entries))
	for _, e := range entries {
		items = append(items, models.HistoryItem{
			Date:    e.EntryDate.Format(entryDateFormat),
			Emotion: e.Emotion,
		})
	}
	return items, nil
}

// ExportHistoryXML renders the user's emotion history as an XML document for
// data portability. Entry content stays encrypted and is not exported.
func (s *Service) ExportHistoryXML(user *models.User) ([]byte, error) {
	items, err := s.History(user)
	if err != nil {
		return nil, err
	}

	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)
	root := doc.CreateElement("history")
	root.CreateAttr("username", user.Username)
	for _, item := range items {
		entry := root.CreateElement("entry")
		entry.CreateAttr("date", item.Date)
		entry.CreateAttr("emotion", item.Emotion)
	}

	doc.Indent(2)
	out, err := doc.WriteToBytes()
	if err != nil {
		return nil, fmt.Errorf("failed to render history XML: %w", err)
	}
	return out, nil
}
