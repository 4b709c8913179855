package service

import (
	"testing"

	"github.com/beevik/etree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedHistoryService(t *testing.T) (*Service, *memStorage) {
	t.Helper()
	storage := newMemStorage()
	classifier := &mockClassifier{
		classifyFn: func(text string) ([]float64, error) {
			if text == "angry" {
				return vectorFor(t, "anger", 0.9), nil
			}
			return vectorFor(t, "joy", 0.9), nil
		},
	}
	return newTestService(t, storage, classifier, nil), storage
}

func TestHistory_AscendingByDate(t *testing.T) {
	svc, _ := seedHistoryService(t)
	user, _ := svc.Register("alice", "alice@example.com", "pw")

	_, err := svc.AnalyzeText(user, "happy", "2024-03-10")
	require.NoError(t, err)
	_, err = svc.AnalyzeText(user, "angry", "2024-01-05")
	require.NoError(t, err)
	_, err = svc.AnalyzeText(user, "happy", "2024-02-20")
	require.NoError(t, err)

	items, err := svc.History(user)
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, "2024-01-05", items[0].Date)
	assert.Equal(t, "anger", items[0].Emotion)
	assert.Equal(t, "2024-02-20", items[1].Date)
	assert.Equal(t, "2024-03-10", items[2].Date)
}

func TestHistory_ScopedToAccount(t *testing.T) {
	svc, _ := seedHistoryService(t)
	alice, _ := svc.Register("alice", "alice@example.com", "pw")
	bob, _ := svc.Register("bob", "bob@example.com", "pw")

	_, err := svc.AnalyzeText(alice, "happy", "2024-01-01")
	require.NoError(t, err)
	_, err = svc.AnalyzeText(bob, "angry", "2024-01-02")
	require.NoError(t, err)
	_, err = svc.AnalyzeText(bob, "angry", "2024-01-03")
	require.NoError(t, err)

	aliceItems, err := svc.History(alice)
	require.NoError(t, err)
	require.Len(t, aliceItems, 1)
	assert.Equal(t, "joy", aliceItems[0].Emotion)

	bobItems, err := svc.History(bob)
	require.NoError(t, err)
	require.Len(t, bobItems, 2)
	for _, item := range bobItems {
		assert.Equal(t, "anger", item.Emotion)
	}
}

func TestHistory_EmptyForNewAccount(t *testing.T) {
	svc, _ := seedHistoryService(t)
	user, _ := svc.Register("alice", "alice@example.com", "pw")

	items, err := svc.History(user)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestExportHistoryXML(t *testing.T) {
	svc, _ := seedHistoryService(t)
	user, _ := svc.Register("alice", "alice@example.com", "pw")

	_, err := svc.AnalyzeText(user, "angry", "2024-01-05")
	require.NoError(t, err)
	_, err = svc.AnalyzeText(user, "happy", "2024-02-20")
	require.NoError(t, err)

	out, err := svc.ExportHistoryXML(user)
	require.NoError(t, err)

	doc := etree.NewDocument()
	require.NoError(t, doc.ReadFromBytes(out))

	root := doc.SelectElement("history")
	require.NotNil(t, root)
	assert.Equal(t, "alice", root.SelectAttrValue("username", ""))

	entries := root.SelectElements("entry")
	require.Len(t, entries, 2)
	assert.Equal(t, "2024-01-05", entries[0].SelectAttrValue("date", ""))
	assert.Equal(t, "anger", entries[0].SelectAttrValue("emotion", ""))
	assert.Equal(t, "joy", entries[1].SelectAttrValue("emotion", ""))

	// Exported document never contains entry content
	assert.NotContains(t, string(out), "angry")
}
