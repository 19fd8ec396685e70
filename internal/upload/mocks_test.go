package upload

import (
	"context"
	"sync"
)

// WordWriterMock is a mock implementation of WordWriter.
type WordWriterMock struct {
	UpsertWordsFunc func(ctx context.Context, dictionaryID string, words []string, offset int) error

	mu    sync.Mutex
	calls struct {
		UpsertWords []struct {
			DictionaryID string
			Words        []string
			Offset       int
		}
	}
}

func (m *WordWriterMock) UpsertWords(ctx context.Context, dictionaryID string, words []string, offset int) error {
	if m.UpsertWordsFunc == nil {
		panic("WordWriterMock.UpsertWordsFunc: method is nil but WordWriter.UpsertWords was just called")
	}
	m.mu.Lock()
	m.calls.UpsertWords = append(m.calls.UpsertWords, struct {
		DictionaryID string
		Words        []string
		Offset       int
	}{DictionaryID: dictionaryID, Words: words, Offset: offset})
	m.mu.Unlock()
	return m.UpsertWordsFunc(ctx, dictionaryID, words, offset)
}

// UpsertWordsCalls gets all the calls that were made to UpsertWords.
func (m *WordWriterMock) UpsertWordsCalls() []struct {
	DictionaryID string
	Words        []string
	Offset       int
} {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls.UpsertWords
}

// RefresherMock is a mock implementation of Refresher.
type RefresherMock struct {
	RefreshAllFunc func(ctx context.Context) error

	mu    sync.Mutex
	calls int
}

func (m *RefresherMock) RefreshAll(ctx context.Context) error {
	if m.RefreshAllFunc == nil {
		panic("RefresherMock.RefreshAllFunc: method is nil but Refresher.RefreshAll was just called")
	}
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()
	return m.RefreshAllFunc(ctx)
}

// RefreshAllCalls returns how many times RefreshAll was called.
func (m *RefresherMock) RefreshAllCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}
