package gqlapi

import (
	"context"
	"strconv"
	"unicode/utf8"

	"github.com/vektah/gqlparser/v2/ast"

	"github.com/heartmarshall/backoffice/internal/transport/graphql"
)

// Words writes word batches into a dictionary.
type Words struct {
	client doer
}

// NewWords creates the word batch writer.
func NewWords(client doer) *Words {
	return &Words{client: client}
}

// UpsertWords sends one packet that upserts every word into dictionaryID.
// Aliases are o<offset+i> so a batch can be matched to its position in the
// whole upload. Words must already be normalized.
func (w *Words) UpsertWords(ctx context.Context, dictionaryID string, words []string, offset int) error {
	if len(words) == 0 {
		return nil
	}
	fields := make([]*ast.Field, 0, len(words))
	for i, word := range words {
		fields = append(fields, graphql.Aliased(
			"o"+strconv.Itoa(offset+i),
			"updateOrCreateWord",
			ast.ArgumentList{graphql.ObjectArg("input",
				graphql.ObjectField{Name: "dictionary", Value: dictionaryID},
				graphql.ObjectField{Name: "id", Value: word},
				graphql.ObjectField{Name: "lettersCnt", Value: utf8.RuneCountInString(word)},
			)},
			graphql.Selection{"returning.id", "created"},
		))
	}
	return w.client.Do(ctx, graphql.Mutation("loadDictionaryPacket", nil, fields...), nil, nil)
}
