package store

import (
	"encoding/json"
	"fmt"

	"github.com/docdex/docdex/internal/domain"
)

// snapshotRecord is one persisted document. The on-disk snapshot is a
// pretty-printed JSON array of these records.
type snapshotRecord struct {
	ID   string    `json:"id"`
	Text string    `json:"text"`
	Emb  []float32 `json:"emb"`
}

func encodeSnapshot(docs []domain.Document) ([]byte, error) {
	records := make([]snapshotRecord, len(docs))
	for i, doc := range docs {
		records[i] = snapshotRecord{ID: doc.ID, Text: doc.Text, Emb: doc.Vector}
	}
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal records: %w", err)
	}
	return data, nil
}

func decodeSnapshot(data []byte) ([]snapshotRecord, error) {
	var records []snapshotRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("unmarshal records: %w", err)
	}
	return records, nil
}
