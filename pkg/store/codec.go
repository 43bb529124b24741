package store

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// Decode parses a persisted document into a task collection. Malformed JSON,
// a document of the wrong shape and undecodable fields all yield a
// *CorruptStoreError.
func Decode(data []byte) ([]Task, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, &CorruptStoreError{Err: errors.New("empty document")}
	}

	var doc interface{}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, &CorruptStoreError{Err: fmt.Errorf("parse: %w", err)}
	}
	if err := validateDocument(doc); err != nil {
		return nil, &CorruptStoreError{Err: fmt.Errorf("shape: %w", err)}
	}

	var tasks []Task
	if err := json.Unmarshal(data, &tasks); err != nil {
		return nil, &CorruptStoreError{Err: fmt.Errorf("decode: %w", err)}
	}
	if tasks == nil {
		tasks = []Task{}
	}
	return tasks, nil
}

// Encode writes the collection with 2-space indentation and a trailing newline.
func Encode(tasks []Task) ([]byte, error) {
	if tasks == nil {
		tasks = []Task{}
	}
	for i := range tasks {
		if tasks[i].Checklist == nil {
			tasks[i].Checklist = []ChecklistItem{}
		}
	}

	data, err := json.MarshalIndent(tasks, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal tasks: %w", err)
	}
	return append(data, '\n'), nil
}
