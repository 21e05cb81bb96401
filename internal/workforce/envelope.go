package workforce

import (
	"encoding/json"
	"fmt"
)

// SchemaVersion is written into the meta key and every record envelope.
const SchemaVersion = 1

const (
	keyPrefix        = "thread/v1/"
	metaKey          = keyPrefix + "meta"
	currentUserKey   = keyPrefix + "current_user"
	usersPrefix      = keyPrefix + "users/"
	attendancePrefix = keyPrefix + "attendance/"
	leavesPrefix     = keyPrefix + "leaves/"

	// OutboxPrefix namespaces pending integration events.
	OutboxPrefix = keyPrefix + "outbox/"
)

type meta struct {
	SchemaVersion int `json:"schema_version"`
}

type envelope[T any] struct {
	SchemaVersion int    `json:"schema_version"`
	Seq           uint64 `json:"seq"`
	Data          T      `json:"data"`
}

func encodeRecord[T any](r record[T]) ([]byte, error) {
	b, err := json.Marshal(envelope[T]{SchemaVersion: SchemaVersion, Seq: r.seq, Data: r.data})
	if err != nil {
		return nil, fmt.Errorf("encode record: %w", err)
	}
	return b, nil
}

func decodeRecord[T any](b []byte) (record[T], error) {
	var env envelope[T]
	if err := json.Unmarshal(b, &env); err != nil {
		return record[T]{}, err
	}
	if env.SchemaVersion > SchemaVersion {
		return record[T]{}, fmt.Errorf("record schema version %d is newer than %d", env.SchemaVersion, SchemaVersion)
	}
	return record[T]{seq: env.Seq, data: env.Data}, nil
}
