package models

import (
	"encoding/json"
	"time"
)

type RawDocumentKind string

const (
	RawKindThread   RawDocumentKind = "thread"
	RawKindComments RawDocumentKind = "comments"
)

// RawDocumentEnvelope wraps a raw API payload on its way from the collector
// to the record writer. Payload is the undecoded JSON document exactly as it
// was archived: a single submission object for RawKindThread, a list of root
// comment objects for RawKindComments.
type RawDocumentEnvelope struct {
	Kind        RawDocumentKind `json:"kind"`
	Subreddit   string          `json:"subreddit"`
	ThreadID    string          `json:"thread_id"`
	RetrievedAt time.Time       `json:"retrieved_at"`
	Payload     json.RawMessage `json:"payload"`
}
