package domain

// Document is one text loaded from a content source.
type Document struct {
	ID   string
	Text string
}

// Group is one cluster or typical opinion, flattened for storage.
type Group struct {
	ID      string
	Num     int
	Opinion string
	Members []string
}

// Outcome is what an analyzer produced for a batch of documents.
type Outcome struct {
	Analyzer string
	TaskID   string
	// Payload is the service response, written out as JSON.
	Payload any
	// Groups is set only by grouping analyzers (cluster, comments).
	Groups []Group
}
