package types

// Message is one unit on the raw transport: a named channel plus an opaque
// payload. Ordering is preserved per channel only; independent channels have
// no ordering relationship.
type Message struct {
	Channel string `json:"channel"`
	Payload any    `json:"payload,omitempty"`
}

// FindOptions controls an in-content search.
type FindOptions struct {
	Forward                bool `json:"forward"`
	FindNext               bool `json:"findNext"`
	MatchCase              bool `json:"matchCase"`
	CaseStyleAwareMatching bool `json:"caseStyleAwareMatching"`
}

// FindResult is the payload of the found-in-page inbound channel.
type FindResult struct {
	RequestID   int  `json:"requestId"`
	Matches     int  `json:"matches"`
	ActiveMatch int  `json:"activeMatchOrdinal"`
	FinalUpdate bool `json:"finalUpdate"`
}
