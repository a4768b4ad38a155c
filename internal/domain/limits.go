package domain

// Limits bounds the mutable collection state. Enforcement is silent policy:
// oldest sessions and messages are evicted, over-long content is clamped.
type Limits struct {
	MaxSessions           int
	MaxMessagesPerSession int
	MaxTitleLength        int
	MaxContentLength      int
	MaxSystemPromptLength int
}

// DefaultLimits returns the limits used when configuration provides none.
func DefaultLimits() Limits {
	return Limits{
		MaxSessions:           50,
		MaxMessagesPerSession: 200,
		MaxTitleLength:        80,
		MaxContentLength:      16384,
		MaxSystemPromptLength: 4096,
	}
}
