package domain

// Channel labels the event source a stream payload arrived on. The two
// channels are structurally identical; swarm is the alternate backend
// execution mode.
type Channel string

const (
	ChannelPrimary Channel = "primary"
	ChannelSwarm   Channel = "swarm"
)

// StreamEvent is the wire payload delivered by the host runtime for both
// channels. A non-empty Chunk extends the in-progress assistant message;
// Done marks the end of the stream. Both may be set on the same event, in
// which case the chunk is applied before completion fires.
type StreamEvent struct {
	Chunk string `json:"chunk"`
	Done  bool   `json:"done"`
}
