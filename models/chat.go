package models

// ChatMessage is one entry of a channel log. Timestamp is milliseconds since
// the Unix epoch, assigned by the server at write time.
type ChatMessage struct {
	ID         string `json:"id"`
	ChannelKey string `json:"channelKey"`
	SenderID   string `json:"sender"`
	Text       string `json:"text"`
	Timestamp  int64  `json:"timestamp"`
}

// ChatSnapshot is the full visible history of a channel at one instant.
// When the log could not be read Unavailable is set and Messages holds the
// last history that was read successfully.
type ChatSnapshot struct {
	ChannelKey  string        `json:"channelKey"`
	Messages    []ChatMessage `json:"messages"`
	Unavailable bool          `json:"unavailable,omitempty"`
}
