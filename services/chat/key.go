package chat

import "strings"

// ChannelKey names the conversation between two participants. The key is
// the same whichever order the ids are given in.
func ChannelKey(a, b string) string {
	if b < a {
		a, b = b, a
	}
	return strings.Join([]string{a, b}, "_")
}
