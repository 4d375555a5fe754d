package chatRepo

import (
	"context"

	"providerhub/models"
)

// MessageLog is an append-only log of chat messages per channel.
type MessageLog interface {
	// Append stores msg and returns it with its store-assigned ID.
	Append(ctx context.Context, msg models.ChatMessage) (models.ChatMessage, error)
	// List returns the channel's messages in arrival order.
	List(ctx context.Context, channelKey string) ([]models.ChatMessage, error)
}
