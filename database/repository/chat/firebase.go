package chatRepo

import (
	"context"
	"fmt"

	"providerhub/models"

	"firebase.google.com/go/v4/db"
)

// firebaseMessage is the node layout the mobile client reads and writes
// under chats/<channelKey>.
type firebaseMessage struct {
	Text      string `json:"text"`
	Sender    string `json:"sender"`
	Timestamp int64  `json:"timestamp"`
}

// FirebaseLog stores channels in the Firebase Realtime Database. Push keys
// are chronologically ordered, so ordering by key yields arrival order.
type FirebaseLog struct {
	client *db.Client
	root   string
}

func NewFirebaseLog(client *db.Client) *FirebaseLog {
	return &FirebaseLog{client: client, root: "chats"}
}

func (l *FirebaseLog) ref(channelKey string) *db.Ref {
	return l.client.NewRef(l.root + "/" + channelKey)
}

func (l *FirebaseLog) Append(ctx context.Context, msg models.ChatMessage) (models.ChatMessage, error) {
	child, err := l.ref(msg.ChannelKey).Push(ctx, firebaseMessage{
		Text:      msg.Text,
		Sender:    msg.SenderID,
		Timestamp: msg.Timestamp,
	})
	if err != nil {
		return models.ChatMessage{}, fmt.Errorf("firebase push %s: %w", msg.ChannelKey, err)
	}
	msg.ID = child.Key
	return msg, nil
}

func (l *FirebaseLog) List(ctx context.Context, channelKey string) ([]models.ChatMessage, error) {
	nodes, err := l.ref(channelKey).OrderByKey().GetOrdered(ctx)
	if err != nil {
		return nil, fmt.Errorf("firebase read %s: %w", channelKey, err)
	}
	out := make([]models.ChatMessage, 0, len(nodes))
	for _, n := range nodes {
		var fm firebaseMessage
		if err := n.Unmarshal(&fm); err != nil {
			return nil, fmt.Errorf("firebase decode %s/%s: %w", channelKey, n.Key(), err)
		}
		out = append(out, models.ChatMessage{
			ID:         n.Key(),
			ChannelKey: channelKey,
			SenderID:   fm.Sender,
			Text:       fm.Text,
			Timestamp:  fm.Timestamp,
		})
	}
	return out, nil
}
