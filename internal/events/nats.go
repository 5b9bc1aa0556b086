package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/inkwell/blog/backend/go-services/internal/blog"
	"github.com/inkwell/blog/backend/go-services/pkg/logger"
)

// msgPublisher is the subset of *nats.Conn used here.
type msgPublisher interface {
	PublishMsg(m *nats.Msg) error
}

// PostEvent is the JSON body of every post lifecycle message.
type PostEvent struct {
	Type      string    `json:"type"`
	PostID    string    `json:"postId"`
	AuthorID  string    `json:"authorId,omitempty"`
	UserID    string    `json:"userId,omitempty"`
	Title     string    `json:"title,omitempty"`
	Liked     *bool     `json:"liked,omitempty"`
	Likes     *int      `json:"likes,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// NatsPublisher publishes post events to <prefix>.post.<type>.
type NatsPublisher struct {
	conn   msgPublisher
	prefix string
	now    func() time.Time
}

func NewNatsPublisher(conn msgPublisher, prefix string) *NatsPublisher {
	if prefix == "" {
		prefix = "blog"
	}
	return &NatsPublisher{conn: conn, prefix: prefix, now: func() time.Time { return time.Now().UTC() }}
}

// Connect dials NATS and returns a publisher plus the connection so the
// caller can drain it on shutdown.
func Connect(url, prefix string) (*NatsPublisher, *nats.Conn, error) {
	nc, err := nats.Connect(url,
		nats.Name("blog-api"),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				logger.Warnf("nats disconnected: %v", err)
			}
		}),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("nats connect: %w", err)
	}
	return NewNatsPublisher(nc, prefix), nc, nil
}

func (p *NatsPublisher) PostCreated(ctx context.Context, post *blog.Post) error {
	return p.publish("created", PostEvent{PostID: post.ID, AuthorID: post.AuthorID, Title: post.Title})
}

func (p *NatsPublisher) PostDeleted(ctx context.Context, postID, authorID string) error {
	return p.publish("deleted", PostEvent{PostID: postID, AuthorID: authorID})
}

func (p *NatsPublisher) PostLiked(ctx context.Context, postID, userID string, res blog.LikeResult) error {
	liked, likes := res.Liked, res.Likes
	return p.publish("liked", PostEvent{PostID: postID, UserID: userID, Liked: &liked, Likes: &likes})
}

// Subject returns the full subject for an event type.
func (p *NatsPublisher) Subject(eventType string) string {
	return p.prefix + ".post." + eventType
}

func (p *NatsPublisher) publish(eventType string, ev PostEvent) error {
	ev.Type = eventType
	ev.Timestamp = p.now()
	data, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal %s event: %w", eventType, err)
	}
	msg := &nats.Msg{Subject: p.Subject(eventType), Data: data, Header: nats.Header{}}
	msg.Header.Set("Content-Type", "application/json")
	logger.Debugf("publishing %s for post %s", msg.Subject, ev.PostID)
	return p.conn.PublishMsg(msg)
}

// Noop discards every event. Used when NATS_URL is unset.
type Noop struct{}

func (Noop) PostCreated(ctx context.Context, post *blog.Post) error { return nil }
func (Noop) PostDeleted(ctx context.Context, postID, authorID string) error { return nil }
func (Noop) PostLiked(ctx context.Context, postID, userID string, _ blog.LikeResult) error { return nil }
