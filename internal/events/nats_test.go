package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/stretchr/testify/require"

	"github.com/inkwell/blog/backend/go-services/internal/blog"
)

type fakeConn struct {
	msgs []*nats.Msg
	err  error
}

func (f *fakeConn) PublishMsg(m *nats.Msg) error {
	f.msgs = append(f.msgs, m)
	return f.err
}

func newTestPublisher(conn *fakeConn) *NatsPublisher {
	p := NewNatsPublisher(conn, "test")
	p.now = func() time.Time { return time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC) }
	return p
}

func TestPostCreated(t *testing.T) {
	conn := &fakeConn{}
	p := newTestPublisher(conn)

	err := p.PostCreated(context.Background(), &blog.Post{ID: "p1", AuthorID: "u1", Title: "Hello"})
	require.NoError(t, err)
	require.Len(t, conn.msgs, 1)
	require.Equal(t, "test.post.created", conn.msgs[0].Subject)
	require.Equal(t, "application/json", conn.msgs[0].Header.Get("Content-Type"))

	var ev PostEvent
	require.NoError(t, json.Unmarshal(conn.msgs[0].Data, &ev))
	require.Equal(t, "created", ev.Type)
	require.Equal(t, "p1", ev.PostID)
	require.Equal(t, "u1", ev.AuthorID)
	require.Equal(t, "Hello", ev.Title)
	require.Nil(t, ev.Liked)
}

func TestPostLiked_CarriesState(t *testing.T) {
	conn := &fakeConn{}
	p := newTestPublisher(conn)

	require.NoError(t, p.PostLiked(context.Background(), "p1", "u2", blog.LikeResult{Likes: 0, Liked: false}))
	var ev PostEvent
	require.NoError(t, json.Unmarshal(conn.msgs[0].Data, &ev))
	require.Equal(t, "test.post.liked", conn.msgs[0].Subject)
	require.NotNil(t, ev.Liked)
	require.False(t, *ev.Liked)
	require.NotNil(t, ev.Likes)
	require.Equal(t, 0, *ev.Likes)
}

func TestPublishErrorPropagates(t *testing.T) {
	conn := &fakeConn{err: errors.New("nats: connection closed")}
	p := newTestPublisher(conn)
	require.Error(t, p.PostDeleted(context.Background(), "p1", "u1"))
}

func TestDefaultPrefixAndNoop(t *testing.T) {
	p := NewNatsPublisher(&fakeConn{}, "")
	require.Equal(t, "blog.post.deleted", p.Subject("deleted"))

	var n Noop
	require.NoError(t, n.PostCreated(context.Background(), &blog.Post{}))
	require.NoError(t, n.PostDeleted(context.Background(), "p", "u"))
	require.NoError(t, n.PostLiked(context.Background(), "p", "u", blog.LikeResult{}))
}
