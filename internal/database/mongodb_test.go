package database

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

func TestIndexSpecs_CoverCollections(t *testing.T) {
	specs := IndexSpecs()
	for _, name := range []string{UsersCollection, PostsCollection, CommentsCollection, SessionsCollection} {
		require.NotEmpty(t, specs[name], "missing indexes for %s", name)
	}

	// usernames must be unique so author lookups are unambiguous
	users := specs[UsersCollection]
	require.Equal(t, bson.D{{Key: "username", Value: 1}}, users[0].Keys)
	require.NotNil(t, users[0].Options.Unique)
	require.True(t, *users[0].Options.Unique)

	// comments are always listed per post, newest first
	require.Equal(t, bson.D{{Key: "post", Value: 1}, {Key: "createdAt", Value: -1}}, specs[CommentsCollection][0].Keys)
}
