package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	t.Setenv("MONGODB_URI", "mongodb://localhost:27017/testdb")
	t.Setenv("MONGODB_DATABASE", "blog_test")
	t.Setenv("REDIS_HOST", "localhost")
	t.Setenv("REDIS_PORT", "6379")
	t.Setenv("JWT_SECRET", "testsecret123456789012345678901234")
	t.Setenv("JWT_ACCESS_TOKEN_TTL", "5")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	require.Equal(t, "mongodb://localhost:27017/testdb", cfg.MongoDB.URI)
	require.Equal(t, "blog_test", cfg.MongoDB.Database)
	require.Equal(t, "localhost:6379", cfg.RedisAddr())
	require.Equal(t, 5*time.Minute, cfg.JWT.AccessTokenTTL)
	require.Equal(t, "blog", cfg.NATS.SubjectPrefix)
	require.NotEmpty(t, cfg.Uploads.TempDir)
}

func TestLoadConfig_RequiresMongoURI(t *testing.T) {
	t.Setenv("MONGODB_URI", "")

	_, err := LoadConfig()
	require.Error(t, err)
	require.Contains(t, err.Error(), "MONGODB_URI")
}

func TestRedisAddr_EmptyWhenUnconfigured(t *testing.T) {
	cfg := &Config{}
	require.Equal(t, "", cfg.RedisAddr())
}

func TestLoadLocalConfig_MongoOptional(t *testing.T) {
	t.Setenv("MONGODB_URI", "")
	t.Setenv("REDIS_HOST", "")
	t.Setenv("JWT_SECRET", "testsecret123456789012345678901234")

	cfg, err := LoadLocalConfig()
	require.NoError(t, err)
	require.Empty(t, cfg.MongoDB.URI)
	require.Equal(t, "", cfg.RedisAddr())
}
