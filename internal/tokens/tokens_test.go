package tokens

import (
	"context"
	"encoding/base64"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"github.com/inkwell/blog/backend/go-services/internal/config"
	"github.com/inkwell/blog/backend/go-services/internal/models"
)

// seg encodes JWT segments.
var seg = base64.RawURLEncoding

func testConfig(secret string) *config.Config {
	cfg := &config.Config{}
	cfg.JWT.Secret = secret
	return cfg
}

func TestGenerateAccessToken_Claims(t *testing.T) {
	cfg := testConfig("test-secret-32-bytes-should-be-long-enough")
	u := &models.User{ID: "user-123", Username: "alice", Email: "alice@example.com"}

	raw, err := GenerateAccessToken(cfg, u, 2*time.Minute)
	require.NoError(t, err)

	claims, err := ParseAccessToken(cfg.JWT.Secret, raw)
	require.NoError(t, err)
	require.Equal(t, "user-123", claims["sub"])
	require.Equal(t, "alice@example.com", claims["email"])
}

func TestParseAccessToken_Expired(t *testing.T) {
	cfg := testConfig("another-secret-32-bytes-longgggg")
	raw, err := GenerateAccessToken(cfg, &models.User{ID: "u2"}, -time.Minute)
	require.NoError(t, err)

	_, err = ParseAccessToken(cfg.JWT.Secret, raw)
	require.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestParseAccessToken_WrongSecret(t *testing.T) {
	raw, err := GenerateAccessToken(testConfig("secret-one-32-bytes-xxxxxxxxxxxxxxxx"), &models.User{ID: "u3"}, time.Minute)
	require.NoError(t, err)

	_, err = ParseAccessToken("different-secret-xxxxxxxxxxxxxxxx", raw)
	require.ErrorIs(t, err, jwt.ErrTokenSignatureInvalid)
}

func TestParseAccessToken_Malformed(t *testing.T) {
	_, err := ParseAccessToken("x", "not.a.jwt")
	require.Error(t, err)
}

func TestParseAccessToken_AlgNoneRejected(t *testing.T) {
	header := seg.EncodeToString([]byte(`{"alg":"none"}`))
	payload := seg.EncodeToString([]byte(`{"sub":"u-none","exp":9999999999}`))
	_, err := ParseAccessToken("x", header+"."+payload+".")
	require.Error(t, err)
}

func TestParseAccessToken_TamperedPayload(t *testing.T) {
	cfg := testConfig("tamper-test-secret-32-bytes-xxxxxxx")
	raw, err := GenerateAccessToken(cfg, &models.User{ID: "user-t", Username: "tamper"}, 5*time.Minute)
	require.NoError(t, err)

	// claim someone else's posts by rewriting sub
	parts := strings.Split(raw, ".")
	require.Len(t, parts, 3)
	payload, err := seg.DecodeString(parts[1])
	require.NoError(t, err)
	parts[1] = seg.EncodeToString([]byte(strings.Replace(string(payload), "user-t", "attacker", 1)))

	_, err = ParseAccessToken(cfg.JWT.Secret, strings.Join(parts, "."))
	require.Error(t, err)
}

func TestParseAccessToken_AndVerifier(t *testing.T) {
	cfg := &config.Config{}
	cfg.JWT.Secret = "verifier-secret-32-bytes-xxxxxxxxx"
	u := &models.User{ID: "user-v", Username: "vera", Email: "v@example.com"}
	tokenStr, err := GenerateAccessToken(cfg, u, time.Minute)
	require.NoError(t, err)

	claims, err := ParseAccessToken(cfg.JWT.Secret, tokenStr)
	require.NoError(t, err)
	require.Equal(t, "user-v", claims["sub"])
	require.Equal(t, "vera", claims["username"])
	require.NotEmpty(t, claims["jti"])
	ttl := ExpiresIn(claims)
	require.True(t, ttl > 0 && ttl <= time.Minute, ttl)

	tok, err := NewJWTVerifier(cfg.JWT.Secret).Verify(context.Background(), tokenStr)
	require.NoError(t, err)
	var m map[string]interface{}
	require.NoError(t, tok.Claims(&m))
	require.Equal(t, "user-v", m["sub"])

	_, err = NewJWTVerifier("wrong-secret-xxxxxxxxxxxxxxxxxxxxxx").Verify(context.Background(), tokenStr)
	require.Error(t, err)
}

func TestParseAccessToken_RejectsOtherAlgorithms(t *testing.T) {
	secret := "alg-secret-32-bytes-xxxxxxxxxxxxxxx"
	claims := jwt.MapClaims{"sub": "u", "exp": time.Now().Add(time.Minute).Unix()}
	tokenStr, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	_, err = ParseAccessToken(secret, tokenStr)
	require.Error(t, err)
}

func TestParseAccessToken_RequiresSubjectAndExpiry(t *testing.T) {
	secret := "sub-secret-32-bytes-xxxxxxxxxxxxxxx"
	noSub, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"exp": time.Now().Add(time.Minute).Unix()}).SignedString([]byte(secret))
	require.NoError(t, err)
	_, err = ParseAccessToken(secret, noSub)
	require.Error(t, err)

	noExp, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "u"}).SignedString([]byte(secret))
	require.NoError(t, err)
	_, err = ParseAccessToken(secret, noExp)
	require.Error(t, err)

	require.Equal(t, time.Duration(0), ExpiresIn(jwt.MapClaims{}))
}
