package token

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct{ t time.Time }

func (f *fakeClock) Now() time.Time { return f.t }

func newTestCodec(t *testing.T, secret string, clock *fakeClock) *Codec {
	t.Helper()
	c, err := New([]byte(secret), WithClock(clock.Now))
	require.NoError(t, err)
	return c
}

func TestNew_EmptySecret(t *testing.T) {
	_, err := New(nil)
	assert.ErrorIs(t, err, ErrEmptySecret)
}

func TestSignVerify_RoundTrip(t *testing.T) {
	clock := &fakeClock{t: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)}
	c := newTestCodec(t, "super-secret", clock)

	tok, err := c.Sign("64f1c0ffee")
	require.NoError(t, err)

	got, err := c.Verify(tok)
	require.NoError(t, err)
	assert.Equal(t, "64f1c0ffee", got)
}

func TestSign_EmbedsSevenDayExpiry(t *testing.T) {
	issued := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	c := newTestCodec(t, "super-secret", &fakeClock{t: issued})

	tok, err := c.Sign("u1")
	require.NoError(t, err)

	claims := &Claims{}
	_, _, err = jwt.NewParser().ParseUnverified(tok, claims)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)
	assert.Equal(t, "u1", claims.Subject)
	assert.True(t, claims.ExpiresAt.Time.Equal(issued.Add(7*24*time.Hour)))
}

func TestVerify_Expired(t *testing.T) {
	clock := &fakeClock{t: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)}
	c := newTestCodec(t, "super-secret", clock)

	tok, err := c.Sign("u1")
	require.NoError(t, err)

	clock.t = clock.t.Add(Lifetime - time.Second)
	_, err = c.Verify(tok)
	require.NoError(t, err, "token must still be valid just before expiry")

	clock.t = clock.t.Add(2 * time.Second)
	_, err = c.Verify(tok)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestVerify_ShortLifetime(t *testing.T) {
	c, err := New([]byte("k"), WithLifetime(-time.Second))
	require.NoError(t, err)

	tok, err := c.Sign("u1")
	require.NoError(t, err)

	_, err = c.Verify(tok)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestVerify_WrongSecret(t *testing.T) {
	clock := &fakeClock{t: time.Now()}
	tok, err := newTestCodec(t, "right-secret", clock).Sign("u2")
	require.NoError(t, err)

	_, err = newTestCodec(t, "wrong-secret", clock).Verify(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerify_Malformed(t *testing.T) {
	c := newTestCodec(t, "k", &fakeClock{t: time.Now()})

	for _, raw := range []string{"", "not.a.jwt", "abc", "a.b.c.d"} {
		_, err := c.Verify(raw)
		assert.ErrorIs(t, err, ErrInvalidToken, "input %q", raw)
	}
}

// base64URLAlphabet is the alphabet of raw URL-safe base64, in value order.
const base64URLAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789-_"

// flipLowBit replaces the character at i with the one whose base64 value
// differs in the lowest bit, so the result is still valid base64 text.
func flipLowBit(tok string, i int) string {
	idx := strings.IndexByte(base64URLAlphabet, tok[i])
	b := []byte(tok)
	b[i] = base64URLAlphabet[idx^1]
	return string(b)
}

func TestVerify_BitFlipIsRejected(t *testing.T) {
	c := newTestCodec(t, "super-secret", &fakeClock{t: time.Now()})
	tok, err := c.Sign("64f1c0ffee")
	require.NoError(t, err)

	for i := range len(tok) {
		if tok[i] == '.' {
			continue
		}
		_, err := c.Verify(flipLowBit(tok, i))
		assert.ErrorIs(t, err, ErrInvalidToken, "flip at %d", i)
	}
}

// The last signature character carries unused low bits; changing them must
// still invalidate the token.
func TestVerify_LastCharacterFlipIsRejected(t *testing.T) {
	c := newTestCodec(t, "super-secret", &fakeClock{t: time.Now()})
	tok, err := c.Sign("64f1c0ffee")
	require.NoError(t, err)

	sub, err := c.Verify(flipLowBit(tok, len(tok)-1))
	assert.ErrorIs(t, err, ErrInvalidToken)
	assert.Empty(t, sub)
}

func TestVerify_RejectsOtherAlgorithms(t *testing.T) {
	c := newTestCodec(t, "super-secret", &fakeClock{t: time.Now()})

	claims := Claims{
		UserID: "u1",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = c.Verify(none)
	assert.ErrorIs(t, err, ErrInvalidToken)

	hs512, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte("super-secret"))
	require.NoError(t, err)
	_, err = c.Verify(hs512)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerify_RequiresExpiry(t *testing.T) {
	c := newTestCodec(t, "super-secret", &fakeClock{t: time.Now()})

	noExp, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{UserID: "u1"}).SignedString([]byte("super-secret"))
	require.NoError(t, err)

	_, err = c.Verify(noExp)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
