package session

import (
	"encoding/base64"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestIssueAndVerify(t *testing.T) {
	m, err := NewManager("test-secret-32-bytes-should-be-long-enough", time.Minute)
	require.NoError(t, err)

	id := NewID()
	tok, err := m.Issue(id)
	require.NoError(t, err)

	got, err := m.Verify(tok)
	require.NoError(t, err)
	require.Equal(t, id, got)
}

func TestVerify_Expired(t *testing.T) {
	m, err := NewManager("secret", time.Minute)
	require.NoError(t, err)
	issued := time.Now().Add(-2 * time.Minute)
	m.now = func() time.Time { return issued }
	tok, err := m.Issue(NewID())
	require.NoError(t, err)

	m.now = time.Now
	_, err = m.Verify(tok)
	require.ErrorIs(t, err, ErrInvalid)
}

func TestVerify_WrongSecret(t *testing.T) {
	a, _ := NewManager("secret-one", time.Minute)
	b, _ := NewManager("secret-two", time.Minute)
	tok, err := a.Issue(NewID())
	require.NoError(t, err)
	_, err = b.Verify(tok)
	require.ErrorIs(t, err, ErrInvalid)
}

func TestVerify_AlgNoneRejected(t *testing.T) {
	m, _ := NewManager("x", time.Minute)
	payload := `{"sub":"` + uuid.NewString() + `","exp":9999999999}`
	enc := base64.RawURLEncoding
	tok := enc.EncodeToString([]byte(`{"alg":"none"}`)) + "." + enc.EncodeToString([]byte(payload)) + "."
	_, err := m.Verify(tok)
	require.Error(t, err)
}

func TestVerify_TamperedPayload(t *testing.T) {
	m, _ := NewManager("tamper-test-secret", time.Minute)
	id := NewID()
	tok, err := m.Issue(id)
	require.NoError(t, err)

	parts := strings.Split(tok, ".")
	require.Len(t, parts, 3)
	payload, err := base64.RawURLEncoding.DecodeString(parts[1])
	require.NoError(t, err)
	parts[1] = base64.RawURLEncoding.EncodeToString([]byte(strings.Replace(string(payload), id, NewID(), 1)))
	_, err = m.Verify(strings.Join(parts, "."))
	require.Error(t, err)
}

func TestVerify_NonUUIDSubject(t *testing.T) {
	m, _ := NewManager("s", time.Minute)
	tok, err := m.Issue("not-a-uuid")
	require.NoError(t, err)
	_, err = m.Verify(tok)
	require.ErrorIs(t, err, ErrInvalid)
}

func TestEphemeralSecret(t *testing.T) {
	a, err := NewManager("", 0)
	require.NoError(t, err)
	require.Len(t, a.secret, 32)
	require.Equal(t, 12*time.Hour, a.TTL())

	b, _ := NewManager("", 0)
	tok, _ := a.Issue(NewID())
	_, err = b.Verify(tok)
	require.Error(t, err)
}
