package webhook

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testKey = []byte("super-secret-signing-key")

func testSecret() string {
	return "whsec_" + base64.StdEncoding.EncodeToString(testKey)
}

func signBody(id, timestamp string, body []byte) string {
	mac := hmac.New(sha256.New, testKey)
	fmt.Fprintf(mac, "%s.%s.", id, timestamp)
	mac.Write(body)
	return "v1," + base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

func newTestVerifier(t *testing.T, now time.Time) *Verifier {
	t.Helper()
	v, err := NewVerifier(testSecret())
	require.NoError(t, err)
	v.now = func() time.Time { return now }
	return v
}

func TestVerifyAcceptsSignedEvent(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	v := newTestVerifier(t, now)

	body := []byte(`{
		"type": "user.created",
		"data": {
			"id": "user_abc123",
			"first_name": "Jonah",
			"last_name": "King",
			"email_addresses": [{"email_address": "jonah@example.com"}]
		}
	}`)
	ts := fmt.Sprintf("%d", now.Unix())
	sig := signBody("msg_1", ts, body)

	evt, err := v.Verify("msg_1", ts, sig, body)
	require.NoError(t, err)

	assert.Equal(t, "msg_1", evt.ID)
	assert.Equal(t, "user.created", evt.Type)
	assert.Equal(t, "user_abc123", evt.Data.ExternalID)
	assert.Equal(t, "Jonah", evt.Data.FirstName)
	assert.Equal(t, "King", evt.Data.LastName)
	require.Len(t, evt.Data.EmailAddresses, 1)
	assert.Equal(t, "jonah@example.com", evt.Data.EmailAddresses[0].EmailAddress)
}

func TestVerifyAcceptsAnyMatchingCandidate(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	v := newTestVerifier(t, now)

	body := []byte(`{"type": "user.created", "data": {"id": "user_1"}}`)
	ts := fmt.Sprintf("%d", now.Unix())
	header := "v1,bm90LXRoZS1yaWdodC1zaWduYXR1cmU= " + signBody("msg_2", ts, body)

	evt, err := v.Verify("msg_2", ts, header, body)
	require.NoError(t, err)
	assert.Equal(t, "user.created", evt.Type)
}

func TestVerifyRejectsTamperedBody(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	v := newTestVerifier(t, now)

	body := []byte(`{"type": "user.created", "data": {"id": "user_1"}}`)
	ts := fmt.Sprintf("%d", now.Unix())
	sig := signBody("msg_3", ts, body)

	tampered := []byte(`{"type": "user.created", "data": {"id": "user_2"}}`)
	_, err := v.Verify("msg_3", ts, sig, tampered)
	assert.ErrorIs(t, err, ErrBadSignature)
}

func TestVerifyRejectsMissingHeaders(t *testing.T) {
	v := newTestVerifier(t, time.Unix(1_700_000_000, 0))

	_, err := v.Verify("", "", "", []byte(`{}`))
	assert.ErrorIs(t, err, ErrBadSignature)
}

func TestVerifyRejectsStaleTimestamp(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	v := newTestVerifier(t, now)

	body := []byte(`{"type": "user.created", "data": {"id": "user_1"}}`)
	stale := fmt.Sprintf("%d", now.Add(-10*time.Minute).Unix())
	sig := signBody("msg_4", stale, body)

	_, err := v.Verify("msg_4", stale, sig, body)
	assert.ErrorIs(t, err, ErrBadSignature)
}

func TestVerifyRejectsUnparsableBody(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	v := newTestVerifier(t, now)

	body := []byte(`not json at all`)
	ts := fmt.Sprintf("%d", now.Unix())
	sig := signBody("msg_5", ts, body)

	_, err := v.Verify("msg_5", ts, sig, body)
	assert.ErrorIs(t, err, ErrMalformedPayload)
}

func TestVerifyRejectsMissingEventType(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	v := newTestVerifier(t, now)

	body := []byte(`{"data": {"id": "user_1"}}`)
	ts := fmt.Sprintf("%d", now.Unix())
	sig := signBody("msg_6", ts, body)

	_, err := v.Verify("msg_6", ts, sig, body)
	assert.ErrorIs(t, err, ErrMalformedPayload)
}

func TestNewVerifierRejectsEmptySecret(t *testing.T) {
	_, err := NewVerifier("")
	assert.Error(t, err)
}
