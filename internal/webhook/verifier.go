// Package webhook verifies signed identity-provider webhook requests
// following the Svix signing scheme used by Clerk: the signed content is
// "{id}.{timestamp}.{body}", the signature is an HMAC-SHA256 keyed by
// the shared secret, and the signature header may carry several
// space-separated "v1,<base64>" candidates of which one must match.
package webhook

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jonahkingcs/game-api-with-clerk/internal/models"
)

var (
	// ErrBadSignature covers missing headers, stale timestamps and
	// signature mismatches. The caller rejects the request and the
	// provider's own retry policy takes over.
	ErrBadSignature = errors.New("webhook signature verification failed")

	// ErrMalformedPayload means the body passed the signature check but
	// is not a well-formed event envelope.
	ErrMalformedPayload = errors.New("malformed webhook payload")
)

const (
	secretPrefix     = "whsec_"
	defaultTolerance = 5 * time.Minute
)

type Verifier struct {
	key       []byte
	tolerance time.Duration
	now       func() time.Time
}

func NewVerifier(secret string) (*Verifier, error) {
	if secret == "" {
		return nil, fmt.Errorf("webhook signing secret is required")
	}

	key, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(secret, secretPrefix))
	if err != nil {
		return nil, fmt.Errorf("invalid webhook signing secret: %w", err)
	}

	return &Verifier{
		key:       key,
		tolerance: defaultTolerance,
		now:       time.Now,
	}, nil
}

// Verify authenticates a raw webhook request and decodes it into a
// typed event. It is pure: no side effects, no retries.
func (v *Verifier) Verify(msgID, msgTimestamp, msgSignature string, body []byte) (*models.WebhookEvent, error) {
	if msgID == "" || msgTimestamp == "" || msgSignature == "" {
		return nil, fmt.Errorf("%w: missing svix headers", ErrBadSignature)
	}

	ts, err := strconv.ParseInt(msgTimestamp, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid timestamp", ErrBadSignature)
	}

	age := v.now().Sub(time.Unix(ts, 0))
	if age > v.tolerance || age < -v.tolerance {
		return nil, fmt.Errorf("%w: timestamp outside tolerance", ErrBadSignature)
	}

	expected := v.sign(msgID, msgTimestamp, body)
	if !matchSignature(expected, msgSignature) {
		return nil, fmt.Errorf("%w: no matching signature", ErrBadSignature)
	}

	var envelope struct {
		Type string               `json:"type"`
		Data models.UserEventData `json:"data"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}
	if envelope.Type == "" {
		return nil, fmt.Errorf("%w: missing event type", ErrMalformedPayload)
	}

	return &models.WebhookEvent{
		ID:   msgID,
		Type: envelope.Type,
		Data: envelope.Data,
	}, nil
}

func (v *Verifier) sign(msgID, msgTimestamp string, body []byte) string {
	mac := hmac.New(sha256.New, v.key)
	fmt.Fprintf(mac, "%s.%s.", msgID, msgTimestamp)
	mac.Write(body)
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

func matchSignature(expected, header string) bool {
	for _, candidate := range strings.Split(header, " ") {
		version, sig, found := strings.Cut(candidate, ",")
		if !found || version != "v1" {
			continue
		}
		if hmac.Equal([]byte(sig), []byte(expected)) {
			return true
		}
	}
	return false
}
