// Package token signs and verifies the self-describing callback
// payloads attached to quiz answer buttons. Telegram limits callback
// data to 64 bytes, so the signature is a truncated HMAC rather than a
// full token format.
package token

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"

	"lexibot/internal/domain"
)

const (
	// AnswerPrefix namespaces quiz answer callbacks.
	AnswerPrefix = "ans"

	// sigBytes is the truncated HMAC-SHA256 length. 48 bits is ample
	// for anti-tamper on short-lived button payloads while keeping the
	// whole token inside Telegram's 64-byte callback limit.
	sigBytes = 6
)

// AnswerPayload is the grading context carried inside a signed answer
// token. The token is the only state: no quiz session is kept on the
// server side.
type AnswerPayload struct {
	Term         string
	ChosenIndex  int
	CorrectIndex int
}

// Signer produces and verifies signed answer tokens.
type Signer struct {
	secret []byte
}

func NewSigner(secret string) *Signer {
	return &Signer{secret: []byte(secret)}
}

// AnswerToken encodes payload as "ans:<term>:<chosen>:<correct>:<sig>".
// Terms never contain a colon, so colon-splitting on parse is safe.
func (s *Signer) AnswerToken(p AnswerPayload) string {
	body := fmt.Sprintf("%s:%s:%d:%d", AnswerPrefix, p.Term, p.ChosenIndex, p.CorrectIndex)
	return body + ":" + s.sign(body)
}

// ParseAnswerToken verifies the signature and decodes the payload.
// Any malformed or tampered token yields an invalid-token error.
func (s *Signer) ParseAnswerToken(data string) (*AnswerPayload, error) {
	idx := strings.LastIndex(data, ":")
	if idx < 0 {
		return nil, domain.NewInvalidTokenError()
	}
	body, sig := data[:idx], data[idx+1:]

	if !hmac.Equal([]byte(sig), []byte(s.sign(body))) {
		return nil, domain.NewInvalidTokenError()
	}

	parts := strings.Split(body, ":")
	if len(parts) != 4 || parts[0] != AnswerPrefix {
		return nil, domain.NewInvalidTokenError()
	}
	chosen, err := strconv.Atoi(parts[2])
	if err != nil {
		return nil, domain.NewInvalidTokenError()
	}
	correct, err := strconv.Atoi(parts[3])
	if err != nil {
		return nil, domain.NewInvalidTokenError()
	}
	if chosen < 0 || chosen >= domain.QuizOptionCount || correct < 0 || correct >= domain.QuizOptionCount {
		return nil, domain.NewInvalidTokenError()
	}

	return &AnswerPayload{
		Term:         parts[1],
		ChosenIndex:  chosen,
		CorrectIndex: correct,
	}, nil
}

func (s *Signer) sign(body string) string {
	mac := hmac.New(sha256.New, s.secret)
	mac.Write([]byte(body))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil)[:sigBytes])
}
