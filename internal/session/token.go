package session

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"strings"
	"time"
)

var (
	ErrInvalidToken = errors.New("invalid session token")
	ErrTokenExpired = errors.New("session token expired")
)

var b64 = base64.RawURLEncoding

type cookieClaims struct {
	SID string `json:"sid"`
	Exp int64  `json:"exp"`
}

// Signer issues the compact HS256 token carried in the session cookie.
type Signer struct {
	secret []byte
	now    func() time.Time
}

func NewSigner(secret string) *Signer {
	return &Signer{secret: []byte(secret), now: time.Now}
}

// Sign binds a session id to an expiry.
func (s *Signer) Sign(sid string, ttl time.Duration) (string, error) {
	header, err := json.Marshal(map[string]string{"alg": "HS256", "typ": "JWT"})
	if err != nil {
		return "", err
	}
	claims, err := json.Marshal(cookieClaims{SID: sid, Exp: s.now().Add(ttl).Unix()})
	if err != nil {
		return "", err
	}
	unsigned := b64.EncodeToString(header) + "." + b64.EncodeToString(claims)
	return unsigned + "." + b64.EncodeToString(s.mac(unsigned)), nil
}

// Verify checks the signature and expiry and returns the session id.
func (s *Signer) Verify(token string) (string, error) {
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return "", ErrInvalidToken
	}
	sig, err := b64.DecodeString(parts[2])
	if err != nil {
		return "", ErrInvalidToken
	}
	if !hmac.Equal(sig, s.mac(parts[0]+"."+parts[1])) {
		return "", ErrInvalidToken
	}
	payload, err := b64.DecodeString(parts[1])
	if err != nil {
		return "", ErrInvalidToken
	}
	var claims cookieClaims
	if err := json.Unmarshal(payload, &claims); err != nil || claims.SID == "" {
		return "", ErrInvalidToken
	}
	if s.now().Unix() >= claims.Exp {
		return "", ErrTokenExpired
	}
	return claims.SID, nil
}

func (s *Signer) mac(unsigned string) []byte {
	m := hmac.New(sha256.New, s.secret)
	m.Write([]byte(unsigned))
	return m.Sum(nil)
}
