package session

import (
	"errors"
	"time"

	"hookmock/internal/utils"

	"github.com/golang-jwt/jwt/v4"
)

// CookieName is the browser cookie carrying the signed session token.
const CookieName = "hookmock_session"

var errInvalidToken = errors.New("invalid session token")

// Manager signs and verifies the anonymous session ids that scope
// webhook-bucket ownership. The token is an opaque capability: there is
// no account behind it, just a stable id for one browser.
type Manager struct {
	secret []byte
}

func NewManager(secret string) *Manager {
	return &Manager{secret: []byte(secret)}
}

// Issue creates a fresh session id and returns it with its signed
// token.
func (m *Manager) Issue() (sessionID, token string, err error) {
	sessionID = utils.GenerateUUID()
	claims := jwt.MapClaims{
		"session_id": sessionID,
		"iat":        time.Now().Unix(),
	}

	token, err = jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", "", err
	}
	return sessionID, token, nil
}

// Parse extracts the session id from a signed token.
func (m *Manager) Parse(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errInvalidToken
		}
		return m.secret, nil
	})
	if err != nil {
		return "", err
	}

	if claims, ok := token.Claims.(jwt.MapClaims); ok && token.Valid {
		if sessionID, ok := claims["session_id"].(string); ok && sessionID != "" {
			return sessionID, nil
		}
	}
	return "", errInvalidToken
}
