// Package auth определяет владельца запроса по подписанному токену сессии.
//
// Токен - JWT (HS256), выданный внешним провайдером идентичности с общим
// секретом. Владелец берётся из claim "sub" (или "user_id", если sub пуст).
// Токен читается из заголовка Authorization: Bearer, а при его отсутствии -
// из cookie сессии.
package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrUnauthenticated = errors.New("пользователь не аутентифицирован")

const DefaultCookieName = "session"

type Config struct {
	Secret     string
	Issuer     string
	CookieName string
}

type Claims struct {
	UserID string `json:"user_id,omitempty"`
	jwt.RegisteredClaims
}

// Gate - шлюз авторизации. Не хранит состояния между запросами.
type Gate struct {
	secret     []byte
	cookieName string
	parser     *jwt.Parser
}

func NewGate(cfg Config) *Gate {
	options := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	}
	if cfg.Issuer != "" {
		options = append(options, jwt.WithIssuer(cfg.Issuer))
	}

	cookieName := cfg.CookieName
	if cookieName == "" {
		cookieName = DefaultCookieName
	}

	return &Gate{
		secret:     []byte(cfg.Secret),
		cookieName: cookieName,
		parser:     jwt.NewParser(options...),
	}
}

// Resolve возвращает id владельца или ErrUnauthenticated.
func (g *Gate) Resolve(r *http.Request) (string, error) {
	raw := g.tokenFromRequest(r)
	if raw == "" {
		return "", ErrUnauthenticated
	}

	claims := &Claims{}
	_, err := g.parser.ParseWithClaims(raw, claims, func(token *jwt.Token) (any, error) {
		return g.secret, nil
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnauthenticated, err)
	}

	ownerID := strings.TrimSpace(claims.Subject)
	if ownerID == "" {
		ownerID = strings.TrimSpace(claims.UserID)
	}
	if ownerID == "" {
		return "", fmt.Errorf("%w: в токене нет идентификатора пользователя", ErrUnauthenticated)
	}
	return ownerID, nil
}

func (g *Gate) tokenFromRequest(r *http.Request) string {
	if header := r.Header.Get("Authorization"); header != "" {
		scheme, token, ok := strings.Cut(header, " ")
		if !ok || !strings.EqualFold(scheme, "Bearer") {
			return ""
		}
		return strings.TrimSpace(token)
	}

	cookie, err := r.Cookie(g.cookieName)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(cookie.Value)
}

// Issuer выпускает токены тем же секретом. Используется CLI-командой token и тестами.
type Issuer struct {
	secret []byte
	issuer string
}

func NewIssuer(cfg Config) *Issuer {
	return &Issuer{secret: []byte(cfg.Secret), issuer: cfg.Issuer}
}

func (i *Issuer) Issue(ownerID string, ttl time.Duration) (string, error) {
	if strings.TrimSpace(ownerID) == "" {
		return "", errors.New("пустой id пользователя")
	}
	now := time.Now()
	claims := Claims{
		UserID: ownerID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    i.issuer,
			Subject:   ownerID,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("подпись токена: %w", err)
	}
	return signed, nil
}

type contextKey string

const ownerKey contextKey = "owner_id"

func WithOwner(ctx context.Context, ownerID string) context.Context {
	return context.WithValue(ctx, ownerKey, ownerID)
}

func OwnerFrom(ctx context.Context) (string, error) {
	if id, ok := ctx.Value(ownerKey).(string); ok && id != "" {
		return id, nil
	}
	return "", ErrUnauthenticated
}
