package service

import (
	"errors"
	"os"
	"time"

	"farkle_server/internal/logger"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	jwtSecret []byte

	ErrInvalidToken = errors.New("invalid session token")
)

const sessionTTL = 24 * time.Hour

// гостевая сессия: id выдается сервером, имя выбирает игрок
type Session struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type sessionClaims struct {
	Name string `json:"name"`
	jwt.RegisteredClaims
}

// InitJWT читает секрет подписи из окружения
func InitJWT() {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		logger.Warn("JWT_SECRET не задан - используется небезопасный секрет для разработки")
		secret = "dev-secret-change-me"
	}
	jwtSecret = []byte(secret)
}

// IssueSessionToken создает гостевую сессию и подписывает токен
func IssueSessionToken(name string) (string, *Session, error) {
	sess := &Session{ID: uuid.NewString(), Name: name}

	now := time.Now()
	claims := sessionClaims{
		Name: name,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   sess.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(sessionTTL)),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(jwtSecret)
	if err != nil {
		return "", nil, err
	}
	return token, sess, nil
}

// ParseSessionToken проверяет подпись и возвращает сессию
func ParseSessionToken(tokenString string) (*Session, error) {
	var claims sessionClaims
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return jwtSecret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.Subject == "" || claims.Name == "" {
		return nil, ErrInvalidToken
	}
	return &Session{ID: claims.Subject, Name: claims.Name}, nil
}
