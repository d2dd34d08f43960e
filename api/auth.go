package api

import (
	"fmt"
	"strings"
	"time"

	"kiwiledger/internal/db/models/postgres/public/model"
	"kiwiledger/internal/domain"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt"
)

const sessionContextKey = "SESSION"

// tokenTTL bounds how long a login stays valid. Role changes take effect
// when the holder logs in again.
const tokenTTL = 24 * time.Hour

type sessionClaims struct {
	UserID   int32  `json:"userId"`
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.StandardClaims
}

func (m ApiHandler) issueToken(session domain.Session) (string, error) {
	now := time.Now().UTC()
	claims := sessionClaims{
		UserID:   session.UserID,
		Username: session.Username,
		Role:     string(session.Role),
		StandardClaims: jwt.StandardClaims{
			IssuedAt:  now.Unix(),
			ExpiresAt: now.Add(tokenTTL).Unix(),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(m.JwtSigningKey))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

func (m ApiHandler) parseToken(tokenStr string) (*domain.Session, error) {
	claims := sessionClaims{}
	token, err := jwt.ParseWithClaims(tokenStr, &claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(m.JwtSigningKey), nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}
	if !token.Valid {
		return nil, fmt.Errorf("token is not valid")
	}

	return &domain.Session{
		UserID:   claims.UserID,
		Username: claims.Username,
		Role:     model.UserRole(claims.Role),
	}, nil
}

func (m ApiHandler) requireSession(c *gin.Context) {
	header := c.GetHeader("Authorization")
	if header == "" {
		returnErrorJsonCode(fmt.Errorf("missing Authorization header"), c, 401)
		return
	}
	tokenStr := strings.TrimPrefix(header, "Bearer ")

	session, err := m.parseToken(tokenStr)
	if err != nil {
		returnErrorJsonCode(err, c, 401)
		return
	}

	c.Set(sessionContextKey, *session)
	c.Next()
}

func (m ApiHandler) requireAdmin(c *gin.Context) {
	session := sessionFromContext(c)
	if !session.IsAdmin() {
		returnErrorJsonCode(fmt.Errorf("admin role required"), c, 403)
		return
	}
	c.Next()
}

// sessionFromContext only runs behind requireSession, so a missing session
// is a programming error.
func sessionFromContext(c *gin.Context) domain.Session {
	v, ok := c.Get(sessionContextKey)
	if !ok {
		panic("session middleware not installed")
	}
	return v.(domain.Session)
}
