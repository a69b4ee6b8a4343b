// Package token 负责签发和校验登录令牌 (HS256 JWT)。
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken 表示令牌无法通过校验，包括签名错误、格式错误和过期
var ErrInvalidToken = errors.New("invalid or expired token")

// Claims 是令牌中携带的数据。
// 序列化后的字段为 player、exp 和 iat。
type Claims struct {
	Player string `json:"player"`
	jwt.RegisteredClaims
}

// Signer 使用同一个密钥签发和校验令牌
type Signer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewSigner 创建一个签发器，secret 不能为空
func NewSigner(secret string, ttl time.Duration) (*Signer, error) {
	if secret == "" {
		return nil, errors.New("token: 密钥不能为空")
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("token: 有效期必须为正数，当前为 %v", ttl)
	}
	return &Signer{secret: []byte(secret), ttl: ttl, now: time.Now}, nil
}

// Sign 为参赛者签发一个新令牌
func (s *Signer) Sign(player string) (string, error) {
	now := s.now()
	claims := Claims{
		Player: player,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// Verify 校验令牌并返回其中的参赛者
func (s *Signer) Verify(raw string) (string, error) {
	var claims Claims
	tok, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(s.now), jwt.WithExpirationRequired())
	if err != nil || !tok.Valid {
		return "", ErrInvalidToken
	}
	if claims.Player == "" {
		return "", ErrInvalidToken
	}
	return claims.Player, nil
}
