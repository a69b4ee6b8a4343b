// Package auth 提供参赛者登录以及写接口上的令牌校验。
package auth

import (
	"errors"
	"fmt"
	"strings"

	"github.com/SlpAus/water-wars-backend/internal/player"
	"github.com/SlpAus/water-wars-backend/pkg/token"
	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidCredentials 表示用户名或密码错误，不区分是哪一个
var ErrInvalidCredentials = errors.New("invalid credentials")

// Service 持有启动时哈希过的凭据
type Service struct {
	hashes map[player.ID][]byte
	signer *token.Signer
}

// NewService 对配置中的明文密码做bcrypt哈希。
// 每个用户名都必须是名单中的参赛者。
func NewService(users map[string]string, roster *player.Roster, signer *token.Signer) (*Service, error) {
	hashes := make(map[player.ID][]byte, len(users))
	for name, password := range users {
		id, ok := roster.Lookup(name)
		if !ok {
			return nil, fmt.Errorf("auth: 用户 %q 不在参赛者名单中", name)
		}
		if password == "" {
			return nil, fmt.Errorf("auth: 用户 %q 的密码为空", name)
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("auth: 无法哈希用户 %q 的密码: %w", name, err)
		}
		hashes[id] = hash
	}
	return &Service{hashes: hashes, signer: signer}, nil
}

// Login 校验凭据并签发令牌，用户名不区分大小写
func (s *Service) Login(username, password string) (player.ID, string, error) {
	id := player.ID(strings.ToLower(strings.TrimSpace(username)))
	hash, ok := s.hashes[id]
	if !ok {
		return "", "", ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword(hash, []byte(password)); err != nil {
		return "", "", ErrInvalidCredentials
	}

	tok, err := s.signer.Sign(string(id))
	if err != nil {
		return "", "", fmt.Errorf("auth: 无法签发令牌: %w", err)
	}
	return id, tok, nil
}

// Verify 校验令牌并返回其中的参赛者
func (s *Service) Verify(raw string) (player.ID, error) {
	p, err := s.signer.Verify(raw)
	if err != nil {
		return "", err
	}
	id := player.ID(p)
	if _, ok := s.hashes[id]; !ok {
		return "", token.ErrInvalidToken
	}
	return id, nil
}
