// Package utils 提供通用工具函数
package utils

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token expired")
)

const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

// Subject 令牌携带的身份：用户、所属团队与角色
type Subject struct {
	UserID uint64
	TeamID uint64
	Role   string
}

// Claims 日报服务签发的 JWT 声明
type Claims struct {
	UserID uint64 `json:"user_id"`
	TeamID uint64 `json:"team_id,omitempty"`
	Role   string `json:"role"`
	Type   string `json:"type"`
	jwt.RegisteredClaims
}

// ToSubject 返回声明中的主体信息
func (c *Claims) ToSubject() Subject {
	return Subject{UserID: c.UserID, TeamID: c.TeamID, Role: c.Role}
}

// TokenPair 登录时下发的访问令牌与刷新令牌
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// JWTManager 使用 HS256 签发和校验令牌
type JWTManager struct {
	key    []byte
	issuer string
	parser *jwt.Parser
}

func NewJWTManager(secret, issuer string) *JWTManager {
	return &JWTManager{
		key:    []byte(secret),
		issuer: issuer,
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
			jwt.WithIssuer(issuer),
		),
	}
}

// GenerateTokenPair 为同一主体签发 access 与 refresh 令牌
func (m *JWTManager) GenerateTokenPair(sub Subject, accessTTL, refreshTTL time.Duration) (*TokenPair, error) {
	var pair TokenPair
	var err error
	if pair.AccessToken, err = m.GenerateToken(sub, TokenTypeAccess, accessTTL); err != nil {
		return nil, err
	}
	if pair.RefreshToken, err = m.GenerateToken(sub, TokenTypeRefresh, refreshTTL); err != nil {
		return nil, err
	}
	return &pair, nil
}

// GenerateToken 签发单个令牌，ttl 为负时得到一个已过期的令牌
func (m *JWTManager) GenerateToken(sub Subject, tokenType string, ttl time.Duration) (string, error) {
	issued := time.Now()
	claims := &Claims{
		UserID: sub.UserID,
		TeamID: sub.TeamID,
		Role:   sub.Role,
		Type:   tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    m.issuer,
			IssuedAt:  jwt.NewNumericDate(issued),
			NotBefore: jwt.NewNumericDate(issued),
			ExpiresAt: jwt.NewNumericDate(issued.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.key)
}

// ParseToken 校验签名、签发方与有效期；过期返回 ErrExpiredToken，其余失败统一为 ErrInvalidToken
func (m *JWTManager) ParseToken(raw string) (*Claims, error) {
	claims := &Claims{}
	_, err := m.parser.ParseWithClaims(raw, claims, func(*jwt.Token) (any, error) {
		return m.key, nil
	})
	switch {
	case err == nil:
		return claims, nil
	case errors.Is(err, jwt.ErrTokenExpired):
		return nil, ErrExpiredToken
	default:
		return nil, ErrInvalidToken
	}
}
