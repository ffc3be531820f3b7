package services

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"

	"useradmin-http-service/internal/domain/models"
	"useradmin-http-service/internal/infrastructure/config"
)

// SessionCookieName 会话Cookie名称
const SessionCookieName = "sessionid"

// sessionKeyPrefix Redis中会话键的前缀
const sessionKeyPrefix = "session:"

// 会话服务返回的错误
var (
	ErrSessionNotFound = errors.New("session not found or expired")
	ErrSessionInvalid  = errors.New("invalid session cookie")
)

// SessionData 会话中保存的数据。登出时整个键被删除，不残留任何会话数据
type SessionData struct {
	UserID   uint   `json:"user_id"`
	Username string `json:"username"`
	IsStaff  bool   `json:"is_staff"`
}

// sessionClaims 会话Cookie的JWT声明。Cookie中只存会话ID，数据都在Redis里
type sessionClaims struct {
	SessionID string `json:"sid"`
	jwt.RegisteredClaims
}

// InterfaceSessionService defines the session service interface
type InterfaceSessionService interface {
	CreateSession(user *models.User) (string, error)
	GetSession(cookieValue string) (*SessionData, error)
	FlushSession(cookieValue string) error
}

// SessionService 基于Redis的服务端会话，Cookie为HS256签名的会话ID
type SessionService struct {
	Client    *redis.Client
	Ctx       context.Context
	secretKey string
	issuer    string
	ttl       time.Duration
}

// NewSessionService 创建一个新的会话服务
func NewSessionService(cfg *config.Config) *SessionService {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.GetRedisAddr(),
		Password: "", // No password set
		DB:       cfg.RedisDB,
	})

	return &SessionService{
		Client:    client,
		Ctx:       context.Background(),
		secretKey: cfg.SessionSecretKey,
		issuer:    "useradmin-http-service",
		ttl:       time.Duration(cfg.SessionTTLHours) * time.Hour,
	}
}

// CreateSession 为认证成功的用户创建会话，返回Cookie值
func (s *SessionService) CreateSession(user *models.User) (string, error) {
	sessionID := uuid.NewString()

	data := SessionData{
		UserID:   user.ID,
		Username: user.Username,
		IsStaff:  user.IsStaff,
	}
	jsonValue, err := json.Marshal(data)
	if err != nil {
		return "", err
	}

	if err := s.Client.Set(s.Ctx, sessionKeyPrefix+sessionID, jsonValue, s.ttl).Err(); err != nil {
		return "", err
	}

	return s.signSessionID(sessionID)
}

// GetSession 解析Cookie并从Redis读取会话数据
func (s *SessionService) GetSession(cookieValue string) (*SessionData, error) {
	sessionID, err := s.parseSessionID(cookieValue)
	if err != nil {
		return nil, ErrSessionInvalid
	}

	val, err := s.Client.Get(s.Ctx, sessionKeyPrefix+sessionID).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}

	var data SessionData
	if err := json.Unmarshal([]byte(val), &data); err != nil {
		return nil, err
	}
	return &data, nil
}

// FlushSession 删除整个会话键。Cookie无效时视为无会话，不报错
func (s *SessionService) FlushSession(cookieValue string) error {
	sessionID, err := s.parseSessionID(cookieValue)
	if err != nil {
		return nil
	}
	return s.Client.Del(s.Ctx, sessionKeyPrefix+sessionID).Err()
}

// signSessionID 将会话ID签名为HS256令牌，防止Cookie被篡改
func (s *SessionService) signSessionID(sessionID string) (string, error) {
	now := time.Now()
	claims := &sessionClaims{
		SessionID: sessionID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    s.issuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.secretKey))
}

// parseSessionID 验证签名并取出会话ID
func (s *SessionService) parseSessionID(cookieValue string) (string, error) {
	claims := &sessionClaims{}
	token, err := jwt.ParseWithClaims(cookieValue, claims, func(token *jwt.Token) (interface{}, error) {
		// 验证签名算法
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrSessionInvalid
		}
		return []byte(s.secretKey), nil
	})
	if err != nil || !token.Valid || claims.SessionID == "" {
		return "", ErrSessionInvalid
	}
	return claims.SessionID, nil
}
