package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/octopus12176/tokimeki-checker/internal/model"
	"github.com/octopus12176/tokimeki-checker/internal/repository"
	"github.com/spf13/viper"
	"google.golang.org/api/idtoken"
)

var (
	// ErrInvalidToken Google ID Token 校验没过
	ErrInvalidToken = errors.New("invalid google id token")
	// ErrEmailNotAllowed 账号不在白名单里
	ErrEmailNotAllowed = errors.New("email not in allowlist")
)

// tokenVerifier 抽出来是为了测试时不用真连 Google
type tokenVerifier func(ctx context.Context, token, audience string) (*idtoken.Payload, error)

type AuthService struct {
	userRepo      repository.UserRepo
	clientID      string
	allowedEmails []string
	verify        tokenVerifier
}

func NewAuthService(userRepo repository.UserRepo, clientID string, allowedEmails []string) *AuthService {
	return &AuthService{
		userRepo:      userRepo,
		clientID:      clientID,
		allowedEmails: allowedEmails,
		verify:        idtoken.Validate,
	}
}

// LoginWithGoogle 前端用 Google Sign-In 拿到 ID Token 后换我们自己的 JWT
// 流程：验签 → 白名单 → upsert 用户档案 → 发 Token
func (s *AuthService) LoginWithGoogle(ctx context.Context, rawIDToken string) (string, *model.User, error) {
	payload, err := s.verify(ctx, rawIDToken, s.clientID)
	if err != nil {
		return "", nil, ErrInvalidToken
	}

	email, _ := payload.Claims["email"].(string)
	if !s.emailAllowed(email) {
		return "", nil, ErrEmailNotAllowed
	}

	name, _ := payload.Claims["name"].(string)
	picture, _ := payload.Claims["picture"].(string)
	user := &model.User{
		ID:      payload.Subject, // Google 的 sub 直接做主键
		Name:    name,
		Email:   email,
		Picture: picture,
	}
	if err := s.userRepo.Upsert(ctx, user); err != nil {
		return "", nil, err
	}

	token, err := s.generateToken(user.ID)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

// Profile 按 JWT 里的 user_id 取当前用户档案
func (s *AuthService) Profile(ctx context.Context, userID string) (*model.User, error) {
	return s.userRepo.Find(ctx, userID)
}

// emailAllowed 白名单为空表示不限制；比较忽略大小写
func (s *AuthService) emailAllowed(email string) bool {
	if len(s.allowedEmails) == 0 {
		return true
	}
	for _, allowed := range s.allowedEmails {
		if strings.EqualFold(allowed, email) {
			return true
		}
	}
	return false
}

func (s *AuthService) generateToken(userID string) (string, error) {
	secret := viper.GetString("jwt.secret")
	expireHours := viper.GetInt("jwt.expire_hours")
	if expireHours <= 0 {
		expireHours = 24 * 7 // 和原来的会话 TTL 对齐：7 天
	}

	claims := jwt.MapClaims{
		"user_id": userID,
		"exp":     time.Now().Add(time.Hour * time.Duration(expireHours)).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}
