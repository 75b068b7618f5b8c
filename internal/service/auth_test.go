package service

import (
	"context"
	"errors"
	"testing"

	"github.com/octopus12176/tokimeki-checker/internal/repository"
	"github.com/spf13/viper"
	"google.golang.org/api/idtoken"
)

func fakeVerifier(claims map[string]interface{}, sub string) tokenVerifier {
	return func(_ context.Context, _, _ string) (*idtoken.Payload, error) {
		return &idtoken.Payload{Subject: sub, Claims: claims}, nil
	}
}

func googleClaims(name, email, picture string) map[string]interface{} {
	return map[string]interface{}{"name": name, "email": email, "picture": picture}
}

func TestLoginWithGoogle(t *testing.T) {
	viper.Set("jwt.secret", "test-secret")
	viper.Set("jwt.expire_hours", 1)
	defer viper.Reset()

	store := repository.NewMemoryStore()
	svc := NewAuthService(store, "client-id", nil)
	svc.verify = fakeVerifier(googleClaims("田中", "tanaka@example.com", "https://img"), "sub-123")

	token, user, err := svc.LoginWithGoogle(context.Background(), "raw-token")
	if err != nil {
		t.Fatal(err)
	}
	if token == "" {
		t.Error("JWT が空")
	}
	if user.ID != "sub-123" || user.Email != "tanaka@example.com" {
		t.Errorf("user = %+v", user)
	}

	// 档案已入库，Profile 能取到
	profile, err := svc.Profile(context.Background(), "sub-123")
	if err != nil {
		t.Fatal(err)
	}
	if profile.Name != "田中" || profile.Picture != "https://img" {
		t.Errorf("profile = %+v", profile)
	}
}

func TestLoginAllowlist(t *testing.T) {
	viper.Set("jwt.secret", "test-secret")
	defer viper.Reset()

	store := repository.NewMemoryStore()
	svc := NewAuthService(store, "client-id", []string{"Allowed@Example.com"})

	// 白名单比较忽略大小写
	svc.verify = fakeVerifier(googleClaims("a", "allowed@example.com", ""), "sub-a")
	if _, _, err := svc.LoginWithGoogle(context.Background(), "t"); err != nil {
		t.Errorf("白名单内账号被拒: %v", err)
	}

	svc.verify = fakeVerifier(googleClaims("b", "stranger@example.com", ""), "sub-b")
	if _, _, err := svc.LoginWithGoogle(context.Background(), "t"); !errors.Is(err, ErrEmailNotAllowed) {
		t.Errorf("err = %v, want ErrEmailNotAllowed", err)
	}
}

func TestLoginInvalidToken(t *testing.T) {
	store := repository.NewMemoryStore()
	svc := NewAuthService(store, "client-id", nil)
	svc.verify = func(context.Context, string, string) (*idtoken.Payload, error) {
		return nil, errors.New("signature mismatch")
	}

	if _, _, err := svc.LoginWithGoogle(context.Background(), "bad"); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("err = %v, want ErrInvalidToken", err)
	}
}
