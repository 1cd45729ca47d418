package service

import (
	"context"
	"errors"

	"github.com/nao1215/lingo/pkg/model"
)

// AuthService は認証エンドポイントを呼び出す。
type AuthService struct {
	client Requester
}

// NewAuthService は新しいAuthServiceを生成する。
func NewAuthService(client Requester) *AuthService {
	return &AuthService{client: client}
}

// Register は管理者としてユーザーを登録し、トークンの組を返す。
// フォームの値に関わらず役割は常に RoleAdmin になる。
func (s *AuthService) Register(ctx context.Context, req model.RegisterRequest) (model.TokenPair, error) {
	req.Role = model.RoleAdmin
	if err := model.Validate(req); err != nil {
		return model.TokenPair{}, err
	}
	return s.issue(ctx, APIPrefix+"/auth/register", req)
}

// Authenticate はメールアドレスとパスワードでログインし、トークンの組を返す。
func (s *AuthService) Authenticate(ctx context.Context, req model.AuthenticateRequest) (model.TokenPair, error) {
	if err := model.Validate(req); err != nil {
		return model.TokenPair{}, err
	}
	return s.issue(ctx, APIPrefix+"/auth/authenticate", req)
}

// issue はトークンを発行するエンドポイントを呼び出す。
func (s *AuthService) issue(ctx context.Context, path string, body any) (model.TokenPair, error) {
	var pair model.TokenPair
	if err := s.client.PostJSON(ctx, path, body, &pair); err != nil {
		return model.TokenPair{}, err
	}
	if pair.AccessToken == "" || pair.RefreshToken == "" {
		return model.TokenPair{}, errors.New("認証レスポンスにトークンが含まれていません")
	}
	return pair, nil
}
