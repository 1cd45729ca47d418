package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/nao1215/lingo/pkg/model"
)

// passwordOrEnv はフラグのパスワードを返し、空なら LINGO_PASSWORD を使う。
func passwordOrEnv(flag string) (string, error) {
	if flag != "" {
		return flag, nil
	}
	if v := os.Getenv("LINGO_PASSWORD"); v != "" {
		return v, nil
	}
	return "", errors.New("--password または LINGO_PASSWORD を指定してください")
}

func (a *app) loginCommand() *cobra.Command {
	var email, password string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "ログインしてトークンを保存する",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			pw, err := passwordOrEnv(password)
			if err != nil {
				return err
			}
			if _, err := a.manager.Login(cmd.Context(), sessionID, email, pw); err != nil {
				return fmt.Errorf("ログインに失敗: %w", err)
			}
			fmt.Fprintf(a.out, "%s としてログインしました\n", email)
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "メールアドレス")
	cmd.Flags().StringVar(&password, "password", "", "パスワード（省略時は LINGO_PASSWORD）")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func (a *app) registerCommand() *cobra.Command {
	var req model.RegisterRequest
	var password string
	cmd := &cobra.Command{
		Use:   "register",
		Short: "管理者ユーザーを登録してログインする",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			pw, err := passwordOrEnv(password)
			if err != nil {
				return err
			}
			req.Password = pw
			if _, err := a.manager.Register(cmd.Context(), sessionID, req); err != nil {
				return fmt.Errorf("登録に失敗: %w", err)
			}
			fmt.Fprintf(a.out, "%s を管理者として登録しました\n", req.Email)
			return nil
		},
	}
	cmd.Flags().StringVar(&req.FirstName, "firstname", "", "名")
	cmd.Flags().StringVar(&req.LastName, "lastname", "", "姓")
	cmd.Flags().StringVar(&req.Email, "email", "", "メールアドレス")
	cmd.Flags().StringVar(&password, "password", "", "パスワード（省略時は LINGO_PASSWORD）")
	return cmd
}

func (a *app) logoutCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "保存済みのトークンを破棄する",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.manager.Logout(cmd.Context(), sessionID); err != nil {
				return err
			}
			fmt.Fprintln(a.out, "ログアウトしました")
			return nil
		},
	}
}
