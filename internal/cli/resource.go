package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nao1215/lingo/internal/service"
	"github.com/nao1215/lingo/pkg/httpclient"
	"github.com/nao1215/lingo/pkg/model"
)

// crudService は1種類のエンティティのCRUDを提供するサービス。
type crudService[T any, R any] interface {
	List(ctx context.Context, filter url.Values) ([]T, error)
	Get(ctx context.Context, id string) (*T, error)
	Create(ctx context.Context, req R) (*T, error)
	Update(ctx context.Context, id string, req R) (*T, error)
	Delete(ctx context.Context, id string) error
}

// kind はコマンドから操作できるエンティティの種別。
type kind struct {
	// parentParam は一覧を絞り込む親IDのクエリパラメータ名。
	parentParam string
	list        func(ctx context.Context, parentID string) (any, error)
	get         func(ctx context.Context, id string) (any, error)
	// create と update が nil の種別は作成・更新できない。
	create func(ctx context.Context, body []byte) (any, error)
	update func(ctx context.Context, id string, body []byte) (any, error)
	remove func(ctx context.Context, id string) error
}

// newKind はサービスから種別を組み立てる。
func newKind[T any, R any](svc crudService[T, R], parentParam string) kind {
	return kind{
		parentParam: parentParam,
		list: func(ctx context.Context, parentID string) (any, error) {
			var filter url.Values
			if parentParam != "" && parentID != "" {
				filter = url.Values{parentParam: []string{parentID}}
			}
			return svc.List(ctx, filter)
		},
		get: func(ctx context.Context, id string) (any, error) {
			return svc.Get(ctx, id)
		},
		create: func(ctx context.Context, body []byte) (any, error) {
			var req R
			if err := decodeStrict(body, &req); err != nil {
				return nil, err
			}
			return svc.Create(ctx, req)
		},
		update: func(ctx context.Context, id string, body []byte) (any, error) {
			var req R
			if err := decodeStrict(body, &req); err != nil {
				return nil, err
			}
			return svc.Update(ctx, id, req)
		},
		remove: svc.Delete,
	}
}

// kinds は種別名から操作を引く表を返す。
func kinds(client *httpclient.Client) map[string]kind {
	questions := service.NewQuestionService(client)
	users := service.NewUserService(client)

	return map[string]kind{
		"languages":  newKind[model.Language, model.LanguageRequest](service.NewLanguageService(client), ""),
		"courses":    newKind[model.Course, model.CourseRequest](service.NewCourseService(client), "language_id"),
		"lessons":    newKind[model.Lesson, model.LessonRequest](service.NewLessonService(client), "course_id"),
		"quizzes":    newKind[model.Quiz, model.QuizRequest](service.NewQuizService(client), "lesson_id"),
		"questions":  newKind[model.Question, model.QuestionRequest](questions, "quiz_id"),
		"challenges": newKind[model.Challenge, model.ChallengeRequest](service.NewChallengeService(client), "lesson_id"),
		"options": {
			parentParam: "question_id",
			list: func(ctx context.Context, parentID string) (any, error) {
				return questions.ListOptions(ctx, parentID)
			},
			get: func(ctx context.Context, id string) (any, error) {
				return questions.GetOption(ctx, id)
			},
			create: func(ctx context.Context, body []byte) (any, error) {
				var req model.OptionRequest
				if err := decodeStrict(body, &req); err != nil {
					return nil, err
				}
				return questions.CreateOption(ctx, req)
			},
			update: func(ctx context.Context, id string, body []byte) (any, error) {
				var req model.OptionRequest
				if err := decodeStrict(body, &req); err != nil {
					return nil, err
				}
				return questions.UpdateOption(ctx, id, req)
			},
			remove: questions.DeleteOption,
		},
		"users": {
			list: func(ctx context.Context, _ string) (any, error) {
				return users.List(ctx)
			},
			get: func(ctx context.Context, id string) (any, error) {
				return users.Get(ctx, id)
			},
			update: func(ctx context.Context, id string, body []byte) (any, error) {
				var req model.UserRequest
				if err := decodeStrict(body, &req); err != nil {
					return nil, err
				}
				return users.Update(ctx, id, req)
			},
			remove: users.Delete,
		},
	}
}

// kindNames は種別名を並べて返す。
func kindNames() []string {
	names := make([]string, 0)
	for name := range kinds(nil) {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// lookup は種別名から操作を引く。
func (a *app) lookup(name string) (kind, error) {
	k, ok := kinds(a.client)[name]
	if !ok {
		return kind{}, fmt.Errorf("不明な種別です: %s（%s）", name, strings.Join(kindNames(), ", "))
	}
	return k, nil
}

// decodeStrict は未知のフィールドを拒否してJSONをデコードする。
func decodeStrict(body []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: JSONの解析に失敗: %v", model.ErrValidation, err)
	}
	return nil
}

// readInput は -f で指定されたファイルを読む。"-" なら標準入力を読む。
func readInput(cmd *cobra.Command, file string) ([]byte, error) {
	if file == "" {
		return nil, errors.New("-f で入力ファイルを指定してください")
	}
	if file == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	return os.ReadFile(file)
}

func (a *app) listCommand() *cobra.Command {
	var parent string
	cmd := &cobra.Command{
		Use:   "list <kind>",
		Short: "一覧を表示する（" + strings.Join(kindNames(), ", ") + "）",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			k, err := a.lookup(args[0])
			if err != nil {
				return err
			}
			if parent != "" && k.parentParam == "" {
				return fmt.Errorf("%s は --parent で絞り込めません", args[0])
			}
			ctx, err := a.authenticated(cmd.Context())
			if err != nil {
				return err
			}
			items, err := k.list(ctx, parent)
			if err != nil {
				return err
			}
			return a.printJSON(items)
		},
	}
	cmd.Flags().StringVar(&parent, "parent", "", "親リソースのID（courses は言語、lessons はコースなど）")
	return cmd
}

func (a *app) getCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get <kind> <id>",
		Short: "1件を表示する",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			k, err := a.lookup(args[0])
			if err != nil {
				return err
			}
			ctx, err := a.authenticated(cmd.Context())
			if err != nil {
				return err
			}
			item, err := k.get(ctx, args[1])
			if err != nil {
				return err
			}
			return a.printJSON(item)
		},
	}
}

func (a *app) createCommand() *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "create <kind> -f <file.json>",
		Short: "JSONファイルから作成する",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			k, err := a.lookup(args[0])
			if err != nil {
				return err
			}
			if k.create == nil {
				return fmt.Errorf("%s は作成できません", args[0])
			}
			body, err := readInput(cmd, file)
			if err != nil {
				return err
			}
			ctx, err := a.authenticated(cmd.Context())
			if err != nil {
				return err
			}
			item, err := k.create(ctx, body)
			if err != nil {
				return err
			}
			return a.printJSON(item)
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "入力JSONファイル（- で標準入力）")
	return cmd
}

func (a *app) updateCommand() *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "update <kind> <id> -f <file.json>",
		Short: "JSONファイルの内容で更新する",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			k, err := a.lookup(args[0])
			if err != nil {
				return err
			}
			if k.update == nil {
				return fmt.Errorf("%s は更新できません", args[0])
			}
			body, err := readInput(cmd, file)
			if err != nil {
				return err
			}
			ctx, err := a.authenticated(cmd.Context())
			if err != nil {
				return err
			}
			item, err := k.update(ctx, args[1], body)
			if err != nil {
				return err
			}
			return a.printJSON(item)
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "入力JSONファイル（- で標準入力）")
	return cmd
}

func (a *app) deleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <kind> <id>",
		Short: "1件を削除する",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			k, err := a.lookup(args[0])
			if err != nil {
				return err
			}
			ctx, err := a.authenticated(cmd.Context())
			if err != nil {
				return err
			}
			if err := k.remove(ctx, args[1]); err != nil {
				return err
			}
			fmt.Fprintf(a.out, "%s %s を削除しました\n", args[0], args[1])
			return nil
		},
	}
}
