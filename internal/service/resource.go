// Package service はバックエンドREST APIのエンティティごとのサービスを提供する。
// 各サービスは認証付きHTTPクライアントの薄いラッパーで、
// 作成・更新の前にフォームの必須項目を検証する。
package service

import (
	"context"
	"fmt"
	"net/url"

	"github.com/nao1215/lingo/pkg/model"
)

// APIPrefix はバックエンドAPIのバージョン付きパス。
const APIPrefix = "/api/v1"

// Requester はサービスが使うHTTPクライアントの操作。
// *httpclient.Client が満たす。
type Requester interface {
	GetJSON(ctx context.Context, path string, result any) error
	PostJSON(ctx context.Context, path string, body any, result any) error
	PutJSON(ctx context.Context, path string, body any, result any) error
	DeleteJSON(ctx context.Context, path string, result any) error
}

// resource は1種類のエンティティに対するCRUD操作。
// T はレスポンスのエンティティ、R は作成・更新のリクエスト。
type resource[T any, R any] struct {
	client Requester
	path   string
}

// newResource はAPIPrefix配下のパスに対するresourceを生成する。
func newResource[T any, R any](client Requester, name string) resource[T, R] {
	return resource[T, R]{client: client, path: APIPrefix + "/" + name}
}

// List は一覧を取得する。filter はクエリパラメータとして付与する。
func (r resource[T, R]) List(ctx context.Context, filter url.Values) ([]T, error) {
	p := r.path
	if len(filter) > 0 {
		p += "?" + filter.Encode()
	}
	var items []T
	if err := r.client.GetJSON(ctx, p, &items); err != nil {
		return nil, err
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}

// Get はIDを指定して1件取得する。
func (r resource[T, R]) Get(ctx context.Context, id string) (*T, error) {
	p, err := r.itemPath(id)
	if err != nil {
		return nil, err
	}
	var item T
	if err := r.client.GetJSON(ctx, p, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

// Create は検証済みのリクエストで1件作成する。
func (r resource[T, R]) Create(ctx context.Context, req R) (*T, error) {
	if err := model.Validate(req); err != nil {
		return nil, err
	}
	var item T
	if err := r.client.PostJSON(ctx, r.path, req, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

// Update は検証済みのリクエストで1件更新する。
func (r resource[T, R]) Update(ctx context.Context, id string, req R) (*T, error) {
	if err := model.Validate(req); err != nil {
		return nil, err
	}
	p, err := r.itemPath(id)
	if err != nil {
		return nil, err
	}
	var item T
	if err := r.client.PutJSON(ctx, p, req, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

// Delete はIDを指定して1件削除する。
func (r resource[T, R]) Delete(ctx context.Context, id string) error {
	p, err := r.itemPath(id)
	if err != nil {
		return err
	}
	return r.client.DeleteJSON(ctx, p, nil)
}

// itemPath は1件を指すパスを返す。
func (r resource[T, R]) itemPath(id string) (string, error) {
	if id == "" {
		return "", fmt.Errorf("%w: idが指定されていません", model.ErrValidation)
	}
	return r.path + "/" + url.PathEscape(id), nil
}

// byParent は親IDでの絞り込み条件を返す。
func byParent(key, id string) url.Values {
	if id == "" {
		return nil
	}
	return url.Values{key: []string{id}}
}
