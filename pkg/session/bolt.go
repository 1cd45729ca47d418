package session

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.etcd.io/bbolt"
)

// bucketTokens はトークンを保存するバケット名。
var bucketTokens = []byte("tokens")

// BoltStore はローカルファイルにトークンを保存するStore。
// コマンドラインクライアントがログイン状態をプロセスをまたいで保持するために使う。
type BoltStore struct {
	db *bbolt.DB
}

// OpenBolt はbboltファイルを開く。存在しなければディレクトリごと作成する。
func OpenBolt(path string) (*BoltStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("ディレクトリの作成に失敗: %w", err)
	}

	db, err := bbolt.Open(path, 0o600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("トークンファイルのオープンに失敗: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketTokens)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("バケットの作成に失敗: %w", err)
	}
	return &BoltStore{db: db}, nil
}

// Load はトークンを読み込む。
func (b *BoltStore) Load(_ context.Context, id string) (Tokens, error) {
	var tokens Tokens
	err := b.db.View(func(tx *bbolt.Tx) error {
		v := tx.Bucket(bucketTokens).Get([]byte(id))
		if v == nil {
			return ErrNotFound
		}
		return json.Unmarshal(v, &tokens)
	})
	if err != nil {
		return Tokens{}, err
	}
	return tokens, nil
}

// Save はトークンを上書き保存する。
func (b *BoltStore) Save(_ context.Context, id string, tokens Tokens) error {
	data, err := json.Marshal(tokens)
	if err != nil {
		return fmt.Errorf("トークンのシリアライズに失敗: %w", err)
	}
	return b.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketTokens).Put([]byte(id), data)
	})
}

// Update は保存済みのトークンを書き換える。
// 別プロセスでログアウト済みなら ErrNotFound を返す。
func (b *BoltStore) Update(_ context.Context, id string, tokens Tokens) error {
	data, err := json.Marshal(tokens)
	if err != nil {
		return fmt.Errorf("トークンのシリアライズに失敗: %w", err)
	}
	return b.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketTokens)
		if bucket.Get([]byte(id)) == nil {
			return ErrNotFound
		}
		return bucket.Put([]byte(id), data)
	})
}

// Delete はトークンを削除する。
func (b *BoltStore) Delete(_ context.Context, id string) error {
	return b.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketTokens).Delete([]byte(id))
	})
}

// Close はファイルを閉じる。
func (b *BoltStore) Close() error {
	return b.db.Close()
}
