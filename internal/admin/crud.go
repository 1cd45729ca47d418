package admin

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"github.com/nao1215/lingo/pkg/model"
)

// crudService は1種類のエンティティのCRUDを提供するサービス。
// internal/service の各サービスが満たす。
type crudService[T any, R any] interface {
	List(ctx context.Context, filter url.Values) ([]T, error)
	Get(ctx context.Context, id string) (*T, error)
	Create(ctx context.Context, req R) (*T, error)
	Update(ctx context.Context, id string, req R) (*T, error)
	Delete(ctx context.Context, id string) error
}

// crudHandlers はエンティティのCRUDハンドラ。
type crudHandlers[T any, R any] struct {
	svc         crudService[T, R]
	parentParam string
	respond     func(c *gin.Context, err error)
}

// registerCRUD は一覧・作成・参照・編集・削除のルートを登録する。
// parentParam を指定すると一覧をそのクエリパラメータで絞り込める。
func registerCRUD[T any, R any](g *gin.RouterGroup, kind, parentParam string, svc crudService[T, R], respond func(*gin.Context, error)) {
	h := crudHandlers[T, R]{svc: svc, parentParam: parentParam, respond: respond}

	r := g.Group("/" + kind)
	{
		r.GET("", h.list)
		r.POST("", h.create)
		r.GET("/:id", h.get)
		r.PUT("/:id", h.update)
		r.DELETE("/:id", h.remove)
	}
}

func (h crudHandlers[T, R]) list(c *gin.Context) {
	var filter url.Values
	if h.parentParam != "" {
		if v := c.Query(h.parentParam); v != "" {
			filter = url.Values{h.parentParam: []string{v}}
		}
	}
	items, err := h.svc.List(c.Request.Context(), filter)
	if err != nil {
		h.respond(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

func (h crudHandlers[T, R]) get(c *gin.Context) {
	item, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respond(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

func (h crudHandlers[T, R]) create(c *gin.Context) {
	var req R
	if !bindForm(c, &req) {
		return
	}
	item, err := h.svc.Create(c.Request.Context(), req)
	if err != nil {
		h.respond(c, err)
		return
	}
	c.JSON(http.StatusCreated, item)
}

func (h crudHandlers[T, R]) update(c *gin.Context) {
	var req R
	if !bindForm(c, &req) {
		return
	}
	item, err := h.svc.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		h.respond(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

func (h crudHandlers[T, R]) remove(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.respond(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "削除しました"})
}

// bindForm はJSONまたはフォームの入力を読み込む。
// 失敗時は400を返し、false を返す。
func bindForm(c *gin.Context, req any) bool {
	if err := c.ShouldBind(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("%v: %v", model.ErrValidation, err)})
		return false
	}
	return true
}
