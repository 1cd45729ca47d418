package admin

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nao1215/lingo/pkg/model"
)

// handleListOptions は設問の選択肢一覧を返すハンドラを返す。
func (s *Server) handleListOptions() gin.HandlerFunc {
	return func(c *gin.Context) {
		opts, err := s.svc.questions.ListOptions(c.Request.Context(), c.Param("id"))
		if err != nil {
			s.respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, opts)
	}
}

// handleCreateOption は設問に選択肢を追加するハンドラを返す。
// 設問IDはパスの値を使う。
func (s *Server) handleCreateOption() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req model.OptionRequest
		req.QuestionID = c.Param("id")
		if !bindForm(c, &req) {
			return
		}
		req.QuestionID = c.Param("id")

		opt, err := s.svc.questions.CreateOption(c.Request.Context(), req)
		if err != nil {
			s.respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, opt)
	}
}

// handleGetOption は選択肢を1件返すハンドラを返す。
func (s *Server) handleGetOption() gin.HandlerFunc {
	return func(c *gin.Context) {
		opt, ok := s.optionOf(c)
		if !ok {
			return
		}
		c.JSON(http.StatusOK, opt)
	}
}

// handleUpdateOption は選択肢を更新するハンドラを返す。
func (s *Server) handleUpdateOption() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := s.optionOf(c); !ok {
			return
		}
		var req model.OptionRequest
		req.QuestionID = c.Param("id")
		if !bindForm(c, &req) {
			return
		}
		req.QuestionID = c.Param("id")

		opt, err := s.svc.questions.UpdateOption(c.Request.Context(), c.Param("option_id"), req)
		if err != nil {
			s.respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, opt)
	}
}

// handleDeleteOption は選択肢を削除するハンドラを返す。
func (s *Server) handleDeleteOption() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := s.optionOf(c); !ok {
			return
		}
		if err := s.svc.questions.DeleteOption(c.Request.Context(), c.Param("option_id")); err != nil {
			s.respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "削除しました"})
	}
}

// optionOf はパスの選択肢を取得し、パスの設問に属していることを確認する。
func (s *Server) optionOf(c *gin.Context) (*model.Option, bool) {
	opt, err := s.svc.questions.GetOption(c.Request.Context(), c.Param("option_id"))
	if err != nil {
		s.respondError(c, err)
		return nil, false
	}
	if opt.QuestionID != c.Param("id") {
		c.JSON(http.StatusNotFound, gin.H{"error": "この設問の選択肢ではありません"})
		return nil, false
	}
	return opt, true
}
