package admin

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nao1215/lingo/pkg/model"
)

// handleListUsers はユーザー一覧を返すハンドラを返す。
func (s *Server) handleListUsers() gin.HandlerFunc {
	return func(c *gin.Context) {
		users, err := s.svc.users.List(c.Request.Context())
		if err != nil {
			s.respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, users)
	}
}

// handleGetUser はユーザーを1件返すハンドラを返す。
func (s *Server) handleGetUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := s.svc.users.Get(c.Request.Context(), c.Param("id"))
		if err != nil {
			s.respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, user)
	}
}

// handleUpdateUser はユーザーを更新するハンドラを返す。
func (s *Server) handleUpdateUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req model.UserRequest
		if !bindForm(c, &req) {
			return
		}
		user, err := s.svc.users.Update(c.Request.Context(), c.Param("id"), req)
		if err != nil {
			s.respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, user)
	}
}

// handleDeleteUser はユーザーを削除するハンドラを返す。
func (s *Server) handleDeleteUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := s.svc.users.Delete(c.Request.Context(), c.Param("id")); err != nil {
			s.respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "削除しました"})
	}
}
