// Package api exposes the retrieval pipeline over HTTP: upload,
// search, grounded question answering and the document lifecycle.
package api

import "github.com/gin-gonic/gin"

// Register mounts all API routes on the given router group.
func (s *Server) Register(r gin.IRouter) {
	r.GET("/health", s.handleHealth)
	r.POST("/upload", s.handleUpload)
	r.GET("/search", s.handleSearch)
	r.POST("/ask", s.handleAsk)
	r.GET("/documents", s.handleListDocuments)
	r.DELETE("/documents/:id", s.handleDeleteDocument)
}
