package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	app "github.com/liuhuapiaoyuan/activepieces"
)

type healthResponse struct {
	Service string `json:"service"`
	Version string `json:"version"`
	Status  string `json:"status"`
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, healthResponse{
		Service: app.Name,
		Version: app.Version,
		Status:  "healthy",
	})
}
