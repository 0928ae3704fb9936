package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func getHome(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{"message": "bankfeed backend API v1"})
}

func getHealth(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
}
