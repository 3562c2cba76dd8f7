package respond

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func JSON(c *gin.Context, status int, payload any) {
	c.JSON(status, payload)
}

func OK(c *gin.Context, payload any) {
	JSON(c, http.StatusOK, payload)
}

func Created(c *gin.Context, payload any) {
	JSON(c, http.StatusCreated, payload)
}
