package api

import (
	"github.com/gin-gonic/gin"
)

func (m ApiHandler) deleteUser(c *gin.Context) {
	session := sessionFromContext(c)
	username := c.Param("username")

	if err := m.AccountService.DeleteUser(session, username); err != nil {
		returnErrorJson(err, c)
		return
	}

	c.JSON(200, gin.H{"message": "ok"})
}
