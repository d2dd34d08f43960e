package api

import (
	"kiwiledger/internal/db/models/postgres/public/model"

	"github.com/gin-gonic/gin"
)

type changeRoleRequest struct {
	Role string `json:"role"`
}

func (m ApiHandler) changeRole(c *gin.Context) {
	session := sessionFromContext(c)
	username := c.Param("username")

	var requestBody changeRoleRequest
	if err := c.ShouldBindJSON(&requestBody); err != nil {
		returnErrorJsonCode(err, c, 400)
		return
	}

	err := m.AccountService.ChangeRole(session, username, model.UserRole(requestBody.Role))
	if err != nil {
		returnErrorJson(err, c)
		return
	}

	c.JSON(200, gin.H{"message": "ok"})
}
