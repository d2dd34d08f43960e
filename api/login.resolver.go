package api

import (
	"github.com/gin-gonic/gin"
)

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token    string `json:"token"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

func (m ApiHandler) login(c *gin.Context) {
	var requestBody loginRequest
	if err := c.ShouldBindJSON(&requestBody); err != nil {
		returnErrorJsonCode(err, c, 400)
		return
	}

	session, err := m.CredentialService.Authenticate(requestBody.Username, requestBody.Password)
	if err != nil {
		returnErrorJson(err, c)
		return
	}

	token, err := m.issueToken(*session)
	if err != nil {
		returnErrorJson(err, c)
		return
	}

	c.JSON(200, loginResponse{
		Token:    token,
		Username: session.Username,
		Role:     string(session.Role),
	})
}
