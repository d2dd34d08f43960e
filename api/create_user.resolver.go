package api

import (
	"kiwiledger/internal/db/models/postgres/public/model"
	"kiwiledger/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type createUserRequest struct {
	Username        string  `json:"username"`
	Password        string  `json:"password"`
	FirstName       string  `json:"firstName"`
	LastName        string  `json:"lastName"`
	Role            string  `json:"role"`
	StartingBalance *string `json:"startingBalance"`
}

func (m ApiHandler) createUser(c *gin.Context) {
	var requestBody createUserRequest
	if err := c.ShouldBindJSON(&requestBody); err != nil {
		returnErrorJsonCode(err, c, 400)
		return
	}

	role := model.UserRole_User
	if requestBody.Role != "" {
		role = model.UserRole(requestBody.Role)
	}

	balance := decimal.Zero
	if requestBody.StartingBalance != nil {
		parsed, err := decimal.NewFromString(*requestBody.StartingBalance)
		if err != nil {
			returnErrorJsonCode(err, c, 400)
			return
		}
		balance = parsed
	}

	user, err := m.AccountService.CreateUser(service.CreateUserInput{
		Username:        requestBody.Username,
		Password:        requestBody.Password,
		FirstName:       requestBody.FirstName,
		LastName:        requestBody.LastName,
		Role:            role,
		StartingBalance: balance,
	})
	if err != nil {
		returnErrorJson(err, c)
		return
	}

	c.JSON(201, toUserResponse(*user))
}
