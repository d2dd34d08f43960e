package api

import (
	"kiwiledger/internal/db/models/postgres/public/model"

	"github.com/gin-gonic/gin"
)

type userResponse struct {
	Username  string `json:"username"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Role      string `json:"role"`
	Balance   string `json:"balance"`
}

func toUserResponse(u model.UserAccount) userResponse {
	return userResponse{
		Username:  u.Username,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Role:      string(u.Role),
		Balance:   u.Balance.StringFixed(2),
	}
}

func (m ApiHandler) listUsers(c *gin.Context) {
	users, err := m.AccountService.ListUsers()
	if err != nil {
		returnErrorJson(err, c)
		return
	}

	out := make([]userResponse, 0, len(users))
	for _, u := range users {
		out = append(out, toUserResponse(u))
	}
	c.JSON(200, out)
}
