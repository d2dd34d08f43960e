package api

import (
	"sort"

	"github.com/gin-gonic/gin"
)

type priceResponse struct {
	Ticker string `json:"ticker"`
	Price  string `json:"price"`
}

func (m ApiHandler) prices(c *gin.Context) {
	pm, err := m.PriceService.PriceMap()
	if err != nil {
		returnErrorJson(err, c)
		return
	}

	out := make([]priceResponse, 0, len(pm))
	for ticker, price := range pm {
		out = append(out, priceResponse{Ticker: ticker, Price: price.StringFixed(2)})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Ticker < out[j].Ticker })

	c.JSON(200, out)
}
