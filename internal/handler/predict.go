package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"stock-predictor-backend/internal/forecast"
	"stock-predictor-backend/internal/marketdata"
	"stock-predictor-backend/internal/model"
)

var engine *forecast.Engine

// SetEngine 注入预测引擎
func SetEngine(e *forecast.Engine) {
	engine = e
}

func runPredict(c *gin.Context) (*model.PredictResult, bool) {
	var req model.PredictRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "请求参数错误: " + err.Error(),
		})
		return nil, false
	}

	if req.Years < 1 || req.Years > 10 {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "历史年数需在1到10之间",
		})
		return nil, false
	}

	result, err := engine.Run(req.Ticker, req.Years)
	if err != nil {
		switch {
		case errors.Is(err, marketdata.ErrNoData):
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "无效代码或无行情数据，请更换股票代码",
			})
		case errors.Is(err, marketdata.ErrRateUnavailable):
			c.JSON(http.StatusBadGateway, gin.H{
				"error": "获取汇率失败，请稍后重试",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": err.Error(),
			})
		}
		return nil, false
	}
	return result, true
}

// Predict 股价预测
func Predict(c *gin.Context) {
	result, ok := runPredict(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, result)
}

// PredictChart 预测并导出实际/预测对比图PNG
func PredictChart(c *gin.Context) {
	result, ok := runPredict(c)
	if !ok {
		return
	}

	png, err := forecast.RenderComparisonPNG(result.Actual, result.Predicted, result.Currency)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": err.Error(),
		})
		return
	}

	c.Header("Content-Disposition", `attachment; filename="stock_prediction_inr.png"`)
	c.Data(http.StatusOK, "image/png", png)
}
