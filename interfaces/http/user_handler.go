package http

import (
	"net/http"

	"skallars-social/domain/dto"
	"skallars-social/domain/model"
	"skallars-social/infrastructure/logger"
	"skallars-social/usecase"

	"github.com/gin-gonic/gin"
)

const (
	ErrorUnmarshal = "Error while unmarshal"
)

type IUserHandler interface {
	Login(c *gin.Context)
	Register(c *gin.Context)
}

type UserHandler struct {
	userUsecase usecase.IUserUsecase
}

func NewUserHandler(userUsecase usecase.IUserUsecase) IUserHandler {
	return &UserHandler{userUsecase: userUsecase}
}

func (userHandler *UserHandler) Login(c *gin.Context) {
	var req model.ReqLogin
	var res dto.Res

	if err := c.ShouldBindJSON(&req); err != nil {
		logger.GetLogger().WithField("error", err).Error(ErrorUnmarshal)
		res.ResponseCode = "400"
		res.ResponseMessage = ErrorUnmarshal
		c.JSON(http.StatusBadRequest, res)
		return
	}

	token, err := userHandler.userUsecase.Login(c.Request.Context(), req)
	if err != nil {
		res.ResponseCode = "401"
		res.ResponseMessage = err.Error()
		c.JSON(http.StatusUnauthorized, res)
		return
	}

	res.ResponseCode = "200"
	res.ResponseMessage = "OK"
	res.Data = gin.H{"token": token}
	c.JSON(http.StatusOK, res)
}

func (userHandler *UserHandler) Register(c *gin.Context) {
	var req model.ReqRegister
	var res dto.Res

	if err := c.ShouldBindJSON(&req); err != nil {
		logger.GetLogger().WithField("error", err).Error(ErrorUnmarshal)
		res.ResponseCode = "400"
		res.ResponseMessage = ErrorUnmarshal
		c.JSON(http.StatusBadRequest, res)
		return
	}

	if err := userHandler.userUsecase.Register(c.Request.Context(), req); err != nil {
		res.ResponseCode = "400"
		res.ResponseMessage = err.Error()
		c.JSON(http.StatusBadRequest, res)
		return
	}

	res.ResponseCode = "200"
	res.ResponseMessage = "OK"
	c.JSON(http.StatusOK, res)
}
