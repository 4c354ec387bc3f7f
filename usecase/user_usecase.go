package usecase

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"errors"
	"strconv"
	"time"

	"skallars-social/domain/model"
	"skallars-social/domain/repository"
	"skallars-social/infrastructure/logger"
	"skallars-social/infrastructure/utils"
)

type IUserUsecase interface {
	Login(ctx context.Context, req model.ReqLogin) (string, error)
	Register(ctx context.Context, req model.ReqRegister) error
}

type userUsecase struct {
	userRepository repository.IUser
	secretKey      string
}

func NewUserUsecase(userRepository repository.IUser, secretKey string) IUserUsecase {
	return &userUsecase{userRepository: userRepository, secretKey: secretKey}
}

func (u *userUsecase) Login(ctx context.Context, req model.ReqLogin) (string, error) {
	user, err := u.userRepository.GetByUserName(ctx, req.UserName)
	if err != nil {
		logger.GetLogger().WithField("error", err).Info("user lookup failed")
		return "", errors.New("invalid username or password")
	}
	if hashPassword(req.Password) != user.Password {
		return "", errors.New("invalid username or password")
	}

	now := utils.GetCurrentTime()
	payload := map[string]interface{}{
		"user_name": user.UserName,
		"iss":       strconv.Itoa(user.ID),
		"iat":       now.Unix(),
		"exp":       now.Add(24 * time.Hour).Unix(),
	}
	return utils.GenerateToken(payload, u.secretKey)
}

func (u *userUsecase) Register(ctx context.Context, req model.ReqRegister) error {
	if req.UserName == "" || req.Password == "" {
		return errors.New("user_name and password are required")
	}
	if existing, err := u.userRepository.GetByUserName(ctx, req.UserName); err == nil && existing.ID != 0 {
		return errors.New("user already exists")
	}
	user := model.User{
		Name:     req.Name,
		UserName: req.UserName,
		Password: hashPassword(req.Password),
	}
	return u.userRepository.CreateUser(ctx, user)
}

func hashPassword(password string) string {
	sum := md5.Sum([]byte(password))
	return hex.EncodeToString(sum[:])
}
