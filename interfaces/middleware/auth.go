package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt"
	"skallars-social/domain/dto"
	"skallars-social/domain/model"
	"skallars-social/domain/repository"
)

// Auth validates the Bearer JWT and sets user_id in the gin context.
func Auth(userRepository repository.IUser) gin.HandlerFunc {
	var res dto.Res
	res.ResponseCode = "401"
	res.ResponseMessage = "Unauthorized"

	return func(ctx *gin.Context) {
		authorization := ctx.Request.Header.Get("Authorization")
		secretKey := os.Getenv("SECRET_KEY")
		if authorization == "" {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, res)
			return
		}
		auth := strings.Split(authorization, "Bearer ")
		if len(auth) != 2 {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, res)
			return
		}
		userClaims, token, err := getClaim(auth[1], secretKey)

		if token != nil && token.Valid {
			if !next(ctx, userRepository, userClaims) {
				ctx.AbortWithStatusJSON(http.StatusUnauthorized, res)
				return
			}
		} else {
			abort(err, &res)
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, res)
		}
	}
}

func abort(err error, res *dto.Res) {
	var ve *jwt.ValidationError
	if errors.As(err, &ve) {
		if ve.Errors&jwt.ValidationErrorMalformed != 0 {
			res.ResponseMessage = "That's not even a token"
		} else if ve.Errors&(jwt.ValidationErrorExpired|jwt.ValidationErrorNotValidYet) != 0 {
			res.ResponseMessage = "Timing is everything"
		} else {
			res.ResponseMessage = fmt.Sprintf("Couldn't handle this token:%v", err)
		}
	}
}

func next(ctx *gin.Context, userRepository repository.IUser, userClaims model.UserClaims) bool {
	if _, err := userRepository.GetByUserName(ctx.Request.Context(), userClaims.UserName); err != nil {
		return false
	}
	ctx.Set("user_id", userClaims.Issuer)
	ctx.Next()
	return true
}

// SchedulerSecret guards the privileged cron trigger endpoint with a shared
// secret header instead of a user session.
func SchedulerSecret(secret string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if secret == "" || ctx.GetHeader("X-Scheduler-Secret") != secret {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid scheduler secret"})
			return
		}
		ctx.Next()
	}
}

func getClaim(tokenString, secretKey string) (model.UserClaims, *jwt.Token, error) {
	var userClaims model.UserClaims
	token, err := jwt.ParseWithClaims(
		tokenString,
		&userClaims,
		func(token *jwt.Token) (interface{}, error) {
			return []byte(secretKey), nil
		},
	)
	return userClaims, token, err
}
