package controllers

import (
	"errors"
	"hrc/src/db"
	"hrc/src/models"
	"hrc/src/types"
	"hrc/src/utils"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var ErrInvalidCredentials = errors.New("invalid email or password")

func AuthLogin(ctx *gin.Context) (token *string, user *models.User, status int, err error) {
	var body types.LoginRequestBody
	if err := ctx.ShouldBindJSON(&body); err != nil {
		return nil, nil, http.StatusBadRequest, err
	}

	db := db.GetDb()
	var muser models.User
	if err = db.
		Model(&models.User{}).
		Where("email = ?", strings.ToLower(strings.TrimSpace(body.Email))).
		First(&muser).
		Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, http.StatusUnauthorized, ErrInvalidCredentials
		}
		log.Printf("error: %s\n", err.Error())
		return nil, nil, http.StatusInternalServerError, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(muser.Password), []byte(body.Password)); err != nil {
		return nil, nil, http.StatusUnauthorized, ErrInvalidCredentials
	}

	jwt, err := utils.GenerateJWT(&muser, time.Now())
	if err != nil {
		log.Printf("Could not issue token for user [%d]: %s\n", muser.ID, err.Error())
		return nil, nil, http.StatusInternalServerError, err
	}
	return &jwt, &muser, http.StatusOK, nil
}
