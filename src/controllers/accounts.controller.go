package controllers

import (
	"errors"
	"fmt"
	"hrc/src/db"
	"hrc/src/models"
	"hrc/src/types"
	"hrc/src/utils"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type CreateStaffRequestBody struct {
	Name     string     `json:"name" binding:"required"`
	Email    string     `json:"email" binding:"required,email"`
	Password string     `json:"password" binding:"required,min=8"`
	Role     types.Role `json:"role" binding:"omitempty,oneof=admin staff"`
}

var ErrEmailTaken = errors.New("email is already registered")

// AccountsCreateStaff registers a staff member. Only admins reach this.
func AccountsCreateStaff(ctx *gin.Context) (user *models.User, status int, err error) {
	var body CreateStaffRequestBody
	if err := ctx.ShouldBindJSON(&body); err != nil {
		return nil, http.StatusBadRequest, err
	}
	hash, err := HashPassword(body.Password)
	if err != nil {
		log.Printf("Could not hash password: %s\n", err.Error())
		return nil, http.StatusInternalServerError, err
	}
	role := body.Role
	if role == "" {
		role = types.ROLE_STAFF
	}
	newUser := models.User{
		Name:     body.Name,
		Email:    strings.ToLower(strings.TrimSpace(body.Email)),
		Password: hash,
		Role:     role,
	}
	actorID := ctx.GetUint("id")
	db := db.GetDb()
	err = db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.User{}).Where("email = ?", newUser.Email).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrEmailTaken
		}
		if err := tx.Create(&newUser).Error; err != nil {
			return err
		}
		return utils.WriteAuditLog(tx, &actorID, "Created staff account", "users", fmt.Sprint(newUser.ID), newUser.Email)
	})
	if err != nil {
		if errors.Is(err, ErrEmailTaken) {
			return nil, http.StatusConflict, err
		}
		log.Printf("Error creating user: %s\n", err.Error())
		return nil, http.StatusInternalServerError, err
	}
	return &newUser, http.StatusCreated, nil
}

func HashPassword(password string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
