package controllers

import (
	"errors"
	"fbs/src/db"
	"fbs/src/models"
	"fbs/src/types"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var jwtKey = []byte(os.Getenv("JWT_SECRET"))

func generateJWT(user *models.User) (string, error) {
	claims := types.Claims{
		Username: user.Email,
		Role:     user.Role,
	}
	if user.Agent != nil {
		claims.AgentID = &user.Agent.ID
	}
	claims.Subject = fmt.Sprint(user.ID)
	claims.IssuedAt = jwt.NewNumericDate(time.Now())
	claims.ExpiresAt = jwt.NewNumericDate(time.Now().Add(24 * time.Hour))

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, &claims)
	return token.SignedString(jwtKey)
}

func AuthRegister(ctx *gin.Context) (user *models.User, status int, err error) {
	var body types.RegisterUserRequestBody
	if err := ctx.ShouldBindJSON(&body); err != nil {
		return nil, http.StatusBadRequest, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(body.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, http.StatusInternalServerError, err
	}

	newUser := models.User{
		Name:         body.Name,
		Email:        body.Email,
		PasswordHash: string(hash),
		Role:         "customer",
	}
	database := db.GetDb()
	err = database.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.
			Model(&models.User{}).
			Where(&models.User{Email: body.Email}).
			Count(&count).
			Error; err != nil {
			return err
		}
		if count > 0 {
			return errors.New("email is already registered")
		}
		return tx.Create(&newUser).Error
	})
	if err != nil {
		log.Printf("Error registering user: %s\n", err.Error())
		return nil, http.StatusBadRequest, err
	}
	return &newUser, http.StatusCreated, nil
}

func AuthLogin(ctx *gin.Context) (token *string, status int, err error) {
	var body types.LoginRequestBody
	if err := ctx.ShouldBindJSON(&body); err != nil {
		return nil, http.StatusBadRequest, err
	}

	database := db.GetDb()
	var user models.User
	if err := database.
		Model(&models.User{}).
		Where(&models.User{Email: body.Email}).
		Preload("Agent").
		First(&user).
		Error; err != nil {
		return nil, http.StatusUnauthorized, errors.New("invalid email or password")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(body.Password)); err != nil {
		return nil, http.StatusUnauthorized, errors.New("invalid email or password")
	}

	signed, err := generateJWT(&user)
	if err != nil {
		log.Printf("Error signing token for user [%d]: %s\n", user.ID, err.Error())
		return nil, http.StatusInternalServerError, err
	}
	return &signed, http.StatusOK, nil
}
