package controllers

import (
	"errors"
	"fbs/src/db"
	"fbs/src/models"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func AccountsList(ctx *gin.Context) ([]models.User, int, error) {
	database := db.GetDb()
	var users []models.User
	err := database.
		Model(&models.User{}).
		Preload("Agent").
		Order("created_at DESC").
		Limit(100).
		Find(&users).
		Error
	if err != nil {
		return nil, http.StatusBadRequest, err
	}
	return users, http.StatusOK, nil
}

type AssignRoleRequestBody struct {
	Role string `json:"role" binding:"required"`
}

func AccountsAssignRole(userId uint, role string) (int, error) {
	database := db.GetDb()
	err := database.Transaction(func(tx *gorm.DB) error {
		var existing models.Role
		if err := tx.
			Where(&models.Role{Name: role}).
			First(&existing).
			Error; err != nil {
			return errors.New("unknown role")
		}
		return tx.
			Model(&models.User{}).
			Where(&models.User{ID: userId}).
			Update("role", role).
			Error
	})
	if err != nil {
		return http.StatusBadRequest, err
	}
	return http.StatusOK, nil
}

type CreateAgentRequestBody struct {
	UserID       uint    `json:"user" binding:"required"`
	OfficeName   string  `json:"office_name" binding:"required"`
	Island       string  `json:"island" binding:"required"`
	DiscountRate float32 `json:"discount_rate,omitempty" binding:"omitempty,gte=0,lte=100"`
	CreditLimit  float32 `json:"credit_limit,omitempty" binding:"omitempty,gte=0"`
}

func AccountsCreateAgent(params *CreateAgentRequestBody) (*models.Agent, int, error) {
	agent := models.Agent{
		UserID:       params.UserID,
		OfficeName:   params.OfficeName,
		Island:       params.Island,
		DiscountRate: params.DiscountRate,
		CreditLimit:  params.CreditLimit,
		Active:       true,
	}
	database := db.GetDb()
	err := database.Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.
			Where(&models.User{ID: params.UserID}).
			First(&user).
			Error; err != nil {
			return errors.New("user not found")
		}
		var count int64
		if err := tx.
			Model(&models.Agent{}).
			Where(&models.Agent{UserID: params.UserID}).
			Count(&count).
			Error; err != nil {
			return err
		}
		if count > 0 {
			return errors.New("user already has an agent profile")
		}
		if err := tx.Create(&agent).Error; err != nil {
			return err
		}
		return tx.
			Model(&models.User{}).
			Where(&models.User{ID: params.UserID}).
			Update("role", "agent").
			Error
	})
	if err != nil {
		return nil, http.StatusBadRequest, err
	}
	return &agent, http.StatusCreated, nil
}

func AccountsSetAgentActive(agentId uint, active bool) (int, error) {
	database := db.GetDb()
	err := database.
		Model(&models.Agent{}).
		Where(&models.Agent{ID: agentId}).
		Update("active", active).
		Error
	if err != nil {
		return http.StatusBadRequest, err
	}
	return http.StatusOK, nil
}
