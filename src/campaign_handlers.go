package main

import (
	"fbs/src/common"
	"fbs/src/config"
	"fbs/src/db"
	"fbs/src/middlewares"
	"fbs/src/models"
	"fbs/src/types"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func campaignHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	campaigns := g.Group("/campaigns", middlewares.RequireRole("admin", "staff"))
	campaigns.
		GET("", func(ctx *gin.Context) {
			db := db.GetDb()
			var list []models.Campaign
			err := db.
				Model(&models.Campaign{}).
				Order("created_at DESC").
				Limit(50).
				Find(&list).
				Error
			if err != nil {
				ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": list, "count": len(list)})
		}).
		POST("", func(ctx *gin.Context) {
			var body types.CreateCampaignRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			if body.Audience == "route_subscribers" && body.RouteID == nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": "route_subscribers audience needs a route"})
				return
			}
			campaign := models.Campaign{
				Subject:   body.Subject,
				Body:      body.Body,
				Html:      body.Html,
				Audience:  body.Audience,
				RouteID:   body.RouteID,
				Status:    types.CAMPAIGN_DRAFT,
				CreatedBy: ctx.GetUint("id"),
			}
			if body.SendAt != nil {
				sendAt, err := time.Parse(config.DATE_PARSE_FORMAT, *body.SendAt)
				if err != nil {
					ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid send_at date"})
					return
				}
				campaign.SendAt = &sendAt
				campaign.Status = types.CAMPAIGN_SCHEDULED
			}
			db := db.GetDb()
			err := db.Transaction(func(tx *gorm.DB) error {
				return tx.Create(&campaign).Error
			})
			if err != nil {
				log.Printf("Error creating campaign: %s\n", err.Error())
				ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
				return
			}
			if campaign.Status == types.CAMPAIGN_SCHEDULED {
				if err := common.ScheduleCampaign(&campaign); err != nil {
					log.Printf("Error scheduling campaign %d: %s\n", campaign.ID, err.Error())
				}
			}
			ctx.JSON(http.StatusCreated, gin.H{"data": campaign})
		}).
		POST("/:id/send", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			if err := common.DispatchCampaign(params.ID); err != nil {
				ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
				return
			}
			ctx.Status(http.StatusOK)
		}).
		POST("/:id/cancel", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			db := db.GetDb()
			err := db.
				Model(&models.Campaign{}).
				Where("id = ? AND status IN ?", params.ID, []types.CampaignStatus{
					types.CAMPAIGN_DRAFT,
					types.CAMPAIGN_SCHEDULED,
				}).
				Update("status", types.CAMPAIGN_CANCELED).
				Error
			if err != nil {
				ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
				return
			}
			ctx.Status(http.StatusOK)
		})

	return g
}
