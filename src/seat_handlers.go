package main

import (
	"errors"
	"fbs/src/common"
	"fbs/src/config"
	"fbs/src/db"
	"fbs/src/lib"
	"fbs/src/models"
	"fbs/src/types"
	"fbs/src/utils"
	"net/http"

	"github.com/gin-gonic/gin"
)

func seatHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		GET("/trips/:id/seats", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			userId := ctx.GetUint("id")
			var agentId *uint
			if a := ctx.GetUint("agent"); a > 0 {
				agentId = &a
			}
			// Seats held by the requesting user read as available to them.
			source := utils.NewInventorySource(userId, agentId)
			seats, err := source.FetchAvailableSeats(ctx.Request.Context(), params.ID)
			if err != nil {
				ctx.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{
				"data":          seats,
				"count":         len(seats),
				"poll_interval": int(config.GetSeatPollInterval().Seconds()),
				"channel":       lib.TripChannel(params.ID),
			})
		}).
		POST("/seats/hold", func(ctx *gin.Context) {
			var body types.SeatHoldRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			userId := ctx.GetUint("id")
			if body.Release {
				if err := common.ReleaseSeatHold(body.TripID, body.SeatCode, userId); err != nil {
					ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
					return
				}
				ctx.JSON(http.StatusOK, gin.H{"released": true})
				return
			}
			db := db.GetDb()
			var trip models.Trip
			if err := db.
				Where(&models.Trip{ID: body.TripID, Status: types.TRIP_SCHEDULED}).
				First(&trip).
				Error; err != nil {
				ctx.JSON(http.StatusNotFound, gin.H{"error": "trip not found or not open for booking"})
				return
			}
			hold, err := common.AcquireSeatHold(body.TripID, body.SeatCode, userId)
			if err != nil {
				if errors.Is(err, common.ErrSeatConflict) {
					ctx.JSON(http.StatusConflict, gin.H{"error": err.Error()})
					return
				}
				ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusCreated, gin.H{"data": hold})
		})

	return g
}
