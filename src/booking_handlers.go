package main

import (
	"errors"
	"fbs/src/db"
	"fbs/src/middlewares"
	"fbs/src/models"
	"fbs/src/types"
	"fbs/src/utils"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

func bookingHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		POST("/bookings", func(ctx *gin.Context) {
			var body types.CreateBookingRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			userId := ctx.GetUint("id")
			bk, paymentURL, err := utils.CreateBooking(ctx, &body, userId)
			if err != nil {
				status := http.StatusUnprocessableEntity
				if errors.Is(err, utils.ErrSeatsTaken) {
					status = http.StatusConflict
				}
				ctx.JSON(status, gin.H{"error": err.Error()})
				return
			}
			resp := gin.H{
				"booking_id":     bk.ID,
				"booking_number": bk.BookingNumber,
				"status":         bk.Status,
				"total":          bk.Total,
			}
			if paymentURL != "" {
				resp["payment_url"] = paymentURL
			}
			ctx.JSON(http.StatusCreated, resp)
		}).
		GET("/bookings", func(ctx *gin.Context) {
			var filters types.BookingQueryFilters
			if err := ctx.ShouldBindQuery(&filters); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			userId := ctx.GetUint("id")
			bookings, err := utils.GetOwnBookings(userId, &filters)
			if err != nil {
				ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": bookings, "count": len(bookings)})
		}).
		GET("/bookings/:id", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			userId := ctx.GetUint("id")
			db := db.GetDb()
			var booking models.Booking
			if err := db.
				Model(&models.Booking{}).
				Where(&models.Booking{ID: params.ID, UserID: userId}).
				Preload("Legs.Trip.Route").
				Preload("Legs.Passengers").
				Preload("Transaction").
				Preload("Modifications").
				First(&booking).
				Error; err != nil {
				ctx.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": booking})
		}).
		GET("/bookings/:id/status", func(ctx *gin.Context) {
			// Payment status poll for the post-checkout waiting page.
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			userId := ctx.GetUint("id")
			db := db.GetDb()
			var booking models.Booking
			if err := db.
				Model(&models.Booking{}).
				Select("id", "booking_number", "status", "amount_paid").
				Where(&models.Booking{ID: params.ID, UserID: userId}).
				First(&booking).
				Error; err != nil {
				ctx.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{
				"status":      booking.Status,
				"amount_paid": booking.AmountPaid,
			})
		}).
		POST("/bookings/:id/cancel", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			userId := ctx.GetUint("id")
			if err := utils.CancelBooking(params.ID, userId); err != nil {
				ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
				return
			}
			ctx.Status(http.StatusOK)
		})

	agents := g.Group("", middlewares.RequireRole("agent", "admin", "staff"))
	agents.
		POST("/bookings/:id/modify", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			var body types.ModifyBookingRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			userId := ctx.GetUint("id")
			bk, quote, paymentURL, err := utils.ModifyBooking(params.ID, &body, userId)
			if err != nil {
				status := http.StatusUnprocessableEntity
				if errors.Is(err, utils.ErrSeatsTaken) {
					status = http.StatusConflict
				}
				if errors.Is(err, utils.ErrRefundViaGateway) {
					status = http.StatusBadRequest
				}
				log.Printf("Error modifying booking %d: %s\n", params.ID, err.Error())
				ctx.JSON(status, gin.H{"error": err.Error()})
				return
			}
			resp := gin.H{
				"booking_id":      bk.ID,
				"booking_number":  bk.BookingNumber,
				"fare_difference": quote.FareDifference,
				"settlement":      quote.Settlement,
			}
			if paymentURL != "" {
				resp["payment_url"] = paymentURL
			}
			ctx.JSON(http.StatusOK, resp)
		}).
		GET("/agent/bookings", func(ctx *gin.Context) {
			agentId := ctx.GetUint("agent")
			if agentId < 1 {
				ctx.Status(http.StatusForbidden)
				return
			}
			var filters types.BookingQueryFilters
			if err := ctx.ShouldBindQuery(&filters); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			bookings, err := utils.GetAgentBookings(agentId, &filters)
			if err != nil {
				ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": bookings, "count": len(bookings)})
		})

	return g
}
