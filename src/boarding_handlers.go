package main

import (
	"fbs/src/db"
	"fbs/src/middlewares"
	"fbs/src/models"
	"fbs/src/types"
	"fbs/src/utils"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

func boardingHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		GET("/passengers/:id/boarding-pass", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			userId := ctx.GetUint("id")
			db := db.GetDb()
			var passenger models.Passenger
			if err := db.
				Where(&models.Passenger{ID: params.ID}).
				Preload("BookingLeg.Booking").
				First(&passenger).
				Error; err != nil {
				ctx.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
				return
			}
			role := ctx.GetString("role")
			if passenger.BookingLeg.Booking.UserID != userId && role != "admin" && role != "staff" {
				ctx.Status(http.StatusForbidden)
				return
			}
			url, err := utils.GenerateBoardingPass(params.ID)
			if err != nil {
				ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"url": url})
		}).
		GET("/bookings/:id/ticket", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			userId := ctx.GetUint("id")
			db := db.GetDb()
			var booking models.Booking
			if err := db.
				Select("id", "user_id", "booking_number").
				Where(&models.Booking{ID: params.ID, UserID: userId}).
				First(&booking).
				Error; err != nil {
				ctx.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
				return
			}
			pdf, err := utils.GenerateTicketPDF(params.ID)
			if err != nil {
				ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
				return
			}
			filename := fmt.Sprintf("ticket-%s.pdf", booking.BookingNumber)
			ctx.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
			ctx.Data(http.StatusOK, "application/pdf", pdf)
		})

	staff := g.Group("", middlewares.RequireRole("admin", "staff"))
	staff.
		POST("/checkin", func(ctx *gin.Context) {
			var body types.CheckInRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			passenger, err := utils.CheckInPassenger(body.Code)
			if err != nil {
				ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{
				"passenger": passenger.FullName,
				"seat":      passenger.SeatCode,
				"trip":      passenger.BookingLeg.TripID,
			})
		})

	return g
}
