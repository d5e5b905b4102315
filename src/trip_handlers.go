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

func tripHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		GET("/trips", func(ctx *gin.Context) {
			var filters types.TripQueryFilters
			if err := ctx.ShouldBindQuery(&filters); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			date, err := time.Parse(config.DATE_PARSE_FORMAT, filters.Date)
			if err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid travel date"})
				return
			}
			routeId := filters.RouteID
			db := db.GetDb()
			if filters.Return {
				// The return leg runs the opposite direction: find the
				// route whose endpoints mirror the requested one.
				var outbound models.Route
				if err := db.
					Where(&models.Route{ID: filters.RouteID}).
					First(&outbound).
					Error; err != nil {
					ctx.JSON(http.StatusNotFound, gin.H{"error": "route not found"})
					return
				}
				var inbound models.Route
				if err := db.
					Where(&models.Route{Origin: outbound.Destination, Destination: outbound.Origin, Active: true}).
					First(&inbound).
					Error; err != nil {
					ctx.JSON(http.StatusOK, gin.H{"data": []models.Trip{}, "count": 0})
					return
				}
				routeId = inbound.ID
			}
			var trips []models.Trip
			err = db.
				Model(&models.Trip{}).
				Where(&models.Trip{RouteID: routeId, Status: types.TRIP_SCHEDULED}).
				Where("travel_date = ?", date).
				Preload("Route").
				Preload("Vessel").
				Order("departure_time asc").
				Find(&trips).
				Error
			if err != nil {
				ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
				return
			}
			for i := range trips {
				stats, err := common.GetTripStats(trips[i].ID, trips[i].Vessel.Capacity)
				if err != nil {
					log.Printf("Error loading stats for trip %d: %s\n", trips[i].ID, err.Error())
					continue
				}
				trips[i].Stats = stats
			}
			ctx.JSON(http.StatusOK, gin.H{"data": trips, "count": len(trips)})
		}).
		GET("/trips/:id", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			db := db.GetDb()
			var trip models.Trip
			if err := db.
				Model(&models.Trip{}).
				Where(&models.Trip{ID: params.ID}).
				Preload("Route").
				Preload("Vessel").
				First(&trip).
				Error; err != nil {
				ctx.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
				return
			}
			stats, err := common.GetTripStats(trip.ID, trip.Vessel.Capacity)
			if err == nil {
				trip.Stats = stats
			}
			ctx.JSON(http.StatusOK, gin.H{"data": trip})
		})

	admin := g.Group("/trips", middlewares.RequireRole("admin", "staff"))
	admin.
		POST("", func(ctx *gin.Context) {
			var body types.CreateTripRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			travelDate, err := time.Parse(config.DATE_PARSE_FORMAT, body.TravelDate)
			if err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid travel date"})
				return
			}
			trip := models.Trip{
				RouteID:        body.RouteID,
				VesselID:       body.VesselID,
				TravelDate:     travelDate,
				DepartureTime:  body.DepartureTime,
				FareMultiplier: body.FareMultiplier,
				Status:         types.TRIP_SCHEDULED,
			}
			if trip.FareMultiplier == 0 {
				trip.FareMultiplier = 1
			}
			db := db.GetDb()
			err = db.Transaction(func(tx *gorm.DB) error {
				var route models.Route
				if err := tx.Where(&models.Route{ID: body.RouteID, Active: true}).First(&route).Error; err != nil {
					return err
				}
				var vessel models.Vessel
				if err := tx.Where(&models.Vessel{ID: body.VesselID, Active: true}).First(&vessel).Error; err != nil {
					return err
				}
				return tx.Create(&trip).Error
			})
			if err != nil {
				log.Printf("Error creating trip: %s\n", err.Error())
				ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusCreated, gin.H{"data": trip})
		}).
		PATCH("/:id/status", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			var body struct {
				Status types.TripStatus `json:"status" binding:"required,oneof=scheduled boarding departed completed canceled"`
			}
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			db := db.GetDb()
			if err := db.
				Model(&models.Trip{}).
				Where(&models.Trip{ID: params.ID}).
				Update("status", body.Status).
				Error; err != nil {
				ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
				return
			}
			ctx.Status(http.StatusOK)
		}).
		GET("/:id/manifest", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			db := db.GetDb()
			var legs []models.BookingLeg
			err := db.
				Model(&models.BookingLeg{}).
				Joins("JOIN bookings ON bookings.id = booking_legs.booking_id").
				Where("booking_legs.trip_id = ?", params.ID).
				Where("bookings.status IN ?", []types.BookingStatus{types.BOOKING_CONFIRMED, types.BOOKING_MODIFIED}).
				Preload("Booking").
				Preload("Passengers").
				Find(&legs).
				Error
			if err != nil {
				ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
				return
			}
			passengers := []models.Passenger{}
			for _, leg := range legs {
				passengers = append(passengers, leg.Passengers...)
			}
			ctx.JSON(http.StatusOK, gin.H{"data": passengers, "count": len(passengers)})
		})

	return g
}
