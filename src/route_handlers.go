package main

import (
	"fbs/src/db"
	"fbs/src/middlewares"
	"fbs/src/models"
	"fbs/src/types"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gosimple/slug"
	"gorm.io/gorm"
)

func routeHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		GET("/routes", func(ctx *gin.Context) {
			db := db.GetDb()
			var routes []models.Route
			err := db.
				Model(&models.Route{}).
				Where(&models.Route{Active: true}).
				Preload("Stops").
				Preload("Segments").
				Order("name asc").
				Find(&routes).
				Error
			if err != nil {
				ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": routes, "count": len(routes)})
		}).
		GET("/routes/:id", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			db := db.GetDb()
			var route models.Route
			if err := db.
				Model(&models.Route{}).
				Where(&models.Route{ID: params.ID}).
				Preload("Stops").
				Preload("Segments").
				First(&route).
				Error; err != nil {
				ctx.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": route})
		})

	admin := g.Group("/routes", middlewares.RequireRole("admin", "staff"))
	admin.
		POST("", func(ctx *gin.Context) {
			var body types.CreateRouteRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			route := models.Route{
				Name:        body.Name,
				Slug:        slug.Make(body.Name),
				Origin:      body.Origin,
				Destination: body.Destination,
				BaseFare:    body.BaseFare,
				Active:      true,
			}
			db := db.GetDb()
			err := db.Transaction(func(tx *gorm.DB) error {
				if err := tx.Create(&route).Error; err != nil {
					return err
				}
				for _, s := range body.Stops {
					stop := models.RouteStop{
						RouteID:  route.ID,
						Island:   s.Island,
						Position: s.Position,
					}
					if err := tx.Create(&stop).Error; err != nil {
						return err
					}
				}
				for _, s := range body.Segments {
					segment := models.RouteSegment{
						RouteID:    route.ID,
						FromIsland: s.FromIsland,
						ToIsland:   s.ToIsland,
						Fare:       s.Fare,
					}
					if err := tx.Create(&segment).Error; err != nil {
						return err
					}
				}
				return nil
			})
			if err != nil {
				log.Printf("Error creating route: %s\n", err.Error())
				ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusCreated, gin.H{"data": route})
		}).
		PATCH("/:id", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			var body struct {
				Name     string   `json:"name,omitempty"`
				BaseFare *float32 `json:"base_fare,omitempty" binding:"omitempty,gt=0"`
				Active   *bool    `json:"active,omitempty"`
			}
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			updates := map[string]any{}
			if body.Name != "" {
				updates["name"] = body.Name
				updates["slug"] = slug.Make(body.Name)
			}
			if body.BaseFare != nil {
				updates["base_fare"] = *body.BaseFare
			}
			if body.Active != nil {
				updates["active"] = *body.Active
			}
			db := db.GetDb()
			if err := db.
				Model(&models.Route{}).
				Where(&models.Route{ID: params.ID}).
				Updates(updates).
				Error; err != nil {
				ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
				return
			}
			ctx.Status(http.StatusOK)
		}).
		DELETE("/:id", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			db := db.GetDb()
			err := db.Transaction(func(tx *gorm.DB) error {
				var count int64
				if err := tx.
					Model(&models.Trip{}).
					Where("route_id = ? AND status IN ?", params.ID, []types.TripStatus{types.TRIP_SCHEDULED, types.TRIP_BOARDING}).
					Count(&count).
					Error; err != nil {
					return err
				}
				if count > 0 {
					return gorm.ErrForeignKeyViolated
				}
				return tx.
					Model(&models.Route{}).
					Where(&models.Route{ID: params.ID}).
					Update("active", false).
					Error
			})
			if err != nil {
				ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": "route has upcoming trips"})
				return
			}
			ctx.Status(http.StatusOK)
		})

	return g
}

func vesselHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	admin := g.Group("/vessels", middlewares.RequireRole("admin", "staff"))
	admin.
		GET("", func(ctx *gin.Context) {
			db := db.GetDb()
			var vessels []models.Vessel
			err := db.
				Model(&models.Vessel{}).
				Preload("Seats").
				Order("name asc").
				Find(&vessels).
				Error
			if err != nil {
				ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": vessels, "count": len(vessels)})
		}).
		POST("", func(ctx *gin.Context) {
			var body types.CreateVesselRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			if uint(len(body.Seats)) > body.Capacity {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": "seat layout exceeds capacity"})
				return
			}
			vessel := models.Vessel{
				Name:     body.Name,
				Capacity: body.Capacity,
				Active:   true,
			}
			db := db.GetDb()
			err := db.Transaction(func(tx *gorm.DB) error {
				if err := tx.Create(&vessel).Error; err != nil {
					return err
				}
				for _, s := range body.Seats {
					seat := models.VesselSeat{
						VesselID:   vessel.ID,
						Number:     s.Number,
						Row:        s.Row,
						Window:     s.Window,
						Aisle:      s.Aisle,
						Accessible: s.Accessible,
					}
					if err := tx.Create(&seat).Error; err != nil {
						return err
					}
				}
				return nil
			})
			if err != nil {
				log.Printf("Error creating vessel: %s\n", err.Error())
				ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusCreated, gin.H{"data": vessel})
		})

	return g
}
