package main

import (
	"hrc/src/types"
	"hrc/src/utils"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

func catalogHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		GET("/services", func(ctx *gin.Context) {
			services, err := utils.ListServices(false)
			if err != nil {
				respondError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": services, "count": len(services)})
		}).
		POST("/services", func(ctx *gin.Context) {
			var body types.ServiceRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				badRequest(ctx, err)
				return
			}
			service, err := utils.CreateService(&body, actorID(ctx))
			if err != nil {
				respondError(ctx, err)
				return
			}
			ctx.JSON(http.StatusCreated, gin.H{"data": service})
		}).
		PUT("/services/:serviceId", func(ctx *gin.Context) {
			var params types.ServiceURIParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				badRequest(ctx, err)
				return
			}
			var body types.ServiceRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				badRequest(ctx, err)
				return
			}
			service, err := utils.UpdateService(params.ServiceID, &body, actorID(ctx))
			if err != nil {
				respondError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": service})
		}).
		DELETE("/services/:serviceId", func(ctx *gin.Context) {
			var params types.ServiceURIParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				badRequest(ctx, err)
				return
			}
			if err := utils.DeactivateService(params.ServiceID, actorID(ctx)); err != nil {
				respondError(ctx, err)
				return
			}
			ctx.Status(http.StatusNoContent)
		}).
		GET("/services/:serviceId/variants", func(ctx *gin.Context) {
			var params types.ServiceURIParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				badRequest(ctx, err)
				return
			}
			variants, err := utils.ListVariants(params.ServiceID)
			if err != nil {
				respondError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": variants, "count": len(variants)})
		}).
		POST("/services/:serviceId/variants", func(ctx *gin.Context) {
			var params types.ServiceURIParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				badRequest(ctx, err)
				return
			}
			var body types.VariantRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				badRequest(ctx, err)
				return
			}
			variant, err := utils.CreateVariant(params.ServiceID, &body, actorID(ctx))
			if err != nil {
				respondError(ctx, err)
				return
			}
			ctx.JSON(http.StatusCreated, gin.H{"data": variant})
		}).
		DELETE("/services/:serviceId/variants/:variantId", func(ctx *gin.Context) {
			var params types.VariantURIParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				badRequest(ctx, err)
				return
			}
			if err := utils.DeactivateVariant(params.ServiceID, params.VariantID, actorID(ctx)); err != nil {
				respondError(ctx, err)
				return
			}
			ctx.Status(http.StatusNoContent)
		})

	g.
		GET("/availability", func(ctx *gin.Context) {
			var query types.AvailabilityQueryFilters
			if err := ctx.ShouldBindQuery(&query); err != nil {
				badRequest(ctx, err)
				return
			}
			from := time.Now()
			if query.Date != "" {
				d, err := utils.ParseDate(query.Date)
				if err != nil {
					badRequest(ctx, err)
					return
				}
				from = d
			}
			slots, err := utils.ListAvailability(from)
			if err != nil {
				respondError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": slots, "count": len(slots)})
		}).
		POST("/availability", func(ctx *gin.Context) {
			var body types.AvailabilityRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				badRequest(ctx, err)
				return
			}
			slot, err := utils.UpsertAvailability(&body, actorID(ctx))
			if err != nil {
				respondError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": slot})
		}).
		PUT("/availability/:id", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				badRequest(ctx, err)
				return
			}
			var body types.UpdateAvailabilityRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				badRequest(ctx, err)
				return
			}
			slot, err := utils.UpdateAvailability(params.ID, &body, actorID(ctx))
			if err != nil {
				respondError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": slot})
		}).
		DELETE("/availability/:id", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				badRequest(ctx, err)
				return
			}
			if err := utils.DeleteAvailability(params.ID, actorID(ctx)); err != nil {
				respondError(ctx, err)
				return
			}
			ctx.Status(http.StatusNoContent)
		})

	g.
		GET("/closed-dates", func(ctx *gin.Context) {
			closures, err := utils.ListClosedDates()
			if err != nil {
				respondError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": closures, "count": len(closures)})
		}).
		POST("/closed-dates", func(ctx *gin.Context) {
			var body types.ClosedDateRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				badRequest(ctx, err)
				return
			}
			closure, err := utils.CreateClosedDate(&body, actorID(ctx))
			if err != nil {
				respondError(ctx, err)
				return
			}
			ctx.JSON(http.StatusCreated, gin.H{"data": closure})
		}).
		DELETE("/closed-dates/:id", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				badRequest(ctx, err)
				return
			}
			if err := utils.DeleteClosedDate(params.ID, actorID(ctx)); err != nil {
				respondError(ctx, err)
				return
			}
			ctx.Status(http.StatusNoContent)
		})
	return g
}
