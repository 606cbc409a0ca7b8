package main

import (
	"hrc/src/types"
	"hrc/src/utils"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func bookingHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		GET("/services", func(ctx *gin.Context) {
			services, err := utils.ListServices(true)
			if err != nil {
				respondError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": services, "count": len(services)})
		}).
		GET("/service/:serviceId", func(ctx *gin.Context) {
			var params types.ServiceURIParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				badRequest(ctx, err)
				return
			}
			service, err := utils.GetService(params.ServiceID, true)
			if err != nil {
				respondError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": service})
		}).
		GET("/availability/:serviceId", func(ctx *gin.Context) {
			var params types.ServiceURIParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				badRequest(ctx, err)
				return
			}
			dates, err := utils.ListOpenDates(params.ServiceID, time.Now())
			if err != nil {
				respondError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": dates})
		}).
		POST("/lock", func(ctx *gin.Context) {
			var body types.LockSlotRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				badRequest(ctx, err)
				return
			}
			booking, err := utils.LockSlot(&body, time.Now())
			if err != nil {
				respondError(ctx, err)
				return
			}
			ctx.JSON(http.StatusCreated, gin.H{"data": booking})
		}).
		PATCH("/release", func(ctx *gin.Context) {
			var body types.ReleaseSlotRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				badRequest(ctx, err)
				return
			}
			booking, err := utils.ReleaseSlot(uuid.MustParse(body.BookingID))
			if err != nil {
				respondError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": booking})
		}).
		PATCH("/:bookingId", func(ctx *gin.Context) {
			var params types.BookingURIParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				badRequest(ctx, err)
				return
			}
			var body types.UpdateBookingRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				badRequest(ctx, err)
				return
			}
			booking, err := utils.UpdateBookingDetails(uuid.MustParse(params.BookingID), &body)
			if err != nil {
				respondError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": booking})
		}).
		POST("/pay", func(ctx *gin.Context) {
			var body types.CreatePaymentRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				badRequest(ctx, err)
				return
			}
			checkout, err := utils.CreatePayment(ctx.Request.Context(), &body, time.Now())
			if err != nil {
				respondError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": checkout})
		}).
		GET("/details", func(ctx *gin.Context) {
			var query types.DetailsQueryFilters
			if err := ctx.ShouldBindQuery(&query); err != nil {
				badRequest(ctx, err)
				return
			}
			booking, err := utils.GetBookingByPaymentID(uuid.MustParse(query.ExternalID))
			if err != nil {
				respondError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": booking})
		}).
		GET("/qr/:name", func(ctx *gin.Context) {
			redirect, fp, err := utils.ResolveQRCode(ctx.Request.Context(), ctx.Param("name"))
			if err != nil {
				respondError(ctx, err)
				return
			}
			if redirect != "" {
				ctx.Redirect(http.StatusFound, redirect)
				return
			}
			ctx.File(fp)
		})
	return g
}
