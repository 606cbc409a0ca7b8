package main

import (
	"hrc/src/controllers"
	"hrc/src/lib"
	"hrc/src/middlewares"
	"hrc/src/types"
	"hrc/src/utils"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func adminHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		GET("/stats/today", func(ctx *gin.Context) {
			stats, err := utils.GetTodayStats(time.Now())
			if err != nil {
				respondError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": stats})
		}).
		GET("/bookings/today", func(ctx *gin.Context) {
			bookings, err := utils.TodayBookings(time.Now())
			if err != nil {
				respondError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": bookings, "count": len(bookings)})
		}).
		GET("/bookings/pickup-pending", func(ctx *gin.Context) {
			bookings, err := utils.PickupPending()
			if err != nil {
				respondError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": bookings, "count": len(bookings)})
		}).
		GET("/bookings", func(ctx *gin.Context) {
			var filters types.BookingQueryFilters
			if err := ctx.ShouldBindQuery(&filters); err != nil {
				badRequest(ctx, err)
				return
			}
			bookings, err := utils.ListBookings(&filters)
			if err != nil {
				respondError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": bookings, "count": len(bookings)})
		}).
		PATCH("/bookings/:bookingId/status", func(ctx *gin.Context) {
			var params types.BookingURIParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				badRequest(ctx, err)
				return
			}
			var body types.UpdateStatusRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				badRequest(ctx, err)
				return
			}
			booking, err := utils.AdvanceStatus(uuid.MustParse(params.BookingID), body.Status, actorID(ctx))
			if err != nil {
				respondError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": booking})
		}).
		POST("/bookings/walkin", func(ctx *gin.Context) {
			var body types.WalkInRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				badRequest(ctx, err)
				return
			}
			booking, err := utils.CreateWalkIn(&body, actorID(ctx), time.Now())
			if err != nil {
				respondError(ctx, err)
				return
			}
			ctx.JSON(http.StatusCreated, gin.H{"data": booking})
		}).
		GET("/payments", func(ctx *gin.Context) {
			payments, err := utils.ListPayments()
			if err != nil {
				respondError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": payments, "count": len(payments)})
		}).
		GET("/audit-logs", func(ctx *gin.Context) {
			limit, err := strconv.Atoi(ctx.DefaultQuery("limit", "100"))
			if err != nil || limit < 1 || limit > 500 {
				limit = 100
			}
			logs, err := utils.ListAuditLogs(limit)
			if err != nil {
				respondError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": logs, "count": len(logs)})
		}).
		GET("/notifications/count", func(ctx *gin.Context) {
			count, err := utils.NotificationsCount(time.Now())
			if err != nil {
				respondError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": gin.H{"count": count}})
		}).
		GET("/notifications/list", func(ctx *gin.Context) {
			notifications, err := utils.ListNotifications(time.Now())
			if err != nil {
				respondError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": notifications})
		}).
		POST("/fcm", func(ctx *gin.Context) {
			var body struct {
				Token string `json:"token" binding:"required"`
			}
			if err := ctx.ShouldBindJSON(&body); err != nil {
				log.Printf("[FCM] error: %v\n", err)
				badRequest(ctx, err)
				return
			}
			if err := lib.SubscribeToTopic(ctx.Request.Context(), utils.BOOKINGS_TOPIC, body.Token); err != nil {
				log.Printf("[FCM] error subscribing to topic [%s]: %v\n", utils.BOOKINGS_TOPIC, err)
				ctx.JSON(http.StatusServiceUnavailable, gin.H{"error": "push notifications are unavailable"})
				return
			}
			ctx.Status(http.StatusNoContent)
		}).
		GET("/staff", func(ctx *gin.Context) {
			users, err := utils.ListStaff()
			if err != nil {
				respondError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": users, "count": len(users)})
		}).
		POST("/staff", middlewares.RequireRole(types.ROLE_ADMIN), func(ctx *gin.Context) {
			user, status, err := controllers.AccountsCreateStaff(ctx)
			if err != nil {
				ctx.JSON(status, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(status, gin.H{"data": user})
		})
	return g
}
