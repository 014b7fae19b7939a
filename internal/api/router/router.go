package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"classroom-portal/config"
	"classroom-portal/internal/api/handler"
	"classroom-portal/internal/api/middleware"
	"classroom-portal/pkg/jwt"
	"classroom-portal/pkg/redis"
)

// Setup 初始化并返回 Gin 路由引擎；rdb 可为 nil
func Setup(cfg *config.Config, h *handler.Handler, jwtMgr *jwt.Manager, rdb *redis.Client, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	// ── 全局中间件 ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.BodyLimit(cfg.Server.BodyLimit))

	// ── 健康检查 ──
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// 写接口限流（未启用时为空操作）
	limitWrites := func(c *gin.Context) { c.Next() }
	if rl := cfg.App.RateLimit; rl.Enabled {
		limitWrites = middleware.RateLimit(rdb, rl.Requests, rl.Window)
	}
	adminOnly := middleware.RoleAuth("admin")

	// ── API v1 ──
	v1 := r.Group("/api/v1")
	{
		// 认证模块（无需认证）
		v1.POST("/auth/login", limitWrites, h.Auth.Login)

		authorized := v1.Group("")
		authorized.Use(middleware.JWTAuth(jwtMgr, rdb))
		{
			authorized.POST("/auth/logout", h.Auth.Logout)
			authorized.GET("/auth/me", h.Auth.GetCurrentUser)
			authorized.GET("/identity", h.Auth.LookupIdentity)

			// 教室目录
			classrooms := authorized.Group("/classrooms")
			{
				classrooms.GET("", h.Classroom.List)
				classrooms.GET("/:id", h.Classroom.Get)
				classrooms.GET("/:id/conflicts", adminOnly, h.Classroom.ListConflicts)
				classrooms.POST("", adminOnly, h.Classroom.Create)
				classrooms.PUT("/:id", adminOnly, h.Classroom.Update)
				classrooms.DELETE("/:id", adminOnly, h.Classroom.Delete)
			}

			// 固定课表
			schedules := authorized.Group("/schedules")
			{
				schedules.POST("", adminOnly, h.Schedule.Create)
				schedules.PUT("/:id", adminOnly, h.Schedule.Update)
				schedules.DELETE("/:id", adminOnly, h.Schedule.Delete)
			}
			authorized.GET("/groups/:id/schedules", h.Schedule.ListByGroup)

			// 教室预约
			reservations := authorized.Group("/reservations")
			{
				reservations.POST("", limitWrites, h.Reservation.Create)
				reservations.GET("", h.Reservation.List)
				reservations.GET("/:id", h.Reservation.Get)
				reservations.PUT("/:id/status", adminOnly, h.Reservation.UpdateStatus)
			}

			// 教师约见
			authorized.GET("/teachers/:id/availability", h.Meeting.CheckAvailability)
			meetings := authorized.Group("/meetings")
			{
				meetings.POST("", middleware.RoleAuth("student"), limitWrites, h.Meeting.Create)
				meetings.GET("", h.Meeting.List)
				meetings.GET("/:id", h.Meeting.Get)
				// 被约教师身份在 Service 层校验
				meetings.PUT("/:id/status", middleware.RoleAuth("teacher", "admin"), h.Meeting.UpdateStatus)
			}

			// 导出
			export := authorized.Group("/export")
			{
				export.GET("/classrooms/:id/week", h.Export.ExportClassroomWeek)
				export.GET("/teachers/:id/calendar.ics", h.Export.ExportTeacherCalendar)
			}
		}
	}

	return r
}
