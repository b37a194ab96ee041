package router

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/rahultripathi17/TimeDesk-sub001/config"
	"github.com/rahultripathi17/TimeDesk-sub001/internal/api/handler"
	"github.com/rahultripathi17/TimeDesk-sub001/internal/api/middleware"
	"github.com/rahultripathi17/TimeDesk-sub001/internal/model"
	"github.com/rahultripathi17/TimeDesk-sub001/pkg/jwt"
	"github.com/rahultripathi17/TimeDesk-sub001/pkg/redis"
)

const importPath = "/api/v1/profiles/import"

// Setup builds the gin engine. rdb may be nil when redis is not configured.
func Setup(cfg *config.Config, h *handler.Handler, jwtMgr *jwt.Manager, db *gorm.DB, rdb *redis.Client, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	// keep interfaces nil rather than holding a typed nil pointer
	var (
		limiter   middleware.Limiter
		blacklist middleware.Blacklist
	)
	if rdb != nil {
		limiter = rdb
		blacklist = rdb
	}

	r := gin.New()

	// ── global middleware ──
	r.Use(middleware.RequestID())
	r.Use(gin.Recovery())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.BodyLimit(cfg.Server.BodyLimitKB<<10, map[string]int64{
		importPath: cfg.Server.UploadLimitM << 20,
	}))

	// ── probes ──
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/ready", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		checks := gin.H{"database": "ok"}
		healthy := true
		if sqlDB, err := db.DB(); err != nil || sqlDB.PingContext(ctx) != nil {
			checks["database"] = "unavailable"
			healthy = false
		}
		if rdb != nil {
			checks["redis"] = "ok"
			if err := rdb.Ping(ctx); err != nil {
				checks["redis"] = "unavailable"
				healthy = false
			}
		}

		status := http.StatusOK
		if !healthy {
			status = http.StatusServiceUnavailable
		}
		c.JSON(status, gin.H{"ready": healthy, "checks": checks})
	})

	adminOnly := middleware.RoleAuth(model.RoleAdmin)
	staff := middleware.RoleAuth(model.RoleAdmin, model.RoleManager)

	// ── API v1 ──
	v1 := r.Group("/api/v1")
	{
		// public
		auth := v1.Group("/auth")
		{
			loginLimit := middleware.RateLimit(limiter, cfg.RateLimit.LoginLimit, cfg.RateLimit.LoginWindow)
			auth.POST("/login", loginLimit, h.Auth.Login)
			auth.POST("/refresh", loginLimit, h.Auth.RefreshToken)
		}

		authorized := v1.Group("")
		authorized.Use(middleware.JWTAuth(jwtMgr, blacklist, logger))
		{
			authorized.POST("/auth/logout", h.Auth.Logout)
			authorized.GET("/auth/me", h.Auth.GetCurrentUser)
			authorized.PUT("/auth/password", h.Auth.ChangePassword)

			authorized.GET("/dashboard", h.Dashboard.Summary)

			// profiles; managers are scoped to their department in the service
			profiles := authorized.Group("/profiles")
			{
				profiles.GET("", staff, h.Profile.ListProfiles)
				profiles.POST("", staff, h.Profile.CreateProfile)
				profiles.POST("/import", adminOnly, h.Profile.ImportProfiles)
				profiles.GET("/:id", h.Profile.GetProfile)
				profiles.PUT("/:id", h.Profile.UpdateProfile)
				profiles.DELETE("/:id", adminOnly, h.Profile.DeleteProfile)
				profiles.PUT("/:id/role", adminOnly, h.Profile.AssignRole)
				profiles.PUT("/:id/schedule", staff, h.Profile.UpdateSchedule)
				profiles.POST("/:id/reset-password", staff, h.Profile.ResetPassword)
			}

			departments := authorized.Group("/departments")
			{
				departments.GET("", h.Department.ListDepartments)
				departments.GET("/:id", h.Department.GetDepartment)
				departments.POST("", adminOnly, h.Department.CreateDepartment)
				departments.PUT("/:id", adminOnly, h.Department.UpdateDepartment)
				departments.DELETE("/:id", adminOnly, h.Department.DeleteDepartment)

				departments.GET("/:id/leave-limits", h.LeaveLimit.ListLimits)
				departments.PUT("/:id/leave-limits", adminOnly, h.LeaveLimit.BulkUpsertLimits)
				departments.PUT("/:id/leave-limits/:type", adminOnly, h.LeaveLimit.UpsertLimit)
			}
			authorized.DELETE("/leave-limits/:id", adminOnly, h.LeaveLimit.DeleteLimit)

			settings := authorized.Group("/settings")
			{
				settings.GET("", h.Setting.ListSettings)
				settings.GET("/:key", h.Setting.GetSetting)
				settings.PUT("/:key", adminOnly, h.Setting.SetSetting)
			}

			offices := authorized.Group("/office-locations")
			{
				offices.GET("", adminOnly, h.OfficeLocation.ListLocations)
				offices.POST("", adminOnly, h.OfficeLocation.CreateLocation)
				offices.GET("/:id", adminOnly, h.OfficeLocation.GetLocation)
				offices.PUT("/:id", adminOnly, h.OfficeLocation.UpdateLocation)
				offices.DELETE("/:id", adminOnly, h.OfficeLocation.DeleteLocation)
				offices.GET("/:id/code", staff, h.OfficeLocation.CurrentCode)
			}

			attendance := authorized.Group("/attendance")
			{
				checkInLimit := middleware.RateLimit(limiter, cfg.RateLimit.CheckInLimit, cfg.RateLimit.CheckInWindow)
				attendance.POST("/check-in", checkInLimit, h.Attendance.CheckIn)
				attendance.POST("/check-out", checkInLimit, h.Attendance.CheckOut)
				attendance.GET("/today", h.Attendance.Today)
				attendance.GET("/me", h.Attendance.ListMine)
				attendance.GET("", staff, h.Attendance.ListAttendance)
				attendance.PUT("", staff, h.Attendance.UpsertAttendance)
				attendance.DELETE("/:id", adminOnly, h.Attendance.DeleteAttendance)
			}

			leaves := authorized.Group("/leaves")
			{
				leaves.POST("", h.Leave.CreateLeave)
				leaves.GET("", staff, h.Leave.ListLeaves)
				leaves.GET("/me", h.Leave.ListMine)
				leaves.GET("/balance", h.Leave.Balance)
				leaves.GET("/calendar.ics", h.Leave.Calendar)
				leaves.GET("/:id", h.Leave.GetLeave)
				leaves.POST("/:id/cancel", h.Leave.CancelLeave)
				leaves.POST("/:id/approve", staff, h.Leave.ApproveLeave)
				leaves.POST("/:id/reject", staff, h.Leave.RejectLeave)
			}

			reports := authorized.Group("/reports", staff)
			{
				reports.GET("/analytics", h.Report.Analytics)
				reports.GET("/analytics/export", h.Report.ExportAnalytics)
				reports.GET("/compliance", h.Report.Compliance)
				reports.GET("/leave-summary", h.Report.LeaveSummary)
			}
		}
	}

	return r
}
