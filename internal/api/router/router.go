package router

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/guoyuhou/NewLab/config"
	"github.com/guoyuhou/NewLab/internal/api/handler"
	"github.com/guoyuhou/NewLab/internal/api/middleware"
	"github.com/guoyuhou/NewLab/internal/rbac"
	"github.com/guoyuhou/NewLab/pkg/jwt"
	"github.com/guoyuhou/NewLab/pkg/redis"
	"github.com/guoyuhou/NewLab/pkg/response"
)

// 登录接口限流：每个 IP 每分钟 10 次
const (
	loginRateLimit  = 10
	loginRateWindow = time.Minute
)

// Pinger 健康检查探测数据库连通性
type Pinger interface {
	Ping(ctx context.Context) error
}

// Setup 初始化并返回 Gin 路由引擎
// rdb 为 nil 时跳过黑名单检查与限流
func Setup(
	cfg *config.Config,
	h *handler.Handler,
	jwtMgr *jwt.Manager,
	rdb *redis.Client,
	db Pinger,
	logger *zap.Logger,
) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	// ── 全局中间件 ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger, "/health"))
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.BodyLimit(cfg.Server.MaxBodyBytes))

	// ── 健康检查 ──
	r.GET("/health", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := db.Ping(ctx); err != nil {
			logger.Warn("健康检查：数据库不可用", zap.Error(err))
			response.ServiceUnavailable(c)
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// ── 公开只读接口 ──
	r.GET("/", h.Public.Root)
	r.GET("/inventory", h.Public.Inventory)
	r.GET("/financial-summary", h.Public.FinancialSummary)
	r.GET("/projects", h.Public.Projects)
	r.GET("/user-activity", h.Public.UserActivity)

	// checker 必须保持 nil 接口，避免传入值为 nil 的 *redis.Client
	var checker middleware.TokenChecker
	if rdb != nil {
		checker = rdb
	}
	authMW := middleware.JWTAuth(jwtMgr, checker, logger)

	// ── 实时聊天 ──
	// 浏览器 WebSocket 无法携带 Authorization 头，仅依赖 Origin 校验
	r.GET("/ws/chat", h.Communication.Chat)

	perm := middleware.RequirePermission

	// ── API v1 ──
	v1 := r.Group("/api/v1")
	{
		// 认证模块（无需认证）
		auth := v1.Group("/auth")
		{
			auth.POST("/login", middleware.RateLimit(rdb, loginRateLimit, loginRateWindow, logger), h.Auth.Login)
			auth.POST("/register", h.Auth.Register)
			auth.POST("/refresh", h.Auth.RefreshToken)
		}

		// 需要认证的路由
		authorized := v1.Group("")
		authorized.Use(authMW)
		{
			authorized.POST("/auth/logout", h.Auth.Logout)
			authorized.GET("/dashboard", h.Analytics.Dashboard)

			// 用户模块
			users := authorized.Group("/users")
			{
				users.GET("/me", h.User.GetCurrentUser)
				users.GET("", perm(rbac.ManageUsers), h.User.ListUsers)
				users.GET("/activity", perm(rbac.ViewDataVisualization), h.User.UserActivity)
				users.GET("/activity/report", perm(rbac.ViewDataVisualization), h.User.ActivityReport)
				users.GET("/training-completion", perm(rbac.ViewDataVisualization), h.User.TrainingCompletion)
				users.GET("/:id", perm(rbac.ManageUsers), h.User.GetUser)
				users.PUT("/:id/role", perm(rbac.ManageUsers), h.User.AssignRole)
				users.GET("/:id/permissions", perm(rbac.ManageUsers), h.User.GetPermissions)
				users.GET("/:id/permissions/:perm", perm(rbac.ManageUsers), h.User.CheckPermission)
			}

			// 库存模块
			inventory := authorized.Group("/inventory")
			{
				inventory.GET("/items", perm(rbac.ViewInventory), h.Inventory.ListItems)
				inventory.GET("/items/:id", perm(rbac.ViewInventory), h.Inventory.GetItem)
				inventory.POST("/items", perm(rbac.ManageInventory), h.Inventory.CreateItem)
				inventory.PUT("/items/:id/quantity", perm(rbac.ManageInventory), h.Inventory.UpdateQuantity)
				inventory.DELETE("/items/:id", perm(rbac.ManageInventory), h.Inventory.DeleteItem)
				inventory.GET("/low-stock", perm(rbac.ViewInventory), h.Inventory.LowStock)
				inventory.POST("/usage", perm(rbac.ViewInventory), h.Inventory.RecordUsage)
				inventory.GET("/usage", perm(rbac.ViewInventory), h.Inventory.ListUsage)
				inventory.GET("/usage/history", perm(rbac.ViewInventory), h.Inventory.UsageHistory)
				inventory.GET("/equipment-usage-rate", perm(rbac.ViewInventory), h.Inventory.EquipmentUsageRate)
				inventory.GET("/report", perm(rbac.ViewInventory), h.Inventory.Report)
				inventory.POST("/import", perm(rbac.ManageInventory), h.Inventory.ImportItems)
			}

			// 财务模块
			finance := authorized.Group("/finance")
			{
				finance.POST("/transactions", perm(rbac.ManageFinances), h.Finance.AddTransaction)
				finance.GET("/transactions", perm(rbac.ViewFinances), h.Finance.RecentTransactions)
				finance.DELETE("/transactions/:id", perm(rbac.ManageFinances), h.Finance.DeleteTransaction)
				finance.GET("/summary", perm(rbac.ViewFinances), h.Finance.Summary)
				finance.GET("/expense-distribution", perm(rbac.ViewFinances), h.Finance.ExpenseDistribution)
				finance.GET("/monthly-trend", perm(rbac.ViewFinances), h.Finance.MonthlyTrend)
				finance.GET("/budgets", perm(rbac.ViewFinances), h.Finance.ListBudgets)
				finance.PUT("/budgets", perm(rbac.ManageFinances), h.Finance.SetBudget)
				finance.GET("/report", perm(rbac.ViewFinances), h.Finance.Report)
			}

			// 项目模块
			projects := authorized.Group("/projects")
			{
				projects.POST("", perm(rbac.ManageProjects), h.Project.CreateProject)
				projects.GET("", perm(rbac.ViewProjects), h.Project.ListProjects)
				projects.GET("/mine", perm(rbac.ViewProjects), h.Project.MyProjects)
				projects.GET("/recent", perm(rbac.ViewProjects), h.Project.RecentProjects)
				projects.GET("/report", perm(rbac.ViewProjects), h.Project.Report)
				projects.GET("/expiring", perm(rbac.ViewProjects), h.Analytics.ExpiringProjects)
				projects.PUT("/:id/status", perm(rbac.ManageProjects), h.Project.UpdateStatus)
				projects.POST("/:id/tasks", perm(rbac.ManageProjects), h.Project.AddTask)
				projects.GET("/:id/tasks", perm(rbac.ViewProjects), h.Project.ListTasks)
			}
			authorized.PUT("/tasks/:id/status", perm(rbac.ManageProjects), h.Project.UpdateTaskStatus)

			// 待办与通知（仅本人）
			authorized.POST("/todos", h.Project.AddTodo)
			authorized.GET("/todos", h.Project.ListTodos)
			authorized.PUT("/todos/:id/complete", h.Project.CompleteTodo)
			notifications := authorized.Group("/notifications")
			{
				notifications.GET("", h.Project.RecentNotifications)
				notifications.POST("", perm(rbac.ManageProjects), h.Project.SendNotification)
				notifications.GET("/alerts", perm(rbac.ViewDataVisualization), h.Analytics.Notifications)
			}

			// 日程模块
			events := authorized.Group("/events")
			{
				events.POST("", perm(rbac.ManageSchedule), h.Schedule.AddEvent)
				events.GET("", perm(rbac.ViewSchedule), h.Schedule.EventsByDate)
				events.GET("/range", perm(rbac.ViewSchedule), h.Schedule.EventsByRange)
				events.GET("/team", perm(rbac.ViewSchedule), h.Schedule.TeamEvents)
				events.GET("/upcoming", perm(rbac.ViewSchedule), h.Schedule.UpcomingEvents)
				events.POST("/import", perm(rbac.ManageSchedule), h.Schedule.ImportICS)
				events.DELETE("/:id", perm(rbac.ManageSchedule), h.Schedule.DeleteEvent)
			}

			// 文献模块
			literature := authorized.Group("/literature")
			{
				literature.POST("", h.Literature.Add)
				literature.GET("", h.Literature.Mine)
				literature.GET("/search", h.Literature.Search)
				literature.GET("/:id", h.Literature.Get)
				literature.PUT("/:id", h.Literature.Update)
				literature.DELETE("/:id", h.Literature.Delete)
			}

			// 安全培训模块
			training := authorized.Group("/training")
			{
				training.GET("/courses", h.Training.ListCourses)
				training.POST("/courses", perm(rbac.ManageSettings), h.Training.CreateCourse)
				training.GET("/courses/:id", h.Training.GetCourse)
				training.GET("/courses/:id/questions", h.Training.GetQuestions)
				training.POST("/courses/:id/questions", perm(rbac.ManageSettings), h.Training.AddQuestion)
				training.POST("/courses/:id/submit", h.Training.SubmitAnswers)
				training.GET("/records", h.Training.MyRecords)
			}

			// 资源预约
			resources := authorized.Group("/resources")
			{
				resources.GET("", perm(rbac.ViewSchedule), h.Resource.List)
				resources.POST("", perm(rbac.ManageSchedule), h.Resource.Create)
				resources.GET("/bookings", perm(rbac.ViewSchedule), h.Resource.MyBookings)
				resources.DELETE("/bookings/:id", perm(rbac.ViewSchedule), h.Resource.CancelBooking)
				resources.GET("/:id/slots", perm(rbac.ViewSchedule), h.Resource.AvailableSlots)
				resources.POST("/:id/bookings", perm(rbac.ManageSchedule), h.Resource.Book)
			}

			// 设备预约与使用日志
			equipment := authorized.Group("/equipment")
			{
				equipment.GET("", perm(rbac.ViewSchedule), h.Equipment.List)
				equipment.POST("/bookings", perm(rbac.ManageSchedule), h.Equipment.Book)
				equipment.GET("/bookings", perm(rbac.ViewSchedule), h.Equipment.Bookings)
				equipment.POST("/usage", perm(rbac.ManageSchedule), h.Equipment.LogUsage)
				equipment.GET("/usage", perm(rbac.ViewSchedule), h.Equipment.UsageLogs)
			}

			// 实验室主页
			lab := authorized.Group("/lab")
			{
				lab.GET("", h.Lab.GetInfo)
				lab.PUT("", perm(rbac.ManageSettings), h.Lab.UpdateInfo)
				lab.GET("/members", h.Lab.ListMembers)
				lab.POST("/members", perm(rbac.ManageSettings), h.Lab.AddMember)
				lab.GET("/equipment", h.Lab.ListEquipment)
				lab.POST("/equipment", perm(rbac.ManageSettings), h.Lab.AddEquipment)
				lab.GET("/papers", h.Lab.RecentPapers)
				lab.POST("/papers", perm(rbac.ManageSettings), h.Lab.AddPaper)
			}

			// 聊天室
			chat := authorized.Group("/chat")
			{
				chat.GET("/rooms", h.Communication.ListRooms)
				chat.POST("/rooms", h.Communication.CreateRoom)
				chat.GET("/rooms/:id/messages", h.Communication.ListMessages)
				chat.POST("/rooms/:id/messages", h.Communication.SendMessage)
			}

			// 云盘
			files := authorized.Group("/files")
			{
				files.POST("", h.Storage.Upload)
				files.GET("", h.Storage.List)
				files.GET("/shared", h.Storage.SharedWithMe)
				files.POST("/share", h.Storage.Share)
				files.GET("/:id/download", h.Storage.Download)
				files.DELETE("/:id", h.Storage.Delete)
			}

			// 数据分析
			analytics := authorized.Group("/analytics")
			analytics.Use(perm(rbac.ViewDataVisualization))
			{
				analytics.GET("/expenses/forecast", h.Analytics.ExpenseForecast)
				analytics.GET("/inventory/forecast", h.Analytics.InventoryForecast)
				analytics.GET("/projects/success", h.Analytics.ProjectSuccess)
				analytics.GET("/users/behavior", h.Analytics.UserBehavior)
				analytics.POST("/regression", h.Analytics.Regression)
				analytics.POST("/describe", h.Analytics.Describe)
				analytics.GET("/insights", h.Analytics.Insights)
			}

			// 实验记录、报告与分析历史
			authorized.POST("/experiments", perm(rbac.ManageProjects), h.Experiment.CreateExperiment)
			authorized.GET("/experiments", perm(rbac.ViewProjects), h.Experiment.ListExperiments)
			authorized.GET("/experiments/:id", perm(rbac.ViewProjects), h.Experiment.GetExperiment)
			authorized.GET("/experiments/:id/analysis", perm(rbac.ViewProjects), h.Experiment.AnalyzeExperiment)
			authorized.DELETE("/experiments/:id", perm(rbac.ManageProjects), h.Experiment.DeleteExperiment)

			reports := authorized.Group("/reports")
			reports.Use(perm(rbac.ViewDataVisualization))
			{
				reports.POST("", h.Experiment.SaveReport)
				reports.GET("", h.Experiment.HistoricalReports)
				reports.GET("/monthly", h.Experiment.MonthlyReport)
				reports.POST("/monthly", h.Experiment.SaveMonthlyReport)
			}

			analyses := authorized.Group("/analyses")
			analyses.Use(perm(rbac.ViewDataVisualization))
			{
				analyses.POST("", h.Experiment.SaveAnalysis)
				analyses.GET("", h.Experiment.AnalysisHistory)
			}
		}
	}

	return r
}
