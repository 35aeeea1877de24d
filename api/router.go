// Package api contains all endpoints available
package api

import (
	"time"

	"fileroom/backend/db"
	"fileroom/backend/internal/service"
	"fileroom/backend/middleware"
	"fileroom/backend/pkg/security"

	cache "github.com/chenyahui/gin-cache"
	"github.com/chenyahui/gin-cache/persist"
	ginzap "github.com/gin-contrib/zap"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gorm.io/gorm"
)

const (
	gray  = "\x1b[90m"
	reset = "\x1b[0m"
)

var store = persist.NewMemoryStore(time.Minute)

type API struct {
	DB       *gorm.DB
	Router   *gin.Engine
	Argon    *security.ArgonHash
	Audit    *service.AuditService
	Accounts *service.AccountService
	Tokens   *service.TokenService
	Files    *service.FileService
	Rooms    *service.RoomService
}

func NewRouter() (*API, error) {
	a := &API{
		Argon: security.New(),
	}

	db, err := db.New()
	if err != nil {
		return nil, err
	}
	a.DB = db

	a.Audit = service.NewAuditService(db)
	a.Accounts = service.NewAccountService(db, a.Argon, a.Audit)
	a.Tokens = service.NewTokenService(db, viper.GetInt("token.default_uses"), viper.GetBool("token.legacy_guard"))
	a.Files = service.NewFileService(db, a.Audit)
	a.Rooms = service.NewRoomService(db, a.Files)

	makeLogger()

	router := gin.New()
	a.Router = router

	router.Use(
		cors.New(cors.Config{
			AllowOrigins:     viper.GetStringSlice("host.cors"),
			AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-API-Key"},
			ExposeHeaders:    []string{"Content-Length"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}),
		gin.Recovery(),
		middleware.NewRequestIDMiddleware(),
		ginzap.GinzapWithConfig(zap.L(), &ginzap.Config{
			TimeFormat: "15:04:05.000",
			UTC:        true,
			Skipper: func(c *gin.Context) bool {
				return c.Request.Method == "HEAD"
			},
			Context: func(c *gin.Context) []zapcore.Field {
				fields := []zapcore.Field{}

				if v := c.GetString("requestID"); v != "" {
					fields = append(fields, zap.String("request_id", v))
				}

				if v := c.GetString("username"); v != "" {
					fields = append(fields, zap.String("username", v))
				}

				return fields
			},
		}),
	)

	router.HandleMethodNotAllowed = true
	router.RedirectFixedPath = true
	a.Router.MaxMultipartMemory = 5 << 20

	jwt := middleware.NewJWTMiddleware(db)
	admin := middleware.NewAdminMiddleware()
	apiToken := middleware.NewAPITokenMiddleware(db, a.Tokens)
	maxUploadSize := viper.GetInt64("upload.max_size") << 20
	rateLimiter := middleware.RateLimiterMiddleware(middleware.RateLimiterConfig{
		RequestsPerSecond: viper.GetInt("security.rate_limit"),
		Burst:             viper.GetInt("security.rate_limit") * 2,
	})

	main := router.Group("/api", rateLimiter)
	{
		// HEAD /api/heartbeat 		-> Used to check if the server is alive
		main.HEAD("/heartbeat", a.Heartbeat)

		// GET /api/validate		-> Validates the session cookie
		main.GET("/validate", jwt, a.Validate)
	}

	users := main.Group("/users", middleware.BodySizeLimiter(1<<20))
	{
		// GET /api/users		-> Returns the profile and storage use of a user
		users.GET("", jwt, a.UserFetch)

		// POST /api/users 		-> Registers a new user
		users.POST("", a.UserRegister)

		// POST /api/users/login 	-> Logs in a user and sets the session cookie
		users.POST("/login", a.UserLogin)

		// PATCH /api/users		-> Updates the profile of a user
		users.PATCH("", jwt, a.UserUpdate)
	}

	tokens := main.Group("/tokens", jwt, middleware.BodySizeLimiter(1<<20))
	{
		// POST /api/tokens		-> Issues the API token of a user
		tokens.POST("", a.TokenIssue)

		// GET /api/tokens		-> Returns the remaining uses of the token
		tokens.GET("", a.TokenRemaining)
	}

	files := main.Group("/files", jwt)
	{
		// GET /api/files		-> Lists the files of the user or of a room
		files.GET("", a.FileList)

		// GET /api/files/:id		-> Serves a file the user owns
		files.GET("/:id", a.FileServe)

		// POST /api/files		-> Uploads a new file
		files.POST("", middleware.BodySizeLimiter(maxUploadSize), a.FileUpload)

		// PATCH /api/files/:id		-> Renames a file
		files.PATCH("/:id", a.FileRename)

		// DELETE /api/files/:id	-> Soft-deletes a file
		files.DELETE("/:id", a.FileDelete)

		// POST /api/files/:id/restore	-> Restores a soft-deleted file
		files.POST("/:id/restore", a.FileRestore)
	}

	rooms := main.Group("/rooms", jwt)
	{
		// POST /api/rooms		-> Opens a room over a set of users
		rooms.POST("", a.RoomCreate)

		// GET /api/rooms		-> Lists the rooms of the user with all members
		rooms.GET("", a.RoomList)

		// POST /api/rooms/:id/join	-> Joins or cancels membership in a room
		rooms.POST("/:id/join", a.RoomJoin)

		// POST /api/rooms/:id/members	-> Adds a member to a room
		rooms.POST("/:id/members", a.RoomMemberAdd)

		// DELETE /api/rooms/:id/members/:username -> Removes a member from a room
		rooms.DELETE("/:id/members/:username", a.RoomMemberRemove)

		// PATCH /api/rooms/:id/members/:username -> Changes a member's place
		rooms.PATCH("/:id/members/:username", a.RoomMemberChange)

		// POST /api/rooms/:id/files	-> Uploads a room-owned file
		rooms.POST("/:id/files", middleware.BodySizeLimiter(maxUploadSize), a.RoomFileUpload)
	}

	adm := main.Group("/admin", jwt, admin)
	{
		// GET /api/admin/users		-> Lists accounts with counts
		adm.GET("/users", cacheFor(15), a.AdminUserList)

		// DELETE /api/admin/users/:username -> Soft-deletes an account
		adm.DELETE("/users/:username", a.AdminUserDelete)

		// POST /api/admin/users/:username/restore -> Restores an account
		adm.POST("/users/:username/restore", a.AdminUserRestore)

		// GET /api/admin/logs		-> Lists the audit trail of a user
		adm.GET("/logs", a.AdminLogList)
	}

	// Routes reachable with the rate-limited API token instead of a session
	ext := main.Group("/ext", apiToken)
	{
		// GET /api/ext/files		-> Lists the caller's files
		ext.GET("/files", a.FileList)

		// GET /api/ext/files/:id	-> Serves a file the caller owns
		ext.GET("/files/:id", a.FileServe)
	}

	// Purge revoked API tokens after two months
	service.TombstoneSweep(time.Hour*24, time.Hour*24*60, db)

	return a, nil
}

func makeLogger() {
	cfg := zap.NewDevelopmentConfig()
	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	cfg.EncoderConfig.EncodeTime = func(t time.Time, pae zapcore.PrimitiveArrayEncoder) {
		pae.AppendString(gray + t.Format("15:04:05.000") + reset)
	}
	cfg.EncoderConfig.EncodeCaller = func(ec zapcore.EntryCaller, pae zapcore.PrimitiveArrayEncoder) {
		pae.AppendString(gray + ec.TrimmedPath() + reset)
	}

	cfg.DisableStacktrace = true

	log, _ := cfg.Build()
	zap.ReplaceGlobals(log)
}

func cacheFor(sec int) gin.HandlerFunc {
	return cache.CacheByRequestURI(store, time.Second*time.Duration(sec))
}
