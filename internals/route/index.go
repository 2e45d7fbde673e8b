package routes

import (
	"context"
	"log"
	"time"

	"pesantren_backend/internals/configs"
	attendanceService "pesantren_backend/internals/features/school/attendances/service"
	authMiddleware "pesantren_backend/internals/middlewares/auth"
	routeDetails "pesantren_backend/internals/route/details"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

var startTime time.Time

// redisBlacklist: token yang di-revoke layanan auth disimpan sebagai key "jwt:blacklist:<token>".
func redisBlacklist(rdb *redis.Client) func(string) (bool, error) {
	if rdb == nil {
		return nil
	}
	return func(raw string) (bool, error) {
		ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
		defer cancel()
		n, err := rdb.Exists(ctx, "jwt:blacklist:"+raw).Result()
		return n > 0, err
	}
}

func SetupRoutes(app *fiber.App, db *gorm.DB, rdb *redis.Client, cache attendanceService.SummaryCache) {
	startTime = time.Now()

	BaseRoutes(app, db)

	jwtOpts := authMiddleware.AuthJWTOpts{
		Secret:              configs.JWTSecret,
		BlacklistChecker:    redisBlacklist(rdb),
		AllowCookieFallback: true,
	}

	// ===================== GROUPS =====================

	log.Println("[INFO] Setting up PRIVATE (user) group...")
	private := app.Group("/api/u", authMiddleware.AuthJWT(jwtOpts))

	log.Println("[INFO] Setting up ADMIN group (Auth + RoleCheck)...")
	admin := app.Group("/api/a",
		authMiddleware.AuthJWT(jwtOpts),
		authMiddleware.IsSchoolStaff(),
	)

	// ===================== MOUNT ROUTES =====================

	log.Println("[INFO] Mounting School routes...")
	routeDetails.SchoolUserRoutes(private, db, cache)
	routeDetails.SchoolAdminRoutes(admin, db, cache)
}
