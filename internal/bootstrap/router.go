package bootstrap

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"

	httpapi "github.com/tidytask/tidytask-backend/internal/api/http"
	"github.com/tidytask/tidytask-backend/internal/api/http/middleware"
	"github.com/tidytask/tidytask-backend/internal/auth"
	authhttp "github.com/tidytask/tidytask-backend/internal/auth/http"
	authmw "github.com/tidytask/tidytask-backend/internal/auth/middleware"
	projhttp "github.com/tidytask/tidytask-backend/internal/projects/http"
	projrepo "github.com/tidytask/tidytask-backend/internal/projects/repository"
	projsvc "github.com/tidytask/tidytask-backend/internal/projects/service"
	taskhttp "github.com/tidytask/tidytask-backend/internal/tasks/http"
	taskrepo "github.com/tidytask/tidytask-backend/internal/tasks/repository"
	tasksvc "github.com/tidytask/tidytask-backend/internal/tasks/service"
	userhttp "github.com/tidytask/tidytask-backend/internal/users/http"
	userrepo "github.com/tidytask/tidytask-backend/internal/users/repository"
	usersvc "github.com/tidytask/tidytask-backend/internal/users/service"
)

type RouterDeps struct {
	ServiceName    string
	Version        string
	FrontendOrigin string
	DB             *pgxpool.Pool
	Redis          *redis.Client
	OAuth          *auth.GithubProvider
	Issuer         *auth.TokenIssuer
}

// BuildRouter wires repositories, services and handlers. Everything is
// constructed here and passed down; nothing reaches for globals.
func BuildRouter(dep RouterDeps) *gin.Engine {
	r := gin.Default()
	r.Use(middleware.RequestID())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{dep.FrontendOrigin},
		AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Request-Id"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	healthHandler := httpapi.NewHealthHandler(dep.ServiceName, dep.Version, dep.DB)
	healthHandler.Register(r)

	userRepo := userrepo.NewUserRepository(dep.DB)
	projectRepo := projrepo.NewProjectRepository(dep.DB)
	taskRepo := taskrepo.NewTaskRepository(dep.DB)

	userService := usersvc.NewUserService(userRepo)
	projectService := projsvc.NewProjectService(projectRepo)
	taskService := tasksvc.NewTaskService(taskRepo, projectService)

	authGroup := r.Group("/auth")
	authGroup.Use(middleware.RateLimitMiddleware(rate.Every(time.Second), 5))
	authhttp.NewHandler(dep.OAuth, auth.NewStateStore(dep.Redis), dep.Issuer, userService).Register(authGroup)

	api := r.Group("/api/v1")
	api.Use(authmw.JWTAuthMiddleware(dep.Issuer))

	userhttp.Register(api, userService)
	projhttp.Register(api.Group("/projects"), projectService)
	taskhttp.Register(api.Group("/tasks"), taskService)

	return r
}
