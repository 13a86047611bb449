package router

import (
	"Hive_Community/internal/handler"
	"Hive_Community/internal/middleware"
	"Hive_Community/internal/pkg"
	"Hive_Community/internal/repository/redis"
	"Hive_Community/internal/service"

	"github.com/gin-gonic/gin"
)

func InitRouter(st service.Store, smtpCfg pkg.SMTPConfig) *gin.Engine {
	r := gin.Default()

	cache := redis.NewMemberCache()

	emailSvc := service.NewEmailService(smtpCfg)
	user := handler.NewUserHandler(service.NewUserService(st, emailSvc))
	email := handler.NewEmailHandler(emailSvc)
	community := handler.NewCommunityHandler(service.NewCommunityService(st, cache))
	member := handler.NewMemberHandler(service.NewMemberService(st, cache))
	invitation := handler.NewInvitationHandler(service.NewInviteService(st, cache))

	// 邮件相关接口
	emailGroup := r.Group("/api/email")
	{
		emailGroup.POST("/:scope/code", email.SendCode)
	}

	// 用户相关接口
	userGroup := r.Group("/api/user")
	{
		userGroup.POST("/register", user.Register)
		userGroup.POST("/login", user.Login)
		userGroup.POST("/reset", user.ResetPassword)
	}

	// token相关接口
	tokenGroup := r.Group("/api/token")
	{
		tokenGroup.POST("/refresh", user.TokenRefresh)
	}

	// 登录态接口
	authGroup := r.Group("/api/auth")
	authGroup.Use(middleware.AuthMiddleware())
	{
		authGroup.POST("/logout", user.Logout)
		authGroup.POST("/change-password", user.ChangePassword)
	}

	// 社区与成员相关接口
	communityGroup := r.Group("/api/community")
	communityGroup.Use(middleware.AuthMiddleware())
	{
		communityGroup.POST("/create", community.Create)
		communityGroup.GET("/list", community.List)
		communityGroup.GET("/:id", community.Get)
		communityGroup.PATCH("/:id", community.Update)

		communityGroup.POST("/:id/join", community.Join)
		communityGroup.DELETE("/:id/leave", community.Leave)
		communityGroup.GET("/:id/role", community.MyRole)

		communityGroup.GET("/:id/members", member.List)
		communityGroup.PATCH("/:id/member/:memberId", member.UpdateRole)
		communityGroup.DELETE("/:id/member/:memberId", member.Remove)

		communityGroup.GET("/:id/requests", member.ListRequests)
		communityGroup.POST("/:id/request/:requestId", member.HandleRequest)
		communityGroup.DELETE("/:id/request/mine", community.CancelRequest)

		communityGroup.POST("/:id/invite", invitation.Invite)
		communityGroup.POST("/:id/invite/bulk", invitation.BulkInvite)
	}

	// 邀请相关接口（被邀请人视角）
	invitationGroup := r.Group("/api/invitation")
	invitationGroup.Use(middleware.AuthMiddleware())
	{
		invitationGroup.GET("/mine", invitation.Mine)
		invitationGroup.POST("/:id", invitation.Handle)
	}

	return r
}
