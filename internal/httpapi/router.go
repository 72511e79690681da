package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/ecmobridge1-prog/Ecmo-Bridge-2.0/internal/common"
	"github.com/ecmobridge1-prog/Ecmo-Bridge-2.0/internal/config"
	"github.com/ecmobridge1-prog/Ecmo-Bridge-2.0/internal/httpapi/handlers"
	"github.com/ecmobridge1-prog/Ecmo-Bridge-2.0/internal/httpapi/middleware"
	"github.com/ecmobridge1-prog/Ecmo-Bridge-2.0/internal/store/rabbitmq"
	"github.com/ecmobridge1-prog/Ecmo-Bridge-2.0/internal/store/redisstore"
)

func NewRouter(db *gorm.DB, cfg config.Config, rds *redisstore.Store, rabbit *rabbitmq.Publisher) *gin.Engine {
	r := gin.New()
	r.HandleMethodNotAllowed = true
	r.Use(gin.Logger())
	r.Use(middleware.Recovery())

	r.NoRoute(func(c *gin.Context) {
		common.Fail(c, http.StatusNotFound, 40400, "route not found")
	})
	r.NoMethod(func(c *gin.Context) {
		common.Fail(c, http.StatusMethodNotAllowed, 40500, "method not allowed")
	})

	r.Use(middleware.RequestID())

	h := handlers.NewHandler(db, cfg, rds, rabbit)

	r.GET("/ping", h.Ping)

	// registration / auth
	r.POST("/users", h.CreateUser)
	r.POST("/login", h.Login)
	r.POST("/profiles/sync", h.SyncProfile)

	authGroup := r.Group("/")
	authGroup.Use(middleware.AuthRequired(cfg.JWTSecret))

	authGroup.GET("/me", h.Me)
	authGroup.PUT("/me/availability", h.SetAvailability)
	authGroup.GET("/users", h.ListUsers)
	authGroup.GET("/users/:id", h.GetUserByID)

	// chats (JWT required)
	authGroup.POST("/chats", h.CreateChat)
	authGroup.GET("/chats", h.ListChats)
	authGroup.GET("/chats/:chat_id/messages", h.ListChatMessages)
	authGroup.POST("/chats/:chat_id/messages", h.SendChatMessage)
	authGroup.GET("/chats/:chat_id/stream", h.StreamChat)
	authGroup.GET("/chats/:chat_id/members", h.ListChatMembers)
	authGroup.DELETE("/chats/:chat_id/members/me", h.LeaveChat)
	authGroup.GET("/chats/:chat_id/questionnaires", h.ListChatQuestionnaires)

	// questionnaires
	authGroup.POST("/questionnaires", h.CreateQuestionnaire)
	authGroup.GET("/questionnaires/:id", h.GetQuestionnaire)
	authGroup.POST("/questionnaires/:id/questions", h.AddQuestion)
	authGroup.POST("/questions/:id/responses", h.AddResponse)

	// patients
	authGroup.POST("/patients", h.CreatePatient)
	authGroup.GET("/patients", h.ListPatients)
	authGroup.DELETE("/patients/:id", h.DeletePatient)

	// notifications
	authGroup.GET("/notifications", h.ListNotifications)
	authGroup.DELETE("/notifications", h.ClearNotifications)

	// integrations
	authGroup.POST("/meetings", h.CreateMeeting)
	authGroup.GET("/npi/:number", h.VerifyNPI)

	return r
}
