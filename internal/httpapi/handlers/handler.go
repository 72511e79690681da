package handlers

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/ecmobridge1-prog/Ecmo-Bridge-2.0/internal/chat"
	"github.com/ecmobridge1-prog/Ecmo-Bridge-2.0/internal/config"
	"github.com/ecmobridge1-prog/Ecmo-Bridge-2.0/internal/geocode"
	"github.com/ecmobridge1-prog/Ecmo-Bridge-2.0/internal/meeting"
	"github.com/ecmobridge1-prog/Ecmo-Bridge-2.0/internal/notification"
	"github.com/ecmobridge1-prog/Ecmo-Bridge-2.0/internal/npi"
	"github.com/ecmobridge1-prog/Ecmo-Bridge-2.0/internal/patient"
	"github.com/ecmobridge1-prog/Ecmo-Bridge-2.0/internal/profile"
	"github.com/ecmobridge1-prog/Ecmo-Bridge-2.0/internal/questionnaire"
	"github.com/ecmobridge1-prog/Ecmo-Bridge-2.0/internal/store/rabbitmq"
	"github.com/ecmobridge1-prog/Ecmo-Bridge-2.0/internal/store/redisstore"
)

type Handler struct {
	DB    *gorm.DB
	Cfg   config.Config
	Redis *redisstore.Store

	ProfileSvc       *profile.Service
	ChatSvc          *chat.Service
	QuestionnaireSvc *questionnaire.Service
	PatientSvc       *patient.Service
	NotificationRepo *notification.Repo
	Zoom             *meeting.ZoomClient
	NPI              *npi.Client
}

func NewHandler(db *gorm.DB, cfg config.Config, rds *redisstore.Store, rabbit *rabbitmq.Publisher) *Handler {
	profileRepo := profile.NewRepo(db)
	chatRepo := chat.NewRepo(db)
	questionnaireRepo := questionnaire.NewRepo(db)
	patientRepo := patient.NewRepo(db)
	notificationRepo := notification.NewRepo(db)

	chatSvc := chat.NewService(chatRepo)

	var enqueuer patient.FanoutEnqueuer
	if rabbit != nil {
		enqueuer = notification.NewEnqueuer(notificationRepo, rabbit)
	}

	return &Handler{
		DB:    db,
		Cfg:   cfg,
		Redis: rds,

		ProfileSvc:       profile.NewService(profileRepo),
		ChatSvc:          chatSvc,
		QuestionnaireSvc: questionnaire.NewService(questionnaireRepo, chatSvc),
		PatientSvc: patient.NewService(
			patientRepo,
			geocode.NewClient(cfg.GeocodeBaseURL),
			notificationRepo,
			enqueuer,
		),
		NotificationRepo: notificationRepo,
		Zoom:             meeting.NewZoomClient(cfg.ZoomAccountID, cfg.ZoomClientID, cfg.ZoomClientSecret),
		NPI:              npi.NewClient(cfg.NPIBaseURL, rds, cfg.NPICacheTTL),
	}
}

func (h *Handler) Ping(c *gin.Context) {
	c.JSON(200, gin.H{"message": "pong"})
}
