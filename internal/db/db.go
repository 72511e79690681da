package db

import (
	"log"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"github.com/ecmobridge1-prog/Ecmo-Bridge-2.0/internal/chat"
	"github.com/ecmobridge1-prog/Ecmo-Bridge-2.0/internal/notification"
	"github.com/ecmobridge1-prog/Ecmo-Bridge-2.0/internal/patient"
	"github.com/ecmobridge1-prog/Ecmo-Bridge-2.0/internal/profile"
	"github.com/ecmobridge1-prog/Ecmo-Bridge-2.0/internal/questionnaire"
)

func Connect(dsn string) *gorm.DB {
	gdb, err := gorm.Open(mysql.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("db connect: %v", err)
	}
	if err := Migrate(gdb); err != nil {
		log.Fatalf("db migrate: %v", err)
	}
	return gdb
}

func Migrate(gdb *gorm.DB) error {
	return gdb.AutoMigrate(
		&profile.Profile{},
		&chat.Chat{},
		&chat.Member{},
		&chat.Message{},
		&questionnaire.Questionnaire{},
		&questionnaire.Question{},
		&questionnaire.Response{},
		&patient.Patient{},
		&notification.Notification{},
		&notification.FanoutJob{},
	)
}
