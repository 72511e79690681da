package main

import (
	"log"

	"github.com/ecmobridge1-prog/Ecmo-Bridge-2.0/internal/config"
	"github.com/ecmobridge1-prog/Ecmo-Bridge-2.0/internal/db"
	"github.com/ecmobridge1-prog/Ecmo-Bridge-2.0/internal/httpapi"
	"github.com/ecmobridge1-prog/Ecmo-Bridge-2.0/internal/store/rabbitmq"
	"github.com/ecmobridge1-prog/Ecmo-Bridge-2.0/internal/store/redisstore"
)

func main() {
	cfg := config.Load()

	gdb := db.Connect(cfg.DBDSN)

	rds := redisstore.NewStore(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	defer rds.Close()

	rabbit, err := rabbitmq.NewPublisher(cfg.RabbitURL, cfg.RabbitQueue)
	if err != nil {
		// notifications degrade to load-on-demand without the queue
		log.Printf("rabbit unavailable, notification fan-out disabled: %v", err)
		rabbit = nil
	} else {
		defer rabbit.Close()
	}

	r := httpapi.NewRouter(gdb, cfg, rds, rabbit)

	log.Printf("server listening on %s", cfg.HTTPAddr)
	if err := r.Run(cfg.HTTPAddr); err != nil {
		log.Fatalf("server: %v", err)
	}
}
