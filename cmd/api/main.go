package main

import (
	"context"
	"encoding/json"
	"log"

	"Hive_Community/internal/config"
	"Hive_Community/internal/model"
	"Hive_Community/internal/pkg"
	"Hive_Community/internal/repository/mysql"
	"Hive_Community/internal/repository/redis"
	"Hive_Community/internal/router"
	"Hive_Community/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	pkg.ConfigureSecrets(cfg.JWTAccessSecret, cfg.JWTRefreshSecret)

	if err := mysql.InitDB(cfg.MySQLDSN); err != nil {
		panic(err)
	}

	// 连接redis
	if err := redis.Init(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB); err != nil {
		panic(err)
	}

	// 自动建表（开发阶段 OK）
	mysql.DB.AutoMigrate(
		&model.User{},
		&model.Community{},
		&model.Membership{},
		&model.JoinRequest{},
		&model.Invitation{},
		&model.MemberOutbox{},
	)

	st := mysql.NewStore(mysql.DB)

	// outbox投递器：默认只打日志，开了kafka才真正投递
	sender := service.LogSender
	if cfg.KafkaEnabled {
		producer, err := pkg.NewKafkaProducer(pkg.KafkaConfig{
			Brokers: cfg.KafkaBrokers,
			Topic:   cfg.KafkaTopic,
		})
		if err != nil {
			panic(err)
		}
		defer producer.Close()
		sender = func(ctx context.Context, ob *model.MemberOutbox) error {
			value, err := json.Marshal(ob)
			if err != nil {
				return err
			}
			return producer.Send(ctx, pkg.MakeKeyFromID(ob.CommunityID), value)
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go service.NewOutboxRelayer(st, sender).Run(ctx)

	smtpCfg := pkg.SMTPConfig{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.SMTPUsername,
		Password: cfg.SMTPPassword,
		From:     cfg.SMTPFrom,
	}

	// Gin
	r := router.InitRouter(st, smtpCfg)
	if err := r.Run(cfg.HTTPAddr); err != nil {
		log.Fatal(err)
	}
}
