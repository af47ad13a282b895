package main

import (
	"log"

	"github.com/starfanhq/starfan/config"
	"github.com/starfanhq/starfan/db"
	"github.com/starfanhq/starfan/server"
	"github.com/starfanhq/starfan/services"
)

func main() {
	conf, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	gormDB := db.GetDB(conf)

	authRepo := db.NewAuthRepo(gormDB)
	chatRepo := db.NewChatRepo(gormDB)
	storyRepo := db.NewStoryRepo(gormDB)
	postRepo := db.NewPostRepo(gormDB)
	subscriptionRepo := db.NewSubscriptionRepo(gormDB)
	paymentRepo := db.NewPaymentRepo(gormDB)

	blobStore, err := services.NewS3BlobStore(conf)
	if err != nil {
		log.Fatalf("unable to set up blob storage: %v", err)
	}

	authService := services.NewAuthService(authRepo, conf)
	chatService := services.NewChatService(chatRepo, authRepo, blobStore, conf)
	storyService := services.NewStoryService(storyRepo, blobStore, conf)
	postService := services.NewPostService(postRepo, blobStore, conf)
	subscriptionService := services.NewSubscriptionService(subscriptionRepo, authRepo, conf)
	paymentService := services.NewPaymentService(paymentRepo, authRepo, conf)

	s := &server.Server{
		Config:              conf,
		AuthRepository:      authRepo,
		AuthService:         authService,
		ChatService:         chatService,
		StoryService:        storyService,
		PostService:         postService,
		SubscriptionService: subscriptionService,
		PaymentService:      paymentService,
	}
	s.Start()
}
