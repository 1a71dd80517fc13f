package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/postwall/postwall/internal/auth"
	"github.com/postwall/postwall/internal/comment"
	"github.com/postwall/postwall/internal/config"
	"github.com/postwall/postwall/internal/httpapi"
	"github.com/postwall/postwall/internal/post"
	"github.com/postwall/postwall/internal/storage/memory"
	"github.com/postwall/postwall/internal/storage/postgres"
	"github.com/postwall/postwall/internal/user"
	"github.com/postwall/postwall/models"
)

func main() {
	storageType := flag.String("storage", "memory", "Тип хранилища: memory или postgres")
	flag.Parse()

	cfg := config.Load()

	// секрет подписи и TTL токена задаются один раз и дальше не меняются
	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.TokenTTL)

	var postStore post.PostStorage
	var commentStore comment.CommentStorage
	var userStore user.UserStorage

	switch *storageType {
	case "postgres":
		if err := postgres.InitDB(); err != nil {
			log.Fatalf("failed to connect to database: %v", err)
		}
		err := postgres.DB.AutoMigrate(&models.User{}, &models.Post{}, &models.Comment{}, &models.PostComment{}).Error
		if err != nil {
			log.Fatalf("failed to migrate database: %v", err)
		}

		log.Println("Используется PostgreSQL хранилище")
		postStore = postgres.NewPostPostgresStorage()
		commentStore = postgres.NewCommentPostgresStorage()
		userStore = postgres.NewUserPostgresStorage(tokens)

	case "memory":
		log.Println("Используется in-memory хранилище")
		postStore = memory.NewPostMemoryStorage()
		commentStore = memory.NewCommentMemoryStorage(postStore)
		userStore = memory.NewUserMemoryStorage(tokens)

	default:
		log.Fatalf("неизвестный тип хранилища: %s", *storageType)
	}

	api := httpapi.NewServer(userStore, postStore, commentStore, tokens)

	server := &http.Server{
		Addr:    cfg.Addr,
		Handler: api.Handler(),
	}

	go func() {
		log.Printf("Сервер запущен на http://localhost%s/", cfg.Addr)
		err := server.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Ошибка сервера: %v", err)
		}
	}()

	// Ожидание SIGINT/SIGTERM
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Завершение...")

	if *storageType == "postgres" {
		postgres.CloseDB()
	}

	if err := server.Shutdown(context.Background()); err != nil {
		log.Fatalf("Ошибка при завершении сервера: %v", err)
	}

	log.Println("Сервер остановлен корректно")
}
