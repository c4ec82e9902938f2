package main

import (
	"context"
	"fmt"
	"log"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"taskhub/internal/config"
	"taskhub/internal/db"
	"taskhub/internal/model"
	"taskhub/internal/repository"
)

const demoPassword = "password123"

type demoUser struct {
	Name  string
	Email string
	Tasks []model.Task
}

func demoData() []demoUser {
	return []demoUser{
		{
			Name:  "Ann Example",
			Email: "ann@example.com",
			Tasks: []model.Task{
				{Title: "Buy milk", Status: model.TaskStatusPending},
				{Title: "Write weekly report", Description: "Due Friday", Status: model.TaskStatusPending},
				{Title: "Renew gym membership", Status: model.TaskStatusCompleted},
			},
		},
		{
			Name:  "Bob Example",
			Email: "bob@example.com",
			Tasks: []model.Task{
				{Title: "Fix leaking tap", Status: model.TaskStatusPending},
			},
		},
	}
}

func main() {
	log.Println("Starting seed script...")

	cfg := config.Load()

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	log.Println("Connected to database")

	if err := gormDB.AutoMigrate(&model.User{}, &model.Task{}); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Database migrations completed")

	userRepo := repository.NewUserRepository(gormDB)
	taskRepo := repository.NewTaskRepository(gormDB)
	ctx := context.Background()

	usersCreated, tasksCreated := 0, 0
	for _, demo := range demoData() {
		user, created, err := ensureUser(ctx, userRepo, demo)
		if err != nil {
			log.Fatalf("Failed to seed user %s: %v", demo.Email, err)
		}
		if !created {
			log.Printf("User %s already exists, skipping tasks", demo.Email)
			continue
		}
		usersCreated++

		for _, task := range demo.Tasks {
			task.UserID = user.ID
			if err := taskRepo.Create(ctx, &task); err != nil {
				log.Fatalf("Failed to seed task %q: %v", task.Title, err)
			}
			tasksCreated++
		}
	}

	log.Println("Seed completed successfully!")
	log.Printf("  - Users created: %d (password %q)", usersCreated, demoPassword)
	log.Printf("  - Tasks created: %d", tasksCreated)
}

// ensureUser creates the demo user unless the email is already registered.
func ensureUser(ctx context.Context, repo repository.UserRepository, demo demoUser) (*model.User, bool, error) {
	existing, err := repo.FindByEmail(ctx, demo.Email)
	if err == nil {
		return existing, false, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, false, fmt.Errorf("check user %s: %w", demo.Email, err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(demoPassword), 10)
	if err != nil {
		return nil, false, fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		Name:         demo.Name,
		Email:        demo.Email,
		PasswordHash: string(hashed),
	}
	if err := repo.Create(ctx, user); err != nil {
		return nil, false, fmt.Errorf("create user: %w", err)
	}
	return user, true, nil
}
