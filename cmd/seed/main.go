package main

import (
	"context"
	"log"

	"gorm.io/gorm"

	"studenthub/internal/auth"
	"studenthub/internal/config"
	"studenthub/internal/db"
	"studenthub/internal/model"
	"studenthub/internal/repository"
)

const (
	demoEmail    = "demo@example.com"
	demoName     = "Demo User"
	demoPassword = "demo123"
)

var sampleStudents = []model.Student{
	{Name: "Alice Johnson", Email: "alice.johnson@example.com", Age: 21, Course: "Mathematics", City: "Berlin"},
	{Name: "Bruno Costa", Email: "bruno.costa@example.com", Age: 24, Course: "Physics", City: "Lisbon"},
	{Name: "Chen Wei", Email: "chen.wei@example.com", Age: 22, Course: "Computer Science", City: "Singapore"},
	{Name: "Dana Levi", Email: "dana.levi@example.com", Age: 27, Course: "Mathematics", City: "Tel Aviv"},
	{Name: "Emil Novak", Email: "emil.novak@example.com", Age: 19, Course: "History", City: "Prague"},
	{Name: "Fatima Zahra", Email: "fatima.zahra@example.com", Age: 23, Course: "Computer Science", City: "Casablanca"},
}

func main() {
	log.Println("Starting seed script...")

	cfg := config.Load()

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	log.Println("Connected to database")

	if err := gormDB.AutoMigrate(&model.User{}, &model.Student{}); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Database migrations completed")

	ctx := context.Background()
	users := repository.NewUserRepository(gormDB)
	students := repository.NewStudentRepository(gormDB)

	owner, err := users.FindByEmail(ctx, demoEmail)
	if err == gorm.ErrRecordNotFound {
		hash, err := auth.NewPasswordHasher(cfg.BcryptCost).Hash(demoPassword)
		if err != nil {
			log.Fatalf("Failed to hash demo password: %v", err)
		}
		owner = &model.User{Email: demoEmail, Name: demoName, PasswordHash: hash}
		if err := users.Create(ctx, owner); err != nil {
			log.Fatalf("Failed to create demo user: %v", err)
		}
		log.Printf("Created demo user %s (password %q)", demoEmail, demoPassword)
	} else if err != nil {
		log.Fatalf("Failed to look up demo user: %v", err)
	} else {
		log.Printf("Demo user %s already exists", demoEmail)
	}

	created, skipped := 0, 0
	for _, s := range sampleStudents {
		if _, err := students.FindByEmail(ctx, s.Email); err == nil {
			skipped++
			continue
		} else if err != gorm.ErrRecordNotFound {
			log.Fatalf("Failed to check student %s: %v", s.Email, err)
		}
		s.CreatedBy = owner.ID
		if err := students.Create(ctx, &s); err != nil {
			log.Fatalf("Failed to create student %s: %v", s.Email, err)
		}
		created++
	}

	log.Printf("Seed completed: %d students created, %d already present", created, skipped)
}
