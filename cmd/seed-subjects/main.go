package main

import (
	"context"
	"fmt"
	"time"

	"github.com/bunkmate/bunkmate-backend/internal/config"
	"github.com/bunkmate/bunkmate-backend/internal/database"
	"github.com/bunkmate/bunkmate-backend/internal/logger"
	"github.com/bunkmate/bunkmate-backend/internal/model"
	"github.com/bunkmate/bunkmate-backend/internal/repository"
)

func main() {
	cfg := config.Load()
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	subjectRepo := repository.NewSubjectRepository(pool)

	fmt.Println("=== Seeding Sample Subjects ===")

	subjects := []model.Subject{
		{Name: "Calculus II", TotalClasses: 40, AttendedClasses: 34, RequiredPercent: 75},
		{Name: "Data Structures", TotalClasses: 36, AttendedClasses: 27, RequiredPercent: 75},
		{Name: "Operating Systems", TotalClasses: 30, AttendedClasses: 18, RequiredPercent: 80},
		{Name: "Digital Electronics", TotalClasses: 24, AttendedClasses: 24, RequiredPercent: 75},
		{Name: "Technical Writing", TotalClasses: 0, AttendedClasses: 0, RequiredPercent: 70},
	}

	successCount := 0
	for i := range subjects {
		if err := subjectRepo.Create(ctx, &subjects[i]); err != nil {
			fmt.Printf("Error creating subject %q: %v\n", subjects[i].Name, err)
			continue
		}
		successCount++
	}

	fmt.Printf("\nSeed completed! Successfully added %d/%d subjects.\n", successCount, len(subjects))
}
