package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"innovation-portal-api/config"
	"innovation-portal-api/repository"
	"innovation-portal-api/services"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	file := flag.String("file", "workflow.yaml", "YAML file with workflow.stages")
	createdBy := flag.Uint("created-by", 0, "user id recorded as creator (overrides workflow.created_by)")
	dryRun := flag.Bool("dry-run", false, "validate the file without writing")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := config.Load()
	logger, logFile := config.InitLogging(cfg)
	if logFile != nil {
		defer logFile.Close()
	}
	defer func() { _ = logger.Sync() }()

	if err := run(cfg, logger, *file, *createdBy, *dryRun); err != nil {
		logger.Error("seed workflow failed", zap.Error(err))
		os.Exit(1)
	}
}

func run(cfg config.AppConfig, logger *zap.Logger, path string, createdBy uint, dryRun bool) error {
	seed, err := config.LoadSeedFile(path)
	if err != nil {
		return err
	}
	if createdBy == 0 {
		createdBy = seed.Workflow.CreatedBy
	}

	names, err := services.ValidateWorkflowStages(seed.Workflow.Stages)
	if err != nil {
		var svcErr *services.ServiceError
		if errors.As(err, &svcErr) {
			for _, field := range svcErr.Fields {
				logger.Error("invalid stage", zap.String("field", field.Field), zap.String("message", field.Message))
			}
		}
		return err
	}
	if dryRun {
		fmt.Printf("%d stages valid: %v\n", len(names), names)
		return nil
	}

	db, err := config.InitDB(cfg)
	if err != nil {
		return err
	}
	store := repository.NewGormStore(db)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	wf, err := services.NewWorkflowService(store.Workflows, nil, logger).CreateAndActivate(ctx, names, createdBy)
	if err != nil {
		return err
	}
	fmt.Printf("activated workflow version %d (id %d) with %d stages\n", wf.Version, wf.ID, len(wf.Stages))
	return nil
}
