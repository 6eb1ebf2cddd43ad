package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"jiraboardsync/api"
	"jiraboardsync/config"
	"jiraboardsync/services"
	"jiraboardsync/utils"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.LoadConfig()
	if err != nil {
		utils.LogError("failed to load configuration: %v", err)
		os.Exit(1)
	}

	jiraClient := api.NewJiraClient(cfg)
	syncService := services.NewSyncService(cfg, jiraClient)

	result, err := syncService.Run(ctx)
	if err != nil {
		utils.LogError("sync failed: %v", err)
		stop()
		os.Exit(1)
	}

	utils.LogInfo("Done. Loaded %d issues for board %d into %s (%s).",
		result.Issues, result.BoardID, result.Driver, result.Database)
}
