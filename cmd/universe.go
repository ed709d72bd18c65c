package cmd

import (
	"context"
	"log"

	"stock-scanner/internal/repository"
	"stock-scanner/internal/service"

	"github.com/spf13/cobra"
)

var refreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Rebuild the categorized stock universe and exit",
	Run: func(cmd *cobra.Command, args []string) {
		runUniverseRefresh()
	},
}

var universeCmd = &cobra.Command{
	Use: "universe",
}

func init() {
	universeCmd.AddCommand(refreshCmd)
}

func runUniverseRefresh() {
	ctx := context.Background()

	appDep, err := NewAppDependency(ctx)
	if err != nil {
		log.Fatalf("Failed to create app dependency: %v", err)
	}

	repo := repository.NewRepository(appDep.cfg, appDep.cache, appDep.log)

	services := service.NewService(appDep.cfg, appDep.log, repo, appDep.cache)
	if err := services.UniverseService.Refresh(ctx); err != nil {
		log.Fatalf("Universe refresh failed: %v", err)
	}
}
