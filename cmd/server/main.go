package main

import (
	"context"
	"log"

	"github.com/roomsense/occupancy-backend-go/internal/api"
	"github.com/roomsense/occupancy-backend-go/internal/config"
	"github.com/roomsense/occupancy-backend-go/internal/database"
	"github.com/roomsense/occupancy-backend-go/internal/floorplan"
	"github.com/roomsense/occupancy-backend-go/internal/handler"
	"github.com/roomsense/occupancy-backend-go/internal/occupancy"
	"github.com/roomsense/occupancy-backend-go/internal/repository"
	"github.com/roomsense/occupancy-backend-go/internal/service"
)

func main() {
	// 加载配置
	cfg := config.Load()

	// 打开只读数据库
	db, err := database.Open(database.Config{Path: cfg.DBPath})
	if err != nil {
		log.Fatal("Failed to open readings store:", err)
	}
	defer db.Close()

	// Wire the refresh pipeline
	repo := repository.NewReadingRepository(db, cfg.ReadingsTable, cfg.TimestampColumn)
	normalizer := occupancy.NewNormalizer(occupancy.Aliases{
		Room:      cfg.RoomAliases,
		Count:     cfg.CountAliases,
		Timestamp: cfg.TimestampAliases,
	})
	classifier := occupancy.NewClassifier(buildProfile(cfg), cfg.Capacities)
	freshness := occupancy.Freshness{StaleAfter: cfg.StaleAfter}
	refresh := service.NewRefreshService(repo, normalizer, classifier, freshness, cfg.FetchLimit)

	var plan *floorplan.Plan
	if cfg.FloorplanPath != "" {
		plan, err = floorplan.Load(cfg.FloorplanPath)
		if err != nil {
			log.Fatal("Failed to load floor plan:", err)
		}
	}

	// Background poll timer; user-triggered refreshes share the same
	// in-flight guard.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go service.NewPoller(refresh, cfg.PollInterval).Run(ctx)

	// 初始化路由
	router := api.SetupRouter(cfg,
		handler.NewRoomHandler(refresh),
		handler.NewFloorplanHandler(plan, refresh),
	)

	// 启动服务器
	log.Printf("Server starting on port %s", cfg.Port)
	if err := router.Run(cfg.Port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}

// buildProfile turns the flat config knobs into a classifier profile.
func buildProfile(cfg *config.Config) occupancy.Profile {
	var profile occupancy.Profile
	if cfg.TierProfile == "four" {
		profile = occupancy.FourTierProfile(cfg.LightBound, cfg.ModerateBound)
	} else {
		profile = occupancy.ThreeTierProfile(cfg.LowBound)
	}
	profile.Fractions = cfg.CapacityFractions
	return profile
}
