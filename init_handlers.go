// Package main, handler katmanı başlatma.
//
// initHandlers, tüm HTTP handler'larını oluşturur.
// Her handler, ihtiyaç duyduğu service interface'lerini constructor'dan alır.
package main

import (
	"github.com/AlperAcarAI/FiloAPIapp-sub000/config"
	"github.com/AlperAcarAI/FiloAPIapp-sub000/database"
	"github.com/AlperAcarAI/FiloAPIapp-sub000/handlers"
	"github.com/AlperAcarAI/FiloAPIapp-sub000/ws"
	"go.uber.org/zap"
)

// Handlers, tüm handler instance'larını tutan container struct.
type Handlers struct {
	Auth       *handlers.AuthHandler
	User       *handlers.UserHandler
	APIClient  *handlers.APIClientHandler
	Audit      *handlers.AuditHandler
	Health     *handlers.HealthHandler
	Lookup     *handlers.LookupHandler
	City       handlers.CRUD
	CarModel   handlers.CRUD
	Company    handlers.CRUD
	WorkArea   handlers.CRUD
	Asset      handlers.CRUD
	Personnel  *handlers.PersonnelHandler
	Assignment *handlers.AssignmentHandler
	WS         *ws.Handler
}

func initHandlers(
	svcs *Services,
	limiters *RateLimiters,
	db *database.DB,
	hub *ws.Hub,
	cfg *config.Config,
	logger *zap.Logger,
) *Handlers {
	return &Handlers{
		Auth:       handlers.NewAuthHandler(svcs.Auth, limiters.Login),
		User:       handlers.NewUserHandler(svcs.User),
		APIClient:  handlers.NewAPIClientHandler(svcs.APIClient),
		Audit:      handlers.NewAuditHandler(svcs.Audit),
		Health:     handlers.NewHealthHandler(db, hub, logger),
		Lookup:     handlers.NewLookupHandler(svcs.Lookup),
		City:       handlers.NewCityHandler(svcs.City),
		CarModel:   handlers.NewCarModelHandler(svcs.CarModel),
		Company:    handlers.NewCompanyHandler(svcs.Company),
		WorkArea:   handlers.NewWorkAreaHandler(svcs.WorkArea),
		Asset:      handlers.NewAssetHandler(svcs.Asset),
		Personnel:  handlers.NewPersonnelHandler(svcs.Personnel),
		Assignment: handlers.NewAssignmentHandler(svcs.Assignment),
		WS:         ws.NewHandler(hub, svcs.Auth, cfg.Server.CORSOrigins),
	}
}
