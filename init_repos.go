// Package main, repository katmanı başlatma.
//
// initRepositories, tüm repository implementasyonlarını oluşturur.
// Her repository aynı *sqlx.DB'yi alır; connection pool thread-safe'dir.
package main

import (
	"github.com/AlperAcarAI/FiloAPIapp-sub000/repository"
	"github.com/jmoiron/sqlx"
)

// Repositories, tüm repository instance'larını tutan container struct.
type Repositories struct {
	User       repository.UserRepository
	Session    repository.SessionRepository
	APIClient  repository.APIClientRepository
	APIKey     repository.APIKeyRepository
	Usage      repository.UsageRepository
	Audit      repository.AuditRepository
	Lookup     repository.LookupRepository
	City       repository.CityRepository
	CarModel   repository.CarModelRepository
	Company    repository.CompanyRepository
	WorkArea   repository.WorkAreaRepository
	Personnel  repository.PersonnelRepository
	Asset      repository.AssetRepository
	Assignment repository.AssignmentRepository
}

func initRepositories(conn *sqlx.DB) *Repositories {
	return &Repositories{
		User:       repository.NewSQLiteUserRepo(conn),
		Session:    repository.NewSQLiteSessionRepo(conn),
		APIClient:  repository.NewSQLiteAPIClientRepo(conn),
		APIKey:     repository.NewSQLiteAPIKeyRepo(conn),
		Usage:      repository.NewSQLiteUsageRepo(conn),
		Audit:      repository.NewSQLiteAuditRepo(conn),
		Lookup:     repository.NewSQLiteLookupRepo(conn),
		City:       repository.NewSQLiteCityRepo(conn),
		CarModel:   repository.NewSQLiteCarModelRepo(conn),
		Company:    repository.NewSQLiteCompanyRepo(conn),
		WorkArea:   repository.NewSQLiteWorkAreaRepo(conn),
		Personnel:  repository.NewSQLitePersonnelRepo(conn),
		Asset:      repository.NewSQLiteAssetRepo(conn),
		Assignment: repository.NewSQLiteAssignmentRepo(conn),
	}
}
