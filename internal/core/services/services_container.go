package services

import (
	portsrepo "github.com/diyaa-Iskandar/petotec-app/internal/core/ports/repositories"
	portssvc "github.com/diyaa-Iskandar/petotec-app/internal/core/ports/services"
	"github.com/diyaa-Iskandar/petotec-app/pkg/config"
)

// NewServiceContainer wires every service facade against the repository
// provider. The advance and expense engines share one lock registry so a
// settlement and an expense approval on the same advance serialize.
func NewServiceContainer(repos *portsrepo.RepositoryProvider, cfg *config.Config) *portssvc.ServiceContainer {
	authz := NewAuthorizationService()
	locks := NewAdvanceLocks(cfg.AdvanceLockTimeout)

	notificationSvc := NewNotificationService(repos.NotificationRepo, repos.UserRepo)
	userSvc := NewUserService(repos.UserRepo, authz)
	projectSvc := NewProjectService(repos.ProjectRepo, repos.UserRepo, authz)
	advanceSvc := NewAdvanceService(repos.AdvanceRepo, repos.ExpenseRepo, repos.ProjectRepo, repos.UserRepo, authz, notificationSvc, locks)
	expenseSvc := NewExpenseService(repos.ExpenseRepo, repos.AdvanceRepo, repos.UserRepo, authz, notificationSvc, locks)
	tokenSvc := NewTokenService(cfg.JWTSecret, cfg.JWTExpiryDuration, cfg.JWTIssuer)

	return &portssvc.ServiceContainer{
		User:         userSvc,
		Project:      projectSvc,
		Advance:      advanceSvc,
		Expense:      expenseSvc,
		Notification: notificationSvc,
		Token:        tokenSvc,
	}
}
