package pgsql

import (
	"github.com/jackc/pgx/v5/pgxpool"

	portsrepo "github.com/diyaa-Iskandar/petotec-app/internal/core/ports/repositories"
)

// NewRepositoryProvider builds the full repository set on a shared pool.
func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		UserRepo:         newPgxUserRepository(dbPool),
		ProjectRepo:      newPgxProjectRepository(dbPool),
		AdvanceRepo:      newPgxAdvanceRepository(dbPool),
		ExpenseRepo:      newPgxExpenseRepository(dbPool),
		NotificationRepo: newPgxNotificationRepository(dbPool),
	}
}
