package postgres

import (
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/jhoicas/timereg-api/internal/domain"
)

// Nombres de constraints referenciados desde el código (ver migrations/).
const (
	constraintUsername        = "users_username_key"
	constraintRunningPerUser  = "time_entries_one_running_per_user"
	constraintCustomerNumber  = "customers_company_number_key"
	constraintProjectNumber   = "projects_company_number_key"
	constraintProjectCustomer = "projects_company_customer_fkey"
	constraintEntryProject    = "time_entries_company_project_fkey"
	constraintMembershipUser  = "company_members_user_id_fkey"
)

// mapPgError traduce errores de PostgreSQL a errores de dominio.
// Devuelve el error original si no es de PostgreSQL o no coincide con ningún patrón conocido.
func mapPgError(err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	switch pgErr.Code {
	case pgerrcode.UniqueViolation:
		switch pgErr.ConstraintName {
		case constraintRunningPerUser:
			return domain.ErrAlreadyRunning
		case constraintCustomerNumber, constraintProjectNumber:
			return fmt.Errorf("%w: %s", domain.ErrTransactionConflict, pgErr.ConstraintName)
		}
		return fmt.Errorf("%w: %s", domain.ErrDuplicate, pgErr.ConstraintName)

	case pgerrcode.ForeignKeyViolation:
		switch pgErr.ConstraintName {
		case constraintProjectCustomer:
			return domain.ErrCustomerNotInTenant
		case constraintEntryProject:
			return domain.ErrProjectNotInTenant
		case constraintMembershipUser:
			return domain.ErrUserNotFound
		}
		return fmt.Errorf("%w: %s", domain.ErrNotFound, pgErr.ConstraintName)

	case pgerrcode.InvalidTextRepresentation:
		// p. ej. un id que no es UUID: para el llamador equivale a "no existe".
		return domain.ErrNotFound

	case pgerrcode.SerializationFailure, pgerrcode.DeadlockDetected:
		return fmt.Errorf("%w: %s", domain.ErrTransactionConflict, pgErr.Message)

	case pgerrcode.CheckViolation, pgerrcode.NotNullViolation, pgerrcode.StringDataRightTruncationDataException:
		return fmt.Errorf("%w: %s", domain.ErrValidation, pgErr.Message)
	}
	return fmt.Errorf("postgres error [%s]: %s: %w", pgErr.Code, pgErr.Message, err)
}

// isNoRows informa si la consulta no devolvió filas.
func isNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}

func isTransactionConflict(err error) bool {
	return errors.Is(err, domain.ErrTransactionConflict)
}

// isNotFound cubre ids mal formados, que PostgreSQL rechaza antes de buscar.
func isNotFound(err error) bool {
	return errors.Is(err, domain.ErrNotFound)
}
