package domain

import "errors"

// Errores de dominio (sin dependencias externas).
// La capa de presentación los traduce a respuestas; ninguno debe escapar como fallo no controlado.
var (
	ErrNotFound     = errors.New("recurso no encontrado")
	ErrUserNotFound = errors.New("usuario no encontrado")
	ErrInvalidInput = errors.New("entrada inválida")
	ErrDuplicate    = errors.New("recurso duplicado")
	ErrUnauthorized = errors.New("credenciales inválidas")
	ErrForbidden    = errors.New("acceso denegado")
	ErrConflict     = errors.New("conflicto con el estado actual")

	// Alcance de tenant.
	ErrUnauthenticated     = errors.New("se requiere autenticación")
	ErrNoActiveCompany     = errors.New("no hay empresa activa seleccionada")
	ErrNotAMember          = errors.New("el usuario no pertenece a la empresa")
	ErrProjectNotInTenant  = errors.New("el proyecto no pertenece a la empresa activa")
	ErrCustomerNotInTenant = errors.New("el cliente no pertenece a la empresa activa")

	// Ciclo de vida del temporizador.
	ErrAlreadyRunning = errors.New("ya existe un temporizador en curso")
	ErrNotRunning     = errors.New("el registro de tiempo ya está detenido")

	// ErrValidation agrupa fallos de formulario (contraseñas distintas, usuario duplicado...).
	ErrValidation = errors.New("validación fallida")

	// ErrTransactionConflict colisión concurrente recuperable reintentando.
	ErrTransactionConflict = errors.New("conflicto de transacción concurrente")
)
