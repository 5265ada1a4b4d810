package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// pgErrCode extrae el código SQLSTATE de un error de pgx, o "" si no es un
// error del servidor.
func pgErrCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

// isUniqueViolation detecta la violación de constraint único (23505), usada
// para traducir duplicados de nombre de producto y de correo a errores de
// negocio.
func isUniqueViolation(err error) bool {
	return pgErrCode(err) == "23505"
}
