package services

import (
	"fmt"

	"gorm.io/gorm"
)

// monthExpr renders a date column as its YYYY-MM month for the connected
// dialect. Month and day filters compare against strings computed in Go so
// no query depends on the database's idea of the current date.
func monthExpr(db *gorm.DB, col string) string {
	switch db.Dialector.Name() {
	case "mysql":
		return fmt.Sprintf("DATE_FORMAT(%s, '%%Y-%%m')", col)
	case "sqlite":
		return fmt.Sprintf("strftime('%%Y-%%m', %s)", col)
	case "sqlserver", "mssql":
		return fmt.Sprintf("FORMAT(%s, 'yyyy-MM')", col)
	default: // postgres
		return fmt.Sprintf("TO_CHAR(%s, 'YYYY-MM')", col)
	}
}

// dateExpr renders a date column as its YYYY-MM-DD day for the connected
// dialect.
func dateExpr(db *gorm.DB, col string) string {
	switch db.Dialector.Name() {
	case "mysql":
		return fmt.Sprintf("DATE_FORMAT(%s, '%%Y-%%m-%%d')", col)
	case "sqlite":
		return fmt.Sprintf("strftime('%%Y-%%m-%%d', %s)", col)
	case "sqlserver", "mssql":
		return fmt.Sprintf("FORMAT(%s, 'yyyy-MM-dd')", col)
	default: // postgres
		return fmt.Sprintf("TO_CHAR(%s, 'YYYY-MM-DD')", col)
	}
}
