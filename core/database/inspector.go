package database

import (
	"fmt"
	"strings"

	"gorm.io/gorm"
)

// ColumnInfo matches the output of SHOW COLUMNS
type ColumnInfo struct {
	Field   string
	Type    string
	Null    string
	Key     string
	Default *string // Pointer because NULL default is possible
	Extra   string
}

// GetTableColumns retrieves the column definitions for a given table.
// A table that does not exist yields an empty result on sqlite and postgres.
func GetTableColumns(db *gorm.DB, tableName string) ([]ColumnInfo, error) {
	var columns []ColumnInfo

	switch db.Dialector.Name() {
	case DriverSQLite:
		type sqliteColumn struct {
			Cid        int
			Name       string
			Type       string
			Notnull    int
			DefaultVal *string `gorm:"column:dflt_value"`
			Pk         int
		}
		var sqliteCols []sqliteColumn
		if err := db.Raw(fmt.Sprintf("PRAGMA table_info('%s')", tableName)).Scan(&sqliteCols).Error; err != nil {
			return nil, fmt.Errorf("failed to get columns for table %s: %w", tableName, err)
		}
		for _, col := range sqliteCols {
			info := ColumnInfo{
				Field:   col.Name,
				Type:    col.Type,
				Default: col.DefaultVal,
				Null:    "YES",
			}
			if col.Notnull == 1 {
				info.Null = "NO"
			}
			if col.Pk > 0 {
				info.Key = "PRI"
			}
			columns = append(columns, info)
		}
	case DriverPostgres:
		err := db.Raw(`SELECT column_name AS field, data_type AS type, is_nullable AS "null", column_default AS "default"
			FROM information_schema.columns WHERE table_name = ? ORDER BY ordinal_position`, tableName).Scan(&columns).Error
		if err != nil {
			return nil, fmt.Errorf("failed to get columns for table %s: %w", tableName, err)
		}
	default:
		err := db.Raw(fmt.Sprintf("SHOW COLUMNS FROM `%s`", tableName)).Scan(&columns).Error
		if err != nil {
			return nil, fmt.Errorf("failed to get columns for table %s: %w", tableName, err)
		}
	}

	for i := range columns {
		columns[i].Type = strings.ToLower(columns[i].Type)
		columns[i].Field = strings.ToLower(columns[i].Field)
	}
	return columns, nil
}

// MissingColumns returns the expected columns that are absent from the table.
func MissingColumns(db *gorm.DB, tableName string, expected []string) ([]string, error) {
	columns, err := GetTableColumns(db, tableName)
	if err != nil {
		return nil, err
	}

	present := make(map[string]struct{}, len(columns))
	for _, col := range columns {
		present[col.Field] = struct{}{}
	}

	var missing []string
	for _, name := range expected {
		if _, ok := present[strings.ToLower(name)]; !ok {
			missing = append(missing, name)
		}
	}
	return missing, nil
}
