// Package schema reads live table metadata from the store and resolves
// the foreign key joining a parent relation to a child relation.
package schema

import (
	"strings"

	"github.com/subhero24/sql-graph-query/internal/store"
)

// Catalog holds the metadata queries for one dialect. Both queries take the
// table name as their only argument. The columns query yields "name" and
// "type"; the foreign key query yields "from", "table" and "to".
type Catalog struct {
	Columns     string
	ForeignKeys string

	// TextTypes are the declared types (lowercase) that can hold a JSON
	// document as text.
	TextTypes []string
}

var sqliteCatalog = Catalog{
	Columns:     `SELECT "name", "type" FROM pragma_table_info(?) ORDER BY "cid"`,
	ForeignKeys: `SELECT "table", "from", "to" FROM pragma_foreign_key_list(?) ORDER BY "id", "seq"`,
	TextTypes:   []string{"text", "json"},
}

var postgresCatalog = Catalog{
	Columns: `SELECT column_name AS "name", data_type AS "type"
FROM information_schema.columns
WHERE table_schema = current_schema() AND table_name = ?
ORDER BY ordinal_position`,
	ForeignKeys: `SELECT ccu.table_name AS "table", kcu.column_name AS "from", ccu.column_name AS "to"
FROM information_schema.table_constraints tc
JOIN information_schema.key_column_usage kcu
	ON tc.constraint_name = kcu.constraint_name AND tc.table_schema = kcu.table_schema
JOIN information_schema.constraint_column_usage ccu
	ON tc.constraint_name = ccu.constraint_name AND tc.table_schema = ccu.table_schema
WHERE tc.constraint_type = 'FOREIGN KEY' AND tc.table_schema = current_schema() AND tc.table_name = ?
ORDER BY tc.constraint_name, kcu.ordinal_position`,
	TextTypes: []string{"text", "json", "jsonb", "character varying"},
}

var mysqlCatalog = Catalog{
	Columns: "SELECT COLUMN_NAME AS `name`, DATA_TYPE AS `type`\n" +
		"FROM information_schema.COLUMNS\n" +
		"WHERE TABLE_SCHEMA = DATABASE() AND TABLE_NAME = ?\n" +
		"ORDER BY ORDINAL_POSITION",
	ForeignKeys: "SELECT REFERENCED_TABLE_NAME AS `table`, COLUMN_NAME AS `from`, REFERENCED_COLUMN_NAME AS `to`\n" +
		"FROM information_schema.KEY_COLUMN_USAGE\n" +
		"WHERE TABLE_SCHEMA = DATABASE() AND TABLE_NAME = ? AND REFERENCED_TABLE_NAME IS NOT NULL\n" +
		"ORDER BY CONSTRAINT_NAME, ORDINAL_POSITION",
	TextTypes: []string{"text", "tinytext", "mediumtext", "longtext", "json", "varchar"},
}

// CatalogFor returns the catalog queries for a dialect. Unknown dialects
// get the SQLite catalog.
func CatalogFor(d store.Dialect) Catalog {
	switch d.Name {
	case store.Postgres.Name:
		return postgresCatalog
	case store.MySQL.Name:
		return mysqlCatalog
	default:
		return sqliteCatalog
	}
}

// isText reports whether a declared column type can hold JSON text.
// Length modifiers such as VARCHAR(255) are ignored.
func (c Catalog) isText(typ string) bool {
	typ = strings.ToLower(strings.TrimSpace(typ))
	if i := strings.IndexByte(typ, '('); i >= 0 {
		typ = strings.TrimSpace(typ[:i])
	}
	for _, t := range c.TextTypes {
		if typ == t {
			return true
		}
	}
	return false
}
