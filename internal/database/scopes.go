package database

import (
	"strings"

	"github.com/yukikurage/personal-task-api/internal/models"
	"gorm.io/gorm"
)

// OwnedBy restricts a task query to rows owned by ownerID.
func OwnedBy(ownerID uint64) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("tasks.user_id = ?", ownerID)
	}
}

// WithTaskFilter applies the optional status and search predicates of filter.
// The search matches the lower-cased title against the lower-cased term, or the
// raw description against the raw term.
func WithTaskFilter(filter models.TaskFilter) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if filter.Status != nil {
			db = db.Where("tasks.status = ?", *filter.Status)
		}
		if filter.Search != "" {
			db = db.Where(searchClause(db.Dialector.Name()), strings.ToLower(filter.Search), filter.Search)
		}
		return db
	}
}

// searchClause uses substring position functions instead of LIKE so the term
// is matched literally and the description comparison stays case-sensitive
// under every supported driver. MySQL compares in binary so the collation
// cannot fold accents. SQLite needs go_lower, see SQLiteDialector.
func searchClause(dialect string) string {
	switch dialect {
	case "postgres":
		return "(STRPOS(LOWER(tasks.title), ?) > 0 OR STRPOS(tasks.description, ?) > 0)"
	case "mysql":
		return "(LOCATE(BINARY ?, LOWER(tasks.title)) > 0 OR LOCATE(BINARY ?, tasks.description) > 0)"
	default:
		return "(INSTR(go_lower(tasks.title), ?) > 0 OR INSTR(tasks.description, ?) > 0)"
	}
}
