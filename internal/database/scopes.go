package database

import (
	"math"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/yukikurage/task-manager/internal/utils"
)

// Paginate applies limit/skip to a GORM query. A zero limit means no limit.
func Paginate(params utils.ListParams) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		limit := params.Limit
		if params.Skip > 0 {
			db = db.Offset(params.Skip)
			// MySQL rejects OFFSET without LIMIT.
			if limit == 0 {
				limit = math.MaxInt32
			}
		}
		if limit > 0 {
			db = db.Limit(limit)
		}
		return db
	}
}

// OwnedBy restricts a query to rows of the given owner.
func OwnedBy(ownerID string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("owner_id = ?", ownerID)
	}
}

// Sort orders by the already whitelisted column, with id as a stable tiebreak.
func Sort(params utils.ListParams) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.
			Order(clause.OrderByColumn{Column: clause.Column{Name: params.SortColumn}, Desc: params.Desc}).
			Order(clause.OrderByColumn{Column: clause.Column{Name: "id"}, Desc: params.Desc})
	}
}
