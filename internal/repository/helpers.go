package repository

import "gorm.io/gorm/clause"

// byOrder sorts on the reserved-word column "order", quoted per dialect.
func byOrder(tiebreak ...string) clause.OrderBy {
	cols := []clause.OrderByColumn{{Column: clause.Column{Name: "order"}}}
	for _, name := range tiebreak {
		cols = append(cols, clause.OrderByColumn{Column: clause.Column{Name: name}})
	}
	return clause.OrderBy{Columns: cols}
}
