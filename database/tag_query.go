package database

import (
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Sort keys accepted by the tag list, matched case-insensitively.
const (
	TagSortByName        = "name"
	TagSortByDisplayName = "displayName"
	SortDirectionDesc    = "desc"
)

var tagSortColumns = map[string]string{
	strings.ToLower(TagSortByName):        "name",
	strings.ToLower(TagSortByDisplayName): "display_name",
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

type predicate struct {
	sql  string
	vars []any
}

// tagQuery accumulates the stages of a tag listing. The stages are applied onto a
// single gorm chain in a fixed order, filter then order then window, regardless of
// the order the builder methods were called in.
type tagQuery struct {
	predicates []predicate
	orderBy    []clause.OrderByColumn
	offset     int
	limit      int
	windowed   bool
}

func newTagQuery() *tagQuery {
	return &tagQuery{}
}

// Search keeps rows whose name or display name contains term. A blank term is ignored.
func (q *tagQuery) Search(term string) *tagQuery {
	if strings.TrimSpace(term) == "" {
		return q
	}
	pattern := "%" + likeEscaper.Replace(term) + "%"
	q.predicates = append(q.predicates, predicate{
		sql:  `(name LIKE ? ESCAPE '\' OR display_name LIKE ? ESCAPE '\')`,
		vars: []any{pattern, pattern},
	})
	return q
}

// Sort orders by a recognized column. Unrecognized keys leave the store's order.
func (q *tagQuery) Sort(sortBy, direction string) *tagQuery {
	column, ok := tagSortColumns[strings.ToLower(sortBy)]
	if !ok {
		return q
	}
	q.orderBy = append(q.orderBy, clause.OrderByColumn{
		Column: clause.Column{Name: column},
		Desc:   strings.EqualFold(direction, SortDirectionDesc),
	})
	return q
}

// Page selects the pageNumber-th window of pageSize rows. Bounds are not checked.
func (q *tagQuery) Page(pageNumber, pageSize int) *tagQuery {
	q.offset = (pageNumber - 1) * pageSize
	q.limit = pageSize
	q.windowed = true
	return q
}

func (q *tagQuery) apply(db *gorm.DB) *gorm.DB {
	for _, p := range q.predicates {
		db = db.Where(p.sql, p.vars...)
	}
	for _, order := range q.orderBy {
		db = db.Order(order)
	}
	if q.windowed {
		db = db.Offset(q.offset).Limit(q.limit)
	}
	return db
}
