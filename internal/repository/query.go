package repository

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"

	"field-tech-api/internal/model"
)

const uniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

// whereBuilder collects AND-ed predicates and their positional arguments so
// that a count query and a page query can share one predicate. Clauses use
// fmt verbs for the placeholder index, e.g. "a.username ILIKE $%d".
type whereBuilder struct {
	clauses []string
	args    []any
}

func (b *whereBuilder) add(clause string, value any) {
	b.args = append(b.args, value)
	b.clauses = append(b.clauses, fmt.Sprintf(clause, len(b.args)))
}

// next reserves a placeholder index for a trailing argument such as LIMIT.
func (b *whereBuilder) next(value any) int {
	b.args = append(b.args, value)
	return len(b.args)
}

func (b *whereBuilder) String() string {
	if len(b.clauses) == 0 {
		return ""
	}

	return "WHERE " + strings.Join(b.clauses, " AND ")
}

// applyScope narrows a clients query. alias is the clients table alias.
func applyScope(b *whereBuilder, scope model.Scope, alias string) {
	if city := strings.TrimSpace(scope.City); city != "" {
		b.add(alias+".city ILIKE $%d", "%"+escapeLike(city)+"%")
	}
	if installer := strings.TrimSpace(scope.Installer); installer != "" {
		b.add(alias+".installer = $%d", installer)
	}
}

func applyPeriod(b *whereBuilder, period *model.Period, alias string) {
	if period == nil {
		return
	}
	if !period.From.IsZero() {
		b.add(alias+".created_at >= $%d", period.From)
	}
	if !period.To.IsZero() {
		b.add(alias+".created_at < $%d", period.To)
	}
}

func escapeLike(s string) string {
	replacer := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return replacer.Replace(s)
}
