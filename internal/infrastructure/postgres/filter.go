package postgres

import (
	"fmt"
	"strings"

	"github.com/lib/pq"

	"github.com/sanosuguru/go-event-participation/internal/domain/event"
)

// whereBuilder は AND で連結する条件とプレースホルダ引数を組み立てる
type whereBuilder struct {
	conds []string
	args  []interface{}
}

// add は条件を追加する。cond 内の ? は順に $n へ置換される
func (b *whereBuilder) add(cond string, args ...interface{}) {
	for _, a := range args {
		b.args = append(b.args, a)
		cond = strings.Replace(cond, "?", fmt.Sprintf("$%d", len(b.args)), 1)
	}
	b.conds = append(b.conds, cond)
}

func (b *whereBuilder) sql() string {
	if len(b.conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(b.conds, " AND ")
}

func (b *whereBuilder) arg(v interface{}) string {
	b.args = append(b.args, v)
	return fmt.Sprintf("$%d", len(b.args))
}

// buildEventQuery は event.Filter を SELECT 文に変換する
func buildEventQuery(f event.Filter) (string, []interface{}) {
	f = f.Normalize()
	b := &whereBuilder{}

	if len(f.IDs) > 0 {
		b.add("e.id = ANY(?::uuid[])", pq.Array(f.IDs))
	}
	if len(f.InitiatorIDs) > 0 {
		b.add("e.initiator_id = ANY(?::uuid[])", pq.Array(f.InitiatorIDs))
	}
	if len(f.States) > 0 {
		states := make([]string, len(f.States))
		for i, s := range f.States {
			states[i] = string(s)
		}
		b.add("e.state = ANY(?)", pq.Array(states))
	}
	if len(f.CategoryIDs) > 0 {
		b.add("e.category_id = ANY(?::uuid[])", pq.Array(f.CategoryIDs))
	}
	if f.Text != "" {
		pattern := "%" + escapeLike(f.Text) + "%"
		b.add("(e.annotation ILIKE ? OR e.description ILIKE ?)", pattern, pattern)
	}
	if f.Paid != nil {
		b.add("e.paid = ?", *f.Paid)
	}
	if f.RangeStart != nil {
		b.add("e.event_date >= ?", *f.RangeStart)
	}
	if f.RangeEnd != nil {
		b.add("e.event_date <= ?", *f.RangeEnd)
	}
	if f.OnlyAvailable {
		b.add(`(e.participant_limit = 0 OR e.participant_limit > (
			SELECT COUNT(*) FROM participation_requests pr
			WHERE pr.event_id = e.id AND pr.status = 'CONFIRMED'))`)
	}

	query := "SELECT " + eventColumns + " FROM events e" + b.sql()

	switch f.Order {
	case event.OrderEventDate:
		query += " ORDER BY e.event_date ASC, e.id"
	case event.OrderEventDateDesc:
		query += " ORDER BY e.event_date DESC, e.id"
	default:
		query += " ORDER BY e.created_on DESC, e.id"
	}
	query += " LIMIT " + b.arg(f.Size) + " OFFSET " + b.arg(f.From)

	return query, b.args
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
