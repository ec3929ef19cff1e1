package postgres

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/sanosuguru/go-event-participation/internal/domain/event"
)

func TestBuildEventQuery(t *testing.T) {
	paid := false
	start := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
	end := start.Add(30 * 24 * time.Hour)

	tests := []struct {
		name         string
		filter       event.Filter
		wantContains []string
		wantArgs     int
	}{
		{
			name:         "条件なしは作成日時の降順",
			filter:       event.Filter{},
			wantContains: []string{"FROM events e ORDER BY e.created_on DESC, e.id LIMIT $1 OFFSET $2"},
			wantArgs:     2,
		},
		{
			name: "公開イベント検索の全条件",
			filter: event.Filter{
				States:        []event.State{event.StatePublished},
				CategoryIDs:   []string{"cat-1"},
				Text:          "ジャズ",
				Paid:          &paid,
				RangeStart:    &start,
				RangeEnd:      &end,
				OnlyAvailable: true,
				Order:         event.OrderEventDate,
				From:          20,
				Size:          10,
			},
			wantContains: []string{
				"e.state = ANY($1)",
				"e.category_id = ANY($2::uuid[])",
				"(e.annotation ILIKE $3 OR e.description ILIKE $4)",
				"e.paid = $5",
				"e.event_date >= $6",
				"e.event_date <= $7",
				"e.participant_limit = 0 OR e.participant_limit >",
				"ORDER BY e.event_date ASC, e.id LIMIT $8 OFFSET $9",
			},
			wantArgs: 9,
		},
		{
			name:         "主催者で絞り込み",
			filter:       event.Filter{InitiatorIDs: []string{"user-1"}, Order: event.OrderEventDateDesc},
			wantContains: []string{"WHERE e.initiator_id = ANY($1::uuid[])", "ORDER BY e.event_date DESC"},
			wantArgs:     3,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			query, args := buildEventQuery(tt.filter)
			for _, want := range tt.wantContains {
				assert.Contains(t, query, want)
			}
			assert.Len(t, args, tt.wantArgs)
			assert.NotContains(t, query, "?")
		})
	}
}

func TestBuildEventQuery_TextIsEscaped(t *testing.T) {
	_, args := buildEventQuery(event.Filter{Text: "100%_off"})
	assert.Equal(t, `%100\%\_off%`, args[0])
}

func TestEscapeLike(t *testing.T) {
	assert.Equal(t, `a\\b`, escapeLike(`a\b`))
	assert.True(t, strings.HasPrefix(escapeLike("%x"), `\%`))
}
