package store

import (
	"context"

	entsql "entgo.io/ent/dialect/sql"
	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"
)

// Table names.
const (
	tableKV            = "kv"
	tableAttemptEvents = "attempt_events"
	tableSessionEvents = "session_events"
	tableLLMEvents     = "llm_request_events"
)

// eventColumns are shared by every event table: the global sequence orders
// rows across tables and the timestamp is stored in unix milliseconds.
func eventColumns(cols ...*schema.Column) []*schema.Column {
	return append([]*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "sequence", Type: field.TypeInt64, Unique: true},
		{Name: "timestamp", Type: field.TypeInt64},
	}, cols...)
}

var (
	kvColumns = []*schema.Column{
		{Name: "key", Type: field.TypeString},
		{Name: "value", Type: field.TypeInt},
		{Name: "updated_at", Type: field.TypeInt64},
	}
	kvTable = &schema.Table{
		Name:       tableKV,
		Columns:    kvColumns,
		PrimaryKey: []*schema.Column{kvColumns[0]},
	}

	attemptColumns = eventColumns(
		&schema.Column{Name: "session_id", Type: field.TypeString},
		&schema.Column{Name: "module_id", Type: field.TypeString},
		&schema.Column{Name: "outcome", Type: field.TypeString},
		&schema.Column{Name: "steps_remaining", Type: field.TypeInt},
		&schema.Column{Name: "mistakes", Type: field.TypeInt},
		&schema.Column{Name: "wrong", Type: field.TypeString, Default: ""},
	)
	attemptTable = &schema.Table{
		Name:       tableAttemptEvents,
		Columns:    attemptColumns,
		PrimaryKey: []*schema.Column{attemptColumns[0]},
		Indexes: []*schema.Index{
			{Name: "attemptevent_session_id", Columns: []*schema.Column{attemptColumns[3]}},
			{Name: "attemptevent_module_id", Columns: []*schema.Column{attemptColumns[4]}},
		},
	}

	sessionColumns = eventColumns(
		&schema.Column{Name: "session_id", Type: field.TypeString},
		&schema.Column{Name: "action", Type: field.TypeString},
		&schema.Column{Name: "variant", Type: field.TypeString},
		&schema.Column{Name: "steps_used", Type: field.TypeInt, Default: 0},
		&schema.Column{Name: "new_best", Type: field.TypeBool, Default: false},
	)
	sessionTable = &schema.Table{
		Name:       tableSessionEvents,
		Columns:    sessionColumns,
		PrimaryKey: []*schema.Column{sessionColumns[0]},
		Indexes: []*schema.Index{
			{Name: "sessionevent_session_id", Columns: []*schema.Column{sessionColumns[3]}},
		},
	}

	llmColumns = eventColumns(
		&schema.Column{Name: "provider", Type: field.TypeString},
		&schema.Column{Name: "model", Type: field.TypeString},
		&schema.Column{Name: "purpose", Type: field.TypeString},
		&schema.Column{Name: "input_tokens", Type: field.TypeInt, Default: 0},
		&schema.Column{Name: "output_tokens", Type: field.TypeInt, Default: 0},
		&schema.Column{Name: "latency_ms", Type: field.TypeInt64, Default: 0},
		&schema.Column{Name: "success", Type: field.TypeBool},
		&schema.Column{Name: "error_message", Type: field.TypeString, Default: ""},
		&schema.Column{Name: "request_body", Type: field.TypeString, Default: ""},
		&schema.Column{Name: "response_body", Type: field.TypeString, Default: ""},
	)
	llmTable = &schema.Table{
		Name:       tableLLMEvents,
		Columns:    llmColumns,
		PrimaryKey: []*schema.Column{llmColumns[0]},
		Indexes: []*schema.Index{
			{Name: "llmrequestevent_provider", Columns: []*schema.Column{llmColumns[3]}},
			{Name: "llmrequestevent_purpose", Columns: []*schema.Column{llmColumns[5]}},
		},
	}

	tables = []*schema.Table{kvTable, attemptTable, sessionTable, llmTable}
)

// migrate creates missing tables, columns and indexes. It never drops
// anything, so an older database keeps its history.
func migrate(ctx context.Context, drv *entsql.Driver) error {
	m, err := schema.NewMigrate(drv)
	if err != nil {
		return err
	}
	return m.Create(ctx, tables...)
}
