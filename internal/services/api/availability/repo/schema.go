package repo

import (
	"context"
	_ "embed"

	"scheduling/internal/modkit/repokit"
	"scheduling/internal/platform/store"
)

//go:embed schema.sql
var schemaSQL string

// Schema returns the postgres DDL for meeting types, business hours and appointments
func Schema() string { return schemaSQL }

// Migrate applies the postgres schema; statements are idempotent
func Migrate(ctx context.Context, q repokit.Queryer) error {
	_, err := q.Exec(ctx, schemaSQL)
	return err
}

// DemandTable is the clickhouse table demand events land in
const DemandTable = "availability_demand"

const demandDDL = `
CREATE TABLE IF NOT EXISTS availability_demand (
    at              DateTime64(3, 'UTC'),
    kind            LowCardinality(String),
    meeting_type_id UUID,
    day             Date,
    slot_count      UInt32,
    request_id      String
) ENGINE = MergeTree
PARTITION BY toYYYYMM(day)
ORDER BY (day, meeting_type_id, at)`

// MigrateDemand creates the clickhouse demand table
func MigrateDemand(ctx context.Context, ch store.Clickhouse) error {
	return ch.Exec(ctx, demandDDL)
}
