package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"

	"github.com/mitsuhirohayashi/timetable-generator-v5-sub005/internal/constraint"
	"github.com/mitsuhirohayashi/timetable-generator-v5-sub005/internal/domain"
	"github.com/mitsuhirohayashi/timetable-generator-v5-sub005/internal/ports"
	"github.com/mitsuhirohayashi/timetable-generator-v5-sub005/internal/schedule"
)

// BunStore persists a finished schedule and its violation report as
// JSON-columned rows, for later retrieval/diffing across generation runs.
// Grounded in the teacher's internal/infrastructure/storage/bun_store.go:
// same sql.OpenDB(pgdriver...)+bun.NewDB(pgdialect...) construction and
// InitSchema-then-insert shape, generalised from workflow/execution rows
// to schedule/report rows.
type BunStore struct {
	db *bun.DB
}

func NewBunStore(dsn string) *BunStore {
	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn)))
	db := bun.NewDB(sqldb, pgdialect.New())
	return &BunStore{db: db}
}

func (s *BunStore) InitSchema(ctx context.Context) error {
	models := []interface{}{
		(*ScheduleModel)(nil),
		(*ReportModel)(nil),
	}
	for _, model := range models {
		if _, err := s.db.NewCreateTable().Model(model).IfNotExists().Exec(ctx); err != nil {
			return domain.InternalError("failed to create store schema", err)
		}
	}
	return nil
}

// ScheduleModel is one generation run's final schedule, flattened to a
// JSON-columned cell array since the (class, slot) -> assignment map has
// no natural relational shape worth normalising for a write-once,
// read-rarely report table.
type ScheduleModel struct {
	bun.BaseModel `bun:"table:schedules,alias:sc"`

	ID        uuid.UUID       `bun:"id,pk"`
	Cells     json.RawMessage `bun:"cells,type:jsonb"`
	CreatedAt time.Time       `bun:"created_at"`
}

// ReportModel is one generation run's validation result plus statistics.
type ReportModel struct {
	bun.BaseModel `bun:"table:reports,alias:rp"`

	ID         uuid.UUID       `bun:"id,pk"`
	ScheduleID uuid.UUID       `bun:"schedule_id"`
	Violations json.RawMessage `bun:"violations,type:jsonb"`
	Stats      json.RawMessage `bun:"stats,type:jsonb"`
	CreatedAt  time.Time       `bun:"created_at"`
}

type cellRow struct {
	Grade       uint8          `json:"grade"`
	ClassNumber uint8          `json:"class_number"`
	Day         domain.Weekday `json:"day"`
	Period      uint8          `json:"period"`
	Subject     domain.Subject `json:"subject"`
	Teacher     domain.Teacher `json:"teacher"`
}

func (s *BunStore) WriteSchedule(ctx context.Context, sched *schedule.Schedule) error {
	rows := make([]cellRow, 0, len(sched.IterAll()))
	for _, cell := range sched.IterAll() {
		rows = append(rows, cellRow{
			Grade:       cell.Class.Grade,
			ClassNumber: cell.Class.ClassNumber,
			Day:         cell.Slot.Day,
			Period:      cell.Slot.Period,
			Subject:     cell.Assignment.Subject,
			Teacher:     cell.Assignment.Teacher,
		})
	}
	payload, err := json.Marshal(rows)
	if err != nil {
		return domain.InternalError("failed to marshal schedule for storage", err)
	}
	model := &ScheduleModel{ID: uuid.New(), Cells: payload, CreatedAt: time.Now()}
	if _, err := s.db.NewInsert().Model(model).Exec(ctx); err != nil {
		return domain.InternalError("failed to write schedule", err)
	}
	return nil
}

func (s *BunStore) WriteReport(ctx context.Context, result constraint.ValidationResult, stats ports.Stats) error {
	violations, err := json.Marshal(result.Violations)
	if err != nil {
		return domain.InternalError("failed to marshal violations for storage", err)
	}
	statsJSON, err := json.Marshal(stats)
	if err != nil {
		return domain.InternalError("failed to marshal stats for storage", err)
	}
	model := &ReportModel{ID: uuid.New(), Violations: violations, Stats: statsJSON, CreatedAt: time.Now()}
	if _, err := s.db.NewInsert().Model(model).Exec(ctx); err != nil {
		return domain.InternalError("failed to write report", err)
	}
	return nil
}
