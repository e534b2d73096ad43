package address

import (
	"context"
	"errors"
	"healthwatch/pkg/apperror"
	"healthwatch/pkg/utils"
	"reflect"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedDB answers every call with the canned result and records the
// last statement it saw.
type scriptedDB struct {
	tag     pgconn.CommandTag
	execErr error
	rows    *scriptedRows
	row     scriptedRow
	qErr    error

	sql  string
	args []any
}

func (d *scriptedDB) Exec(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	d.sql, d.args = sql, args
	return d.tag, d.execErr
}

func (d *scriptedDB) Query(_ context.Context, sql string, args ...any) (pgx.Rows, error) {
	d.sql, d.args = sql, args
	if d.qErr != nil {
		return nil, d.qErr
	}
	return d.rows, nil
}

func (d *scriptedDB) QueryRow(_ context.Context, sql string, args ...any) pgx.Row {
	d.sql, d.args = sql, args
	return d.row
}

// scriptedRow copies values into the scan targets, which must have the
// same types.
type scriptedRow struct {
	values []any
	err    error
}

func (r scriptedRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	if len(dest) != len(r.values) {
		return errors.New("column count mismatch")
	}
	for i, v := range r.values {
		reflect.ValueOf(dest[i]).Elem().Set(reflect.ValueOf(v))
	}
	return nil
}

type scriptedRows struct {
	rows   []scriptedRow
	pos    int
	err    error
	closed bool
}

func (r *scriptedRows) Close()                                       { r.closed = true }
func (r *scriptedRows) Err() error                                   { return r.err }
func (r *scriptedRows) CommandTag() pgconn.CommandTag                { return pgconn.NewCommandTag("SELECT") }
func (r *scriptedRows) FieldDescriptions() []pgconn.FieldDescription { return nil }
func (r *scriptedRows) Values() ([]any, error)                       { return nil, nil }
func (r *scriptedRows) RawValues() [][]byte                          { return nil }
func (r *scriptedRows) Conn() *pgx.Conn                              { return nil }

func (r *scriptedRows) Next() bool {
	if r.pos >= len(r.rows) {
		return false
	}
	r.pos++
	return true
}

func (r *scriptedRows) Scan(dest ...any) error {
	return r.rows[r.pos-1].Scan(dest...)
}

func rowOf(m *MonitoredAddress) scriptedRow {
	return scriptedRow{values: []any{
		utils.ToPgUUID(m.ID),
		utils.ToPgUUID(m.OwnerID),
		m.Address,
		utils.ToPgInt4(m.IntervalMinutes),
		string(m.LastStatus),
		utils.ToPgTimestamptz(m.NextCheckAt),
		utils.ToPgTimestamptz(m.CreatedAt),
	}}
}

func newTestRepository(d *scriptedDB) *Repository {
	l := zerolog.Nop()
	return NewRepository(d, &l)
}

func sampleAddress(t *testing.T, addr string, nextCheck time.Time) *MonitoredAddress {
	t.Helper()
	m, err := NewMonitoredAddress(uuid.New(), addr, 5, testNow)
	require.NoError(t, err)
	m.NextCheckAt = nextCheck
	return m
}

func TestRepository_WritesMapRowsAffected(t *testing.T) {
	m := sampleAddress(t, "https://example.com", testNow)

	cases := []struct {
		name string
		tag  string
		call func(r *Repository) error
		want apperror.Kind
	}{
		{"update hit", "UPDATE 1", func(r *Repository) error { return r.Update(context.Background(), m) }, ""},
		{"update miss", "UPDATE 0", func(r *Repository) error { return r.Update(context.Background(), m) }, apperror.NotFound},
		{"delete hit", "DELETE 1", func(r *Repository) error { return r.Delete(context.Background(), m.ID) }, ""},
		{"delete miss", "DELETE 0", func(r *Repository) error { return r.Delete(context.Background(), m.ID) }, apperror.NotFound},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			d := &scriptedDB{tag: pgconn.NewCommandTag(tc.tag)}
			err := tc.call(newTestRepository(d))

			if tc.want == "" {
				assert.NoError(t, err)
			} else {
				assert.True(t, apperror.IsKind(err, tc.want), "got %v", err)
			}
			assert.Equal(t, utils.ToPgUUID(m.ID), d.args[0])
		})
	}
}

func TestRepository_Update_WritesMutableColumns(t *testing.T) {
	m := sampleAddress(t, "https://example.com", testNow.Add(5*time.Minute))
	m.UpdateStatus(StatusDown)

	d := &scriptedDB{tag: pgconn.NewCommandTag("UPDATE 1")}
	require.NoError(t, newTestRepository(d).Update(context.Background(), m))

	assert.Equal(t, updateAddressSQL, d.sql)
	assert.Equal(t, []any{
		utils.ToPgUUID(m.ID),
		"https://example.com",
		utils.ToPgInt4(5),
		"DOWN",
		utils.ToPgTimestamptz(m.NextCheckAt),
	}, d.args)
}

func TestRepository_Create_Duplicate(t *testing.T) {
	d := &scriptedDB{execErr: &pgconn.PgError{Code: "23505", ConstraintName: "monitored_addresses_owner_id_address_key"}}

	err := newTestRepository(d).Create(context.Background(), sampleAddress(t, "https://example.com", testNow))
	assert.True(t, apperror.IsKind(err, apperror.BusinessRule), "got %v", err)
}

func TestRepository_Create_OtherPostgresError(t *testing.T) {
	d := &scriptedDB{execErr: &pgconn.PgError{Code: "23503"}}

	err := newTestRepository(d).Create(context.Background(), sampleAddress(t, "https://example.com", testNow))
	assert.True(t, apperror.IsKind(err, apperror.DatabaseErr), "got %v", err)
}

func TestRepository_GetByID(t *testing.T) {
	m := sampleAddress(t, "https://example.com", testNow)

	d := &scriptedDB{row: rowOf(m)}
	got, err := newTestRepository(d).GetByID(context.Background(), m.ID)
	require.NoError(t, err)
	assert.Equal(t, m.ID, got.ID)
	assert.Equal(t, m.OwnerID, got.OwnerID)
	assert.Equal(t, StatusUp, got.LastStatus)
	assert.True(t, m.NextCheckAt.Equal(got.NextCheckAt))

	d = &scriptedDB{row: scriptedRow{err: pgx.ErrNoRows}}
	_, err = newTestRepository(d).GetByID(context.Background(), m.ID)
	assert.True(t, apperror.IsKind(err, apperror.NotFound), "got %v", err)
}

func TestRepository_GetDue(t *testing.T) {
	older := sampleAddress(t, "https://a.example.com", testNow.Add(-2*time.Minute))
	newer := sampleAddress(t, "https://b.example.com", testNow)

	rows := &scriptedRows{rows: []scriptedRow{rowOf(older), rowOf(newer)}}
	d := &scriptedDB{rows: rows}

	due, err := newTestRepository(d).GetDue(context.Background(), testNow)
	require.NoError(t, err)

	assert.Contains(t, d.sql, "WHERE next_check_at <= $1")
	assert.Contains(t, d.sql, "ORDER BY next_check_at")
	assert.Equal(t, []any{utils.ToPgTimestamptz(testNow)}, d.args)

	require.Len(t, due, 2)
	assert.Equal(t, older.ID, due[0].ID)
	assert.Equal(t, newer.ID, due[1].ID)
	assert.True(t, rows.closed)
}

func TestRepository_GetDue_Failures(t *testing.T) {
	cases := []struct {
		name string
		db   *scriptedDB
		want apperror.Kind
	}{
		{"query timeout", &scriptedDB{qErr: context.DeadlineExceeded}, apperror.RequestTimeout},
		{"scan error", &scriptedDB{rows: &scriptedRows{rows: []scriptedRow{{err: errors.New("cannot scan NULL")}}}}, apperror.Internal},
		{"iteration error", &scriptedDB{rows: &scriptedRows{err: errors.New("conn reset")}}, apperror.Internal},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			due, err := newTestRepository(tc.db).GetDue(context.Background(), testNow)
			assert.Nil(t, due)
			assert.True(t, apperror.IsKind(err, tc.want), "got %v", err)
			if tc.db.rows != nil {
				assert.True(t, tc.db.rows.closed)
			}
		})
	}
}

func TestRepository_GetByOwner_Empty(t *testing.T) {
	d := &scriptedDB{rows: &scriptedRows{}}

	got, err := newTestRepository(d).GetByOwner(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}
