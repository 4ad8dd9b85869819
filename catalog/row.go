package catalog

// Row is a single result row keyed by column name.
type Row map[string]any

// Column returns the raw value of a column and whether the column is present.
func (r Row) Column(name string) (any, bool) {
	v, ok := r[name]
	return v, ok
}

// RowStream is a lazy, finite sequence of rows. It must be closed by the consumer.
type RowStream interface {
	Next() bool
	Row() Row
	Err() error
	Close() error
}

// SliceRowStream is a RowStream over rows already in memory.
type SliceRowStream struct {
	rows []Row
	pos  int
}

// NewSliceRowStream creates a RowStream over the given rows.
func NewSliceRowStream(rows []Row) *SliceRowStream {
	return &SliceRowStream{rows: rows, pos: -1}
}

// Next advances to the next row.
func (s *SliceRowStream) Next() bool {
	if s.pos+1 >= len(s.rows) {
		s.pos = len(s.rows)
		return false
	}

	s.pos++

	return true
}

// Row returns the current row.
func (s *SliceRowStream) Row() Row {
	if s.pos < 0 || s.pos >= len(s.rows) {
		return nil
	}

	return s.rows[s.pos]
}

// Err always returns nil.
func (s *SliceRowStream) Err() error {
	return nil
}

// Close is a no-op.
func (s *SliceRowStream) Close() error {
	return nil
}
