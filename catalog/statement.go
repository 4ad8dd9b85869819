package catalog

import "fmt"

// StatementName is the logical key of a named, parameterized statement.
type StatementName string

// The statement catalog.
const (
	CreateBookTable  StatementName = "create-book-table"
	InsertBook       StatementName = "insert-book"
	SelectAllBook    StatementName = "select-all-book"
	SelectBookByISBN StatementName = "select-book-by-isbn"
	UpdateBookByISBN StatementName = "update-book-by-isbn"
	DeleteBookByISBN StatementName = "delete-book-by-isbn"
)

// StatementKind tells how a statement is executed and what it yields.
type StatementKind int

const (
	// KindDDL statements change the schema and yield an affected-row count (usually 0).
	KindDDL StatementKind = iota
	// KindDML statements yield an affected-row count.
	KindDML
	// KindQuery statements yield a lazy row sequence.
	KindQuery
	// KindGet statements yield at most one row.
	KindGet
)

func (k StatementKind) String() string {
	switch k {
	case KindDDL:
		return "ddl"
	case KindDML:
		return "dml"
	case KindQuery:
		return "query"
	case KindGet:
		return "get"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// StatementKinds maps every statement of the catalog to its kind.
var StatementKinds = map[StatementName]StatementKind{
	CreateBookTable:  KindDDL,
	InsertBook:       KindDML,
	SelectAllBook:    KindQuery,
	SelectBookByISBN: KindGet,
	UpdateBookByISBN: KindDML,
	DeleteBookByISBN: KindDML,
}

// KindOf returns the kind of the named statement or ErrUnknownStatement.
func KindOf(name StatementName) (StatementKind, error) {
	kind, ok := StatementKinds[name]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownStatement, name)
	}

	return kind, nil
}

// CheckKind verifies that the named statement exists and is of the expected kind.
// DDL statements may be executed wherever DML statements are expected.
func CheckKind(name StatementName, expected StatementKind) error {
	kind, err := KindOf(name)
	if err != nil {
		return err
	}

	if kind == expected || (expected == KindDML && kind == KindDDL) {
		return nil
	}

	return fmt.Errorf("%w: %q is %s, not %s", ErrStatementKindMismatch, name, kind, expected)
}
