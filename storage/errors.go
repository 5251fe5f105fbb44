package storage

import (
	"errors"
	"fmt"
	"strings"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/robinvdvleuten/bookkeeper/model"
)

// StorageError is returned when the database can't be opened, has the wrong
// schema version, or a statement fails outside the integrity rules.
type StorageError struct {
	Op     string
	Reason string
	Err    error
}

func (e *StorageError) Error() string {
	msg := e.Reason
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	} else if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	if e.Op == "" {
		return msg
	}
	return fmt.Sprintf("%s: %s", e.Op, msg)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

func (e *StorageError) GetOp() string {
	return e.Op
}

// IntegrityKind names the database constraint a write broke
type IntegrityKind int

const (
	IntegrityOther IntegrityKind = iota
	IntegrityForeignKey
	IntegrityUnique
	IntegrityCheck
	IntegrityNotNull
	IntegrityPrimaryKey
)

func (k IntegrityKind) String() string {
	switch k {
	case IntegrityForeignKey:
		return "foreign key constraint failed"
	case IntegrityUnique:
		return "unique constraint failed"
	case IntegrityCheck:
		return "check constraint failed"
	case IntegrityNotNull:
		return "not null constraint failed"
	case IntegrityPrimaryKey:
		return "primary key constraint failed"
	default:
		return "constraint failed"
	}
}

// IntegrityError is returned when a write violates a foreign key,
// uniqueness or check constraint. The whole save it belonged to is rolled
// back.
type IntegrityError struct {
	Op   string
	Kind IntegrityKind
	Err  error
}

func (e *IntegrityError) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
}

func (e *IntegrityError) Unwrap() error {
	return e.Err
}

func (e *IntegrityError) GetKind() IntegrityKind {
	return e.Kind
}

// NotFoundError is returned when a lookup matches nothing
type NotFoundError struct {
	Entity string
	ID     int64
	Key    string
}

func (e *NotFoundError) Error() string {
	if e.Key != "" {
		return fmt.Sprintf("no %s %q", e.Entity, e.Key)
	}
	return fmt.Sprintf("no %s with id %d", e.Entity, e.ID)
}

// IsNotFound reports whether err is or wraps a NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

func errNoUpdate(op, entity string, id int64) error {
	return &StorageError{Op: op, Reason: fmt.Sprintf("no %s with id %d to update", entity, id)}
}

// wrap classifies a driver error. Constraint violations become
// IntegrityError, everything else StorageError. Errors that are already
// classified, and account validation errors, are returned unchanged.
func wrap(op string, err error) error {
	if err == nil {
		return nil
	}

	var integrity *IntegrityError
	var se *StorageError
	var notFound *NotFoundError
	var invalid *model.InvalidAccountError
	if errors.As(err, &integrity) || errors.As(err, &se) || errors.As(err, &notFound) || errors.As(err, &invalid) {
		return err
	}

	var sqliteErr *sqlite.Error
	if errors.As(err, &sqliteErr) {
		if kind, ok := integrityKind(sqliteErr.Code(), sqliteErr.Error()); ok {
			return &IntegrityError{Op: op, Kind: kind, Err: err}
		}
	}
	return &StorageError{Op: op, Err: err}
}

// integrityKind maps an extended result code to the broken constraint.
// Foreign key violations found while deleting report the generic trigger
// code (SQLITE_CONSTRAINT_TRIGGER), so those fall back to the message.
func integrityKind(code int, msg string) (IntegrityKind, bool) {
	switch code {
	case sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY:
		return IntegrityForeignKey, true
	case sqlite3.SQLITE_CONSTRAINT_UNIQUE:
		return IntegrityUnique, true
	case sqlite3.SQLITE_CONSTRAINT_CHECK:
		return IntegrityCheck, true
	case sqlite3.SQLITE_CONSTRAINT_NOTNULL:
		return IntegrityNotNull, true
	case sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
		return IntegrityPrimaryKey, true
	}
	if code&0xff != sqlite3.SQLITE_CONSTRAINT {
		return IntegrityOther, false
	}

	switch upper := strings.ToUpper(msg); {
	case strings.Contains(upper, "FOREIGN KEY"):
		return IntegrityForeignKey, true
	case strings.Contains(upper, "UNIQUE"):
		return IntegrityUnique, true
	case strings.Contains(upper, "NOT NULL"):
		return IntegrityNotNull, true
	case strings.Contains(upper, "CHECK"):
		return IntegrityCheck, true
	}
	return IntegrityOther, true
}
