package storage

import (
	"testing"

	"github.com/alecthomas/assert/v2"
	sqlite3 "modernc.org/sqlite/lib"
)

func TestIntegrityKind(t *testing.T) {
	tests := []struct {
		name string
		code int
		msg  string
		kind IntegrityKind
		ok   bool
	}{
		{"foreign key", sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY, "FOREIGN KEY constraint failed", IntegrityForeignKey, true},
		{"foreign key on delete", sqlite3.SQLITE_CONSTRAINT_TRIGGER, "constraint failed: FOREIGN KEY constraint failed (1811)", IntegrityForeignKey, true},
		{"unique", sqlite3.SQLITE_CONSTRAINT_UNIQUE, "UNIQUE constraint failed: accounts.number", IntegrityUnique, true},
		{"unique index by message", sqlite3.SQLITE_CONSTRAINT, "UNIQUE constraint failed: index 'account_name_parent_index'", IntegrityUnique, true},
		{"check", sqlite3.SQLITE_CONSTRAINT_CHECK, "CHECK constraint failed: name != ''", IntegrityCheck, true},
		{"not null", sqlite3.SQLITE_CONSTRAINT_NOTNULL, "NOT NULL constraint failed: accounts.name", IntegrityNotNull, true},
		{"other constraint", sqlite3.SQLITE_CONSTRAINT_TRIGGER, "constraint failed", IntegrityOther, true},
		{"not a constraint", sqlite3.SQLITE_BUSY, "database is locked", IntegrityOther, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kind, ok := integrityKind(tt.code, tt.msg)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.kind, kind)
		})
	}
}
