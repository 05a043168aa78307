package repository

import (
	"testing"
)

func TestDayBucketExprByDialectSQLite(t *testing.T) {
	got := dayBucketExprByDialect("sqlite", "created_at")
	want := "strftime('%Y-%m-%d', created_at)"
	if got != want {
		t.Fatalf("sqlite day bucket mismatch, want %s got %s", want, got)
	}
}

func TestDayBucketExprByDialectPostgres(t *testing.T) {
	got := dayBucketExprByDialect("postgres", "created_at")
	want := "to_char(created_at, 'YYYY-MM-DD')"
	if got != want {
		t.Fatalf("postgres day bucket mismatch, want %s got %s", want, got)
	}
	if alias := dayBucketExprByDialect("postgresql", "created_at"); alias != want {
		t.Fatalf("postgresql alias mismatch, want %s got %s", want, alias)
	}
}

func TestDayBucketExprByDialectUnknownFallsBackToSQLite(t *testing.T) {
	got := dayBucketExprByDialect("mysql", "created_at")
	want := "strftime('%Y-%m-%d', created_at)"
	if got != want {
		t.Fatalf("unknown dialect should fall back to sqlite, got %s", got)
	}
}

func TestDBDialectNameNilDB(t *testing.T) {
	if got := dbDialectName(nil); got != "sqlite" {
		t.Fatalf("nil db should report sqlite, got %s", got)
	}
}

func TestLikeOperatorNilDB(t *testing.T) {
	if got := likeOperator(nil); got != "LIKE" {
		t.Fatalf("nil db should use LIKE, got %s", got)
	}
}
