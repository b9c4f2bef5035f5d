package gormrepo

import (
	"reflect"
	"testing"
	"testing/fstest"

	"questforge/db"
)

func TestMigrationFiles_SortsSQLOnly(t *testing.T) {
	fsys := fstest.MapFS{
		"0002_quests.sql": {Data: []byte("select 2;")},
		"0001_init.sql":   {Data: []byte("select 1;")},
		"README.md":       {Data: []byte("docs")},
		"archive/old.sql": {Data: []byte("select 0;")},
	}
	got, err := migrationFiles(fsys)
	if err != nil {
		t.Fatalf("migration files: %v", err)
	}
	want := []string{"0001_init.sql", "0002_quests.sql"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v want %v", got, want)
	}
}

func TestEmbeddedMigrationsPresent(t *testing.T) {
	got, err := migrationFiles(db.Migrations())
	if err != nil {
		t.Fatalf("embedded migrations: %v", err)
	}
	if len(got) == 0 || got[0] != "0001_init.sql" {
		t.Fatalf("expected 0001_init.sql first, got %v", got)
	}
}
