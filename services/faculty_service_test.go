package services

import (
	"context"
	"database/sql/driver"
	"errors"
	"regexp"
	"testing"

	"gorm.io/gorm"
)

func TestFacultyServiceListAll(t *testing.T) {
	steps := []*queryStep{
		{
			kind:    kindQuery,
			pattern: regexp.MustCompile("SELECT \\* FROM `faculty`"),
			columns: []string{"id", "name", "department", "position", "name_variants"},
			rows: [][]driver.Value{
				{int64(1), "Juan Dela Cruz", "Computer Science", "Professor", []byte(`["Juan Dela Cruz","J. Cruz"]`)},
				{int64(2), "Maria Santos", "Mathematics", "", nil},
			},
		},
	}

	gormDB, state, cleanup := newScriptedGormDB(t, steps)
	defer cleanup()

	service := NewFacultyService(gormDB)
	records, err := service.ListAll(context.Background())
	if err != nil {
		t.Fatalf("ListAll: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2", len(records))
	}

	if records[0].Name != "Juan Dela Cruz" || records[0].Department != "Computer Science" {
		t.Errorf("first record = %+v", records[0])
	}
	if len(records[0].NameVariants) != 2 {
		t.Errorf("stored variants not used: %v", records[0].NameVariants)
	}
	// missing variants column regenerates from the name
	if len(records[1].NameVariants) == 0 {
		t.Errorf("variants not regenerated for %+v", records[1])
	}

	if err := state.verifyComplete(); err != nil {
		t.Fatal(err)
	}
}

func TestFacultyServiceCount(t *testing.T) {
	steps := []*queryStep{
		{
			kind:    kindQuery,
			pattern: regexp.MustCompile("SELECT count\\(\\*\\) FROM `faculty`"),
			columns: []string{"count(*)"},
			rows:    [][]driver.Value{{int64(3)}},
		},
	}

	gormDB, state, cleanup := newScriptedGormDB(t, steps)
	defer cleanup()

	count, err := NewFacultyService(gormDB).Count(context.Background())
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if count != 3 {
		t.Errorf("count = %d, want 3", count)
	}
	if err := state.verifyComplete(); err != nil {
		t.Fatal(err)
	}
}

func TestFacultyServiceDelete(t *testing.T) {
	steps := []*queryStep{
		{
			kind:    kindExec,
			pattern: regexp.MustCompile("DELETE FROM `faculty`"),
			result:  scriptedResult{rowsAffected: 1},
		},
	}
	gormDB, state, cleanup := newScriptedGormDB(t, steps)
	defer cleanup()

	if err := NewFacultyService(gormDB).Delete(context.Background(), 7); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := state.verifyComplete(); err != nil {
		t.Fatal(err)
	}
}

func TestFacultyServiceDeleteMissing(t *testing.T) {
	steps := []*queryStep{
		{
			kind:    kindExec,
			pattern: regexp.MustCompile("DELETE FROM `faculty`"),
			result:  scriptedResult{rowsAffected: 0},
		},
	}
	gormDB, state, cleanup := newScriptedGormDB(t, steps)
	defer cleanup()

	err := NewFacultyService(gormDB).Delete(context.Background(), 99)
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("err = %v, want gorm.ErrRecordNotFound", err)
	}
	if err := state.verifyComplete(); err != nil {
		t.Fatal(err)
	}
}

func TestStaticRoster(t *testing.T) {
	roster := StaticRoster(rosterOf("Juan Dela Cruz"))
	records, err := roster.ListAll(context.Background())
	if err != nil || len(records) != 1 {
		t.Fatalf("ListAll = (%v, %v)", records, err)
	}
}
