package repository

import (
	"errors"
	"testing"
)

func TestNewRepositories(t *testing.T) {
	if r := NewSurveyorRepository(nil); r == nil || r.db != nil {
		t.Fatal("expected SurveyorRepository with nil db")
	}
	if r := NewTaskRepository(nil); r == nil || r.db != nil {
		t.Fatal("expected TaskRepository with nil db")
	}
	if r := NewRecordRepository(nil); r == nil || r.db != nil {
		t.Fatal("expected RecordRepository with nil db")
	}
}

func TestSentinelErrors(t *testing.T) {
	if ErrSurveyorNotFound.Error() != "surveyor not found" {
		t.Fatalf("unexpected error message: %s", ErrSurveyorNotFound)
	}
	if ErrDuplicateUsername.Error() != "username already exists" {
		t.Fatalf("unexpected error message: %s", ErrDuplicateUsername)
	}
	if ErrTaskNotFound.Error() != "task not found" {
		t.Fatalf("unexpected error message: %s", ErrTaskNotFound)
	}
}

func TestIsDuplicateEntryError(t *testing.T) {
	if isDuplicateEntryError(nil) {
		t.Fatal("nil error should not be a duplicate entry error")
	}
	if isDuplicateEntryError(ErrSurveyorNotFound) {
		t.Fatal("ErrSurveyorNotFound should not be a duplicate entry error")
	}
	if !isDuplicateEntryError(errors.New("Error 1062 (23000): Duplicate entry 'liwei' for key 'username'")) {
		t.Fatal("MySQL 1062 error should be a duplicate entry error")
	}
}

func TestEncodePhotos(t *testing.T) {
	empty, err := encodePhotos(nil)
	if err != nil || empty.Valid {
		t.Fatalf("encodePhotos(nil) = %+v, %v; want NULL", empty, err)
	}

	got, err := encodePhotos([]string{"/static/photos/a.jpg", "/static/photos/b.jpg"})
	if err != nil {
		t.Fatalf("encodePhotos() unexpected error: %v", err)
	}
	if !got.Valid || got.String != `["/static/photos/a.jpg","/static/photos/b.jpg"]` {
		t.Errorf("encodePhotos() = %+v", got)
	}
}

func TestNullString(t *testing.T) {
	if nullString("").Valid {
		t.Error("empty string should be NULL")
	}
	if ns := nullString("x"); !ns.Valid || ns.String != "x" {
		t.Errorf("nullString(x) = %+v", ns)
	}
}
