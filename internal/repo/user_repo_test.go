package repo

import (
	"context"
	"errors"
	"testing"

	"github.com/gesturepath/go-gesture-backend/internal/domain"
)

func TestCreateUser_LowercasesEmail(t *testing.T) {
	db := newRepoDB(t, &domain.User{})
	ctx := context.Background()

	u, err := CreateUser(ctx, db, "Ann", " Ann@X.Com ", "digest")
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	if u.Email != "ann@x.com" {
		t.Fatalf("email = %q, want lowercased trimmed", u.Email)
	}
}

func TestCreateUser_DuplicateEmail(t *testing.T) {
	db := newRepoDB(t, &domain.User{})
	ctx := context.Background()

	if _, err := CreateUser(ctx, db, "Ann", "ann@x.com", "d1"); err != nil {
		t.Fatalf("first CreateUser: %v", err)
	}
	_, err := CreateUser(ctx, db, "Another Ann", "ANN@x.com", "d2")
	if !errors.Is(err, ErrDuplicateEmail) {
		t.Fatalf("err = %v, want ErrDuplicateEmail", err)
	}
}

func TestGetUserByEmail_CaseInsensitive(t *testing.T) {
	db := newRepoDB(t, &domain.User{})
	ctx := context.Background()

	created, _ := CreateUser(ctx, db, "Ann", "ann@x.com", "digest")

	got, err := GetUserByEmail(ctx, db, "ANN@X.COM")
	if err != nil {
		t.Fatalf("GetUserByEmail: %v", err)
	}
	if got.ID != created.ID {
		t.Fatalf("wrong user: %+v", got)
	}

	if _, err := GetUserByEmail(ctx, db, "nobody@x.com"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("missing email err = %v, want ErrNotFound", err)
	}
}

func TestGetUserByID(t *testing.T) {
	db := newRepoDB(t, &domain.User{})
	ctx := context.Background()

	created, _ := CreateUser(ctx, db, "Ann", "ann@x.com", "digest")

	got, err := GetUserByID(ctx, db, created.ID)
	if err != nil {
		t.Fatalf("GetUserByID: %v", err)
	}
	if got.Name != "Ann" {
		t.Fatalf("name = %q", got.Name)
	}

	if _, err := GetUserByID(ctx, db, "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("missing id err = %v, want ErrNotFound", err)
	}
}
