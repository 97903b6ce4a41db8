package keyring

import (
	"errors"
	"testing"

	gokeyring "github.com/zalando/go-keyring"

	"github.com/julianstephens/weekgrid/internal/constants"
)

func TestSetAndGetConnectionString(t *testing.T) {
	gokeyring.MockInit()

	testConnStr := "postgres://testuser@localhost:5432/testdb?sslmode=disable"

	if err := SetConnectionString(testConnStr); err != nil {
		t.Fatalf("SetConnectionString() failed: %v", err)
	}

	retrieved, err := GetConnectionString()
	if err != nil {
		t.Fatalf("GetConnectionString() failed: %v", err)
	}
	if retrieved != testConnStr {
		t.Errorf("GetConnectionString() = %q, want %q", retrieved, testConnStr)
	}
}

func TestSetConnectionStringEmpty(t *testing.T) {
	gokeyring.MockInit()

	if err := SetConnectionString(""); err == nil {
		t.Error("SetConnectionString(\"\") should return an error")
	}
}

func TestGetConnectionStringNotFound(t *testing.T) {
	gokeyring.MockInit()
	_ = DeleteConnectionString()

	_, err := GetConnectionString()
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("GetConnectionString() error = %v, want %v", err, ErrNotFound)
	}
}

func TestDeleteConnectionString(t *testing.T) {
	gokeyring.MockInit()

	if err := SetConnectionString("postgres://testuser@localhost:5432/testdb"); err != nil {
		t.Fatalf("SetConnectionString() failed: %v", err)
	}
	if err := DeleteConnectionString(); err != nil {
		t.Fatalf("DeleteConnectionString() failed: %v", err)
	}
	if _, err := GetConnectionString(); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
	if err := DeleteConnectionString(); !errors.Is(err, ErrNotFound) {
		t.Errorf("second delete: expected ErrNotFound, got %v", err)
	}
}

func TestIsAvailableWithMock(t *testing.T) {
	gokeyring.MockInit()

	if !IsAvailable() {
		t.Error("mock keyring should report available")
	}
}

func TestResolveConnectionString(t *testing.T) {
	gokeyring.MockInit()
	stored := "postgres://stored@localhost/weekgrid"
	if err := SetConnectionString(stored); err != nil {
		t.Fatalf("SetConnectionString() failed: %v", err)
	}

	t.Run("configured path", func(t *testing.T) {
		t.Setenv(constants.EnvDBConnection, "")
		got, src, err := ResolveConnectionString("/tmp/weekgrid.db")
		if err != nil || got != "/tmp/weekgrid.db" || src != SourceConfig {
			t.Errorf("got (%q, %q, %v)", got, src, err)
		}
	})

	t.Run("keyring", func(t *testing.T) {
		t.Setenv(constants.EnvDBConnection, "")
		got, src, err := ResolveConnectionString("keyring")
		if err != nil || got != stored || src != SourceKeyring {
			t.Errorf("got (%q, %q, %v)", got, src, err)
		}
	})

	t.Run("env wins", func(t *testing.T) {
		t.Setenv(constants.EnvDBConnection, "postgres://env@localhost/weekgrid")
		got, src, err := ResolveConnectionString("keyring")
		if err != nil || got != "postgres://env@localhost/weekgrid" || src != SourceEnv {
			t.Errorf("got (%q, %q, %v)", got, src, err)
		}
	})
}
