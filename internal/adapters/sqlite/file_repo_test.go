package sqlite_test

import (
	"context"
	"strings"
	"testing"

	"github.com/example/uat/internal/adapters/sqlite"
	"github.com/example/uat/internal/ports/secondary"
)

func TestFileCreateGeneratesStoredName(t *testing.T) {
	database := setupTestDB(t)
	repo := sqlite.NewFileRepository(database)
	ctx := context.Background()
	envID := seedEnvironment(t, database, "staging")

	first, err := repo.Create(ctx, secondary.FileInput{
		OwnerType: strPtr("bug"),
		Filename:  strPtr("screenshot.png"),
		Path:      strPtr("/tmp/attachments"),
		MimeType:  strPtr("image/png"),
		SizeBytes: int64Ptr(2048),
	}, envID, "alice")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if first.StoredName == "" || first.StoredName == first.Filename {
		t.Errorf("expected a generated stored name, got %q", first.StoredName)
	}
	if !strings.HasSuffix(first.StoredName, ".png") {
		t.Errorf("expected the original extension kept, got %q", first.StoredName)
	}

	// Same user filename again: no collision, distinct stored names.
	second, err := repo.Create(ctx, secondary.FileInput{
		OwnerType: strPtr("bug"),
		Filename:  strPtr("screenshot.png"),
		Path:      strPtr("/tmp/attachments"),
	}, envID, "alice")
	if err != nil {
		t.Fatalf("second Create failed: %v", err)
	}
	if second.StoredName == first.StoredName {
		t.Error("expected distinct stored names for the same filename")
	}
}

func TestFileGetByFilenameReturnsNewest(t *testing.T) {
	database := setupTestDB(t)
	repo := sqlite.NewFileRepository(database)
	ctx := context.Background()
	envID := seedEnvironment(t, database, "staging")

	in := secondary.FileInput{
		OwnerType: strPtr("bug"),
		Filename:  strPtr("log.txt"),
		Path:      strPtr("/tmp/attachments"),
	}
	if _, err := repo.Create(ctx, in, envID, "alice"); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	second, err := repo.Create(ctx, in, envID, "alice")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	found, err := repo.GetByFilename(ctx, "log.txt", envID)
	if err != nil {
		t.Fatalf("GetByFilename failed: %v", err)
	}
	if found == nil || found.ID != second.ID {
		t.Errorf("expected the newest record, got %+v", found)
	}
}

func TestFileMimeTypeDefaults(t *testing.T) {
	database := setupTestDB(t)
	repo := sqlite.NewFileRepository(database)
	envID := seedEnvironment(t, database, "staging")

	f, err := repo.Create(context.Background(), secondary.FileInput{
		OwnerType: strPtr("step_run"),
		Filename:  strPtr("evidence.bin"),
		Path:      strPtr("/tmp/attachments"),
	}, envID, "alice")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if f.MimeType != "application/octet-stream" {
		t.Errorf("expected the default mime type, got %q", f.MimeType)
	}
}
