package storage

import (
	"testing"
)

func TestLockDirExcludesSecondHolder(t *testing.T) {
	dir := t.TempDir()

	lock, err := LockDir(dir)
	if err != nil {
		t.Fatalf("LockDir() returned error: %v", err)
	}

	if _, err := LockDir(dir); err == nil {
		t.Error("second LockDir() on the same directory succeeded")
	}

	if err := lock.Release(); err != nil {
		t.Fatalf("Release() returned error: %v", err)
	}

	relocked, err := LockDir(dir)
	if err != nil {
		t.Fatalf("LockDir() after release returned error: %v", err)
	}
	if err := relocked.Release(); err != nil {
		t.Fatal(err)
	}
}
