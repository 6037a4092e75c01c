package logging

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
	"testing"
	"time"
)

func TestGetWeekKey(t *testing.T) {
	tests := []struct {
		when     time.Time
		expected string
	}{
		{time.Date(2025, 10, 7, 12, 0, 0, 0, time.UTC), "2025-W41"},
		{time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), "2025-W01"},
		{time.Date(2027, 1, 1, 0, 0, 0, 0, time.UTC), "2026-W53"},
	}
	for _, tt := range tests {
		if got := getWeekKey(tt.when); got != tt.expected {
			t.Errorf("getWeekKey(%v) = %s, want %s", tt.when, got, tt.expected)
		}
	}
}

func TestRotatingLoggerWritesWeeklyFile(t *testing.T) {
	tempDir := t.TempDir()
	rl := NewRotatingLogger(tempDir, 1)
	if err := rl.open(); err != nil {
		t.Fatalf("open failed: %v", err)
	}

	if _, err := rl.Write([]byte("warfarin + aspirin\n")); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	if err := rl.Close(); err != nil {
		t.Fatalf("close failed: %v", err)
	}

	content, err := os.ReadFile(filepath.Join(tempDir, "engine-"+getWeekKey(time.Now())+".log"))
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if !strings.Contains(string(content), "warfarin + aspirin") {
		t.Errorf("unexpected content: %s", content)
	}
}

func TestRotatingLoggerDifferentWeeks(t *testing.T) {
	tempDir := t.TempDir()

	for _, week := range []string{"2025-W40", "2025-W41"} {
		rl := NewRotatingLogger(tempDir, 1)
		rl.mu.Lock()
		err := rl.doRotate(week)
		rl.mu.Unlock()
		if err != nil {
			t.Fatalf("rotate to %s failed: %v", week, err)
		}
		_ = rl.Close()

		if _, err := os.Stat(filepath.Join(tempDir, "engine-"+week+".log")); err != nil {
			t.Errorf("expected file for %s: %v", week, err)
		}
	}
}

func TestRotatingLoggerSizeLimit(t *testing.T) {
	tempDir := t.TempDir()
	rl := NewRotatingLoggerWithSizeLimit(tempDir, 1, 100)
	if err := rl.open(); err != nil {
		t.Fatalf("open failed: %v", err)
	}
	defer rl.Close()

	if _, err := rl.Write([]byte("small message")); err != nil {
		t.Fatalf("small write failed: %v", err)
	}
	large := strings.Repeat("interaction record that pushes the file over its limit ", 5)
	if _, err := rl.Write([]byte(large)); err != nil {
		t.Fatalf("large write failed: %v", err)
	}
	if _, err := rl.Write([]byte(large)); err != nil {
		t.Fatalf("second large write failed: %v", err)
	}

	entries, err := os.ReadDir(tempDir)
	if err != nil {
		t.Fatalf("read dir failed: %v", err)
	}

	numbered := regexp.MustCompile(`^engine-\d{4}-W\d{2}_\d{2}\.log$`)
	var names []string
	numberedCount := 0
	for _, entry := range entries {
		names = append(names, entry.Name())
		if numbered.MatchString(entry.Name()) {
			numberedCount++
		}
	}
	if numberedCount < 2 {
		t.Errorf("expected at least two numbered files, got %v", names)
	}
}

func TestRotatingLoggerReusesNumberedFileWithRoom(t *testing.T) {
	tempDir := t.TempDir()
	week := getWeekKey(time.Now())

	base := filepath.Join(tempDir, "engine-"+week+".log")
	if err := os.WriteFile(base, []byte(strings.Repeat("x", 200)), 0644); err != nil {
		t.Fatal(err)
	}
	numbered := filepath.Join(tempDir, "engine-"+week+"_01.log")
	if err := os.WriteFile(numbered, []byte("short"), 0644); err != nil {
		t.Fatal(err)
	}

	rl := NewRotatingLoggerWithSizeLimit(tempDir, 1, 100)
	if err := rl.open(); err != nil {
		t.Fatalf("open failed: %v", err)
	}
	defer rl.Close()

	if _, err := rl.Write([]byte("+more")); err != nil {
		t.Fatal(err)
	}

	content, _ := os.ReadFile(numbered)
	if string(content) != "short+more" {
		t.Errorf("expected write to land in the numbered file, got %q", content)
	}
}

func TestRotatingLoggerInvalidDirectory(t *testing.T) {
	rl := NewRotatingLogger("/proc/invalid/log/dir", 1)
	if err := rl.open(); err == nil {
		t.Error("expected error for an unwritable directory")
	}
	if _, err := rl.Write([]byte("x")); err == nil {
		t.Error("expected write error for an unwritable directory")
	}
	if err := rl.Close(); err != nil {
		t.Errorf("close of an unopened logger should be a no-op, got %v", err)
	}
}

func TestCleanupOldLogs(t *testing.T) {
	tempDir := t.TempDir()
	rl := NewRotatingLogger(tempDir, 1)

	oldFile := filepath.Join(tempDir, "engine-2025-W30.log")
	newFile := filepath.Join(tempDir, "engine-"+getWeekKey(time.Now())+".log")
	otherFile := filepath.Join(tempDir, "notes.txt")
	for _, f := range []string{oldFile, newFile, otherFile} {
		if err := os.WriteFile(f, []byte("content"), 0644); err != nil {
			t.Fatal(err)
		}
	}
	threeWeeksAgo := time.Now().AddDate(0, 0, -21)
	_ = os.Chtimes(oldFile, threeWeeksAgo, threeWeeksAgo)
	_ = os.Chtimes(otherFile, threeWeeksAgo, threeWeeksAgo)

	if err := rl.cleanupOldLogs(); err != nil {
		t.Fatalf("cleanup failed: %v", err)
	}

	if _, err := os.Stat(oldFile); !os.IsNotExist(err) {
		t.Errorf("old file %s should be removed", oldFile)
	}
	if _, err := os.Stat(newFile); err != nil {
		t.Errorf("current file should be kept: %v", err)
	}
	if _, err := os.Stat(otherFile); err != nil {
		t.Errorf("non-log file should be kept: %v", err)
	}
}

func TestRotatingLoggerConcurrentWrites(t *testing.T) {
	tempDir := t.TempDir()
	rl := NewRotatingLoggerWithSizeLimit(tempDir, 1, 0)
	if err := rl.open(); err != nil {
		t.Fatalf("open failed: %v", err)
	}

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				_, _ = rl.Write([]byte("line\n"))
			}
		}()
	}
	wg.Wait()
	_ = rl.Close()

	content, err := os.ReadFile(filepath.Join(tempDir, "engine-"+getWeekKey(time.Now())+".log"))
	if err != nil {
		t.Fatal(err)
	}
	if got := strings.Count(string(content), "line\n"); got != 500 {
		t.Errorf("expected 500 lines, got %d", got)
	}
}
