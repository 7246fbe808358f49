package migrate

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

var sqlFileRe = regexp.MustCompile(`^(\d{14})_([a-z0-9_]+)\.sql$`)

// dialectOnlyTokens are constructs that run on one of postgres or sqlite but not both. The
// sql storage backend supports either driver, so migrations must stay portable.
var dialectOnlyTokens = []string{"JSONB", "TIMESTAMPTZ", "BIGSERIAL", " SERIAL", "GEN_RANDOM_UUID", "AUTOINCREMENT", "::"}

// ValidateDir checks migration filenames, version uniqueness, goose Up/Down markers, and that
// no statement relies on a single dialect.
func ValidateDir(dir string) error {
	if dir == "" {
		return fmt.Errorf("dir is required")
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("read dir %q: %w", dir, err)
	}

	seen := map[string]string{} // version -> filename

	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if !strings.HasSuffix(name, ".sql") {
			continue
		}

		m := sqlFileRe.FindStringSubmatch(name)
		if m == nil {
			return fmt.Errorf("invalid migration filename %q (expected YYYYMMDDHHMMSS_name.sql)", name)
		}

		version := m[1]
		if prev, ok := seen[version]; ok {
			return fmt.Errorf("duplicate migration version %s in %q and %q", version, prev, name)
		}
		seen[version] = name

		full := filepath.Join(dir, name)
		b, err := os.ReadFile(full)
		if err != nil {
			return fmt.Errorf("read file %q: %w", full, err)
		}

		txt := string(b)
		if !strings.Contains(txt, "-- +goose Up") {
			return fmt.Errorf("migration %q missing \"-- +goose Up\"", name)
		}
		if !strings.Contains(txt, "-- +goose Down") {
			return fmt.Errorf("migration %q missing \"-- +goose Down\"", name)
		}
		if token := firstDialectOnlyToken(txt); token != "" {
			return fmt.Errorf("migration %q uses %q, which is not portable across postgres and sqlite", name, strings.TrimSpace(token))
		}
	}

	if len(seen) == 0 {
		return fmt.Errorf("no migrations found in %q", dir)
	}
	return nil
}

func firstDialectOnlyToken(sql string) string {
	var statements strings.Builder
	for _, line := range strings.Split(sql, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), "--") {
			continue
		}
		statements.WriteString(strings.ToUpper(line))
		statements.WriteByte('\n')
	}
	body := statements.String()
	for _, token := range dialectOnlyTokens {
		if strings.Contains(body, token) {
			return token
		}
	}
	return ""
}
