package migration

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"slices"
	"strconv"
	"strings"
)

type upMigration struct {
	name    string
	version uint
}

// upMigrations lists the embedded up migrations ordered by version.
func upMigrations() ([]upMigration, error) {
	entries, err := fs.ReadDir(embeddedMigrations, migrationsDir)
	if err != nil {
		return nil, fmt.Errorf("list migrations: %w", err)
	}

	var out []upMigration
	for _, entry := range entries {
		name := strings.TrimSpace(entry.Name())
		if entry.IsDir() || !strings.HasSuffix(name, ".up.sql") {
			continue
		}
		version, ok := parseMigrationVersion(name)
		if !ok {
			return nil, fmt.Errorf("invalid migration filename: %s", name)
		}
		out = append(out, upMigration{name: name, version: version})
	}
	if len(out) == 0 {
		return nil, errors.New("no embedded migrations found")
	}

	slices.SortFunc(out, func(a, b upMigration) int {
		return int(a.version) - int(b.version)
	})
	return out, nil
}

// LatestMigrationVersion returns the highest embedded migration version.
func LatestMigrationVersion() (uint, error) {
	ms, err := upMigrations()
	if err != nil {
		return 0, err
	}
	return ms[len(ms)-1].version, nil
}

// MigrationsChecksum is a sha256 over the names and contents of the embedded
// up migrations, in version order.
func MigrationsChecksum() (string, error) {
	ms, err := upMigrations()
	if err != nil {
		return "", err
	}

	hasher := sha256.New()
	for _, m := range ms {
		content, err := embeddedMigrations.ReadFile(path.Join(migrationsDir, m.name))
		if err != nil {
			return "", fmt.Errorf("read migration %s: %w", m.name, err)
		}
		_, _ = hasher.Write([]byte(m.name))
		_, _ = hasher.Write([]byte{0})
		_, _ = hasher.Write(content)
		_, _ = hasher.Write([]byte{0})
	}
	return hex.EncodeToString(hasher.Sum(nil)), nil
}

func parseMigrationVersion(name string) (uint, bool) {
	prefix, _, found := strings.Cut(name, "_")
	if !found || prefix == "" {
		return 0, false
	}
	parsed, err := strconv.ParseUint(prefix, 10, 64)
	if err != nil {
		return 0, false
	}
	return uint(parsed), true
}
