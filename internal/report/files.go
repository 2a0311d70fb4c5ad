package report

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/keysift/keysift/internal/scanner"
)

const overQuotaFile = "over_quota.txt"

// WriteFiles writes one result file per tier plus the over-quota file into
// the output directory, backing up whatever a prior run left there first.
func (r *Reporter) WriteFiles(sum scanner.Summary) error {
	if err := os.MkdirAll(r.dir, 0o755); err != nil {
		return fmt.Errorf("creating output dir: %w", err)
	}

	names := make([]string, 0, len(sum.Buckets)+1)
	for _, b := range sum.Buckets {
		names = append(names, string(b.Tier)+".txt")
	}
	names = append(names, overQuotaFile)

	if err := r.backup(names); err != nil {
		return err
	}

	for _, b := range sum.Buckets {
		lines := make([]string, 0, len(b.Results))
		for _, res := range b.Results {
			lines = append(lines, fileLine(res))
		}
		if err := writeLines(filepath.Join(r.dir, string(b.Tier)+".txt"), lines); err != nil {
			return err
		}
	}

	lines := make([]string, 0, len(sum.OverQuota))
	for _, res := range sum.OverQuota {
		lines = append(lines, fileLine(res))
	}
	return writeLines(filepath.Join(r.dir, overQuotaFile), lines)
}

// backup copies any existing result files aside into a timestamped
// subdirectory before they get overwritten. Nothing to copy, nothing made.
func (r *Reporter) backup(names []string) error {
	var existing []string
	for _, name := range names {
		if _, err := os.Stat(filepath.Join(r.dir, name)); err == nil {
			existing = append(existing, name)
		}
	}
	if len(existing) == 0 {
		return nil
	}

	bakDir := filepath.Join(r.dir, "backup-"+time.Now().Format("20060102-150405"))
	if err := os.MkdirAll(bakDir, 0o755); err != nil {
		return fmt.Errorf("creating backup dir: %w", err)
	}
	for _, name := range existing {
		if err := copyFile(filepath.Join(r.dir, name), filepath.Join(bakDir, name)); err != nil {
			return fmt.Errorf("backing up %s: %w", name, err)
		}
	}
	return nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

func writeLines(path string, lines []string) error {
	var data []byte
	for _, l := range lines {
		data = append(data, l...)
		data = append(data, '\n')
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
