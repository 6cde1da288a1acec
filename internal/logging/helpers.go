package logging

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/graceinfra/zoscore/internal/models"
)

// RecordFileName returns a name like
// "20250423T213245_archive_3c43e9f4-9026-4d04-ba06-054e8903e80a.json"
func RecordFileName(record models.InvocationRecord, startTime time.Time) string {
	return fmt.Sprintf("%s_%s_%s.json", startTime.Format("20060102T150405"), record.Module, record.InvocationId)
}

// SaveInvocationRecord stores the record for a single module invocation in
// recordDir, creating it when needed. It returns the file path written.
func SaveInvocationRecord(recordDir string, record models.InvocationRecord, startTime time.Time) (string, error) {
	if err := os.MkdirAll(recordDir, os.ModePerm); err != nil {
		return "", fmt.Errorf("failed to create record directory '%s': %w", recordDir, err)
	}

	filePath := filepath.Join(recordDir, RecordFileName(record, startTime))

	f, err := os.Create(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to create record file %s: %w", filePath, err)
	}
	defer f.Close()

	encoder := json.NewEncoder(f)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(record); err != nil {
		return "", fmt.Errorf("failed to encode invocation record to %s: %w", filePath, err)
	}
	return filePath, nil
}
