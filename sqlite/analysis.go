package sqlite

import (
	"context"
	"encoding/hex"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/fwojciec/repscan"
	"github.com/google/uuid"
)

// Compile-time interface verification.
var _ repscan.AnalysisService = (*AnalysisService)(nil)

// AnalysisService implements repscan.AnalysisService using SQLite.
type AnalysisService struct {
	db *DB
}

// NewAnalysisService creates a new AnalysisService.
func NewAnalysisService(db *DB) *AnalysisService {
	return &AnalysisService{db: db}
}

// hashContent computes xxHash of content and returns hex string.
func hashContent(content string) string {
	h := xxhash.Sum64String(content)
	b := make([]byte, 8)
	b[0] = byte(h >> 56)
	b[1] = byte(h >> 48)
	b[2] = byte(h >> 40)
	b[3] = byte(h >> 32)
	b[4] = byte(h >> 24)
	b[5] = byte(h >> 16)
	b[6] = byte(h >> 8)
	b[7] = byte(h)
	return hex.EncodeToString(b)
}

// CreateAnalysis records a new analysis. The extracted text itself is not
// stored, only its hash.
func (s *AnalysisService) CreateAnalysis(ctx context.Context, a *repscan.Analysis) error {
	if err := a.Validate(); err != nil {
		return err
	}

	a.ID = uuid.New().String()
	a.CreatedAt = time.Now().UTC()
	if a.Text != "" {
		a.TextHash = hashContent(a.Text)
	}
	if a.Host == "" {
		a.Host = repscan.HostOf(a.URL)
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO analyses (id, url, host, strategy, text_hash, classification, path, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, a.ID, a.URL, a.Host, a.Strategy, a.TextHash, a.Classification, a.Path, formatTimestamp(a.CreatedAt))

	return err
}

// FindAnalyses retrieves analyses matching the filter, newest first.
func (s *AnalysisService) FindAnalyses(ctx context.Context, filter repscan.AnalysisFilter) ([]*repscan.Analysis, error) {
	var query strings.Builder
	var args []any

	query.WriteString("SELECT id, url, host, strategy, text_hash, classification, path, created_at FROM analyses WHERE 1=1")

	if filter.Host != nil {
		query.WriteString(" AND host = ?")
		args = append(args, *filter.Host)
	}

	query.WriteString(" ORDER BY created_at DESC, rowid DESC")
	appendPagination(&query, &args, filter.Limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var analyses []*repscan.Analysis
	for rows.Next() {
		var a repscan.Analysis
		var createdAt string

		if err := rows.Scan(&a.ID, &a.URL, &a.Host, &a.Strategy, &a.TextHash,
			&a.Classification, &a.Path, &createdAt); err != nil {
			return nil, err
		}

		a.CreatedAt, err = parseTimestamp(createdAt, "created_at")
		if err != nil {
			return nil, err
		}

		analyses = append(analyses, &a)
	}

	return analyses, rows.Err()
}
