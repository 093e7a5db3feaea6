package sqlite

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/fwojciec/offercrawl"
	"github.com/google/uuid"
)

// Compile-time interface verification.
var _ offercrawl.KeywordService = (*KeywordService)(nil)

// KeywordService implements offercrawl.KeywordService using SQLite.
// Keywords are deduplicated globally by their normalized text and linked
// to companies per page section.
type KeywordService struct {
	db *DB
}

// NewKeywordService creates a new KeywordService.
func NewKeywordService(db *DB) *KeywordService {
	return &KeywordService{db: db}
}

// StoreKeyword stores one keyword and reports whether it is new for the
// record's company and section.
func (s *KeywordService) StoreKeyword(ctx context.Context, rec *offercrawl.KeywordRecord) (bool, error) {
	if err := rec.Validate(); err != nil {
		return false, err
	}

	tx, err := s.db.BeginTx(ctx)
	if err != nil {
		return false, err
	}
	defer tx.Rollback()

	if err := requireCompany(ctx, tx, rec.CompanyID); err != nil {
		return false, err
	}

	now := formatTime(time.Now())
	isNew, err := storeKeyword(ctx, tx, rec, now)
	if err != nil {
		return false, err
	}
	if err := refreshKeywordStats(ctx, tx, rec.CompanyID, now); err != nil {
		return false, err
	}
	return isNew, tx.Commit()
}

// StoreKeywords stores a page's keywords in one transaction. Keywords that
// normalize to nothing are skipped.
func (s *KeywordService) StoreKeywords(ctx context.Context, companyID string, section offercrawl.SectionCode, kws offercrawl.Keywords) (*offercrawl.StoreResult, error) {
	if !section.Valid() {
		return nil, offercrawl.Errorf(offercrawl.EINVALID, "invalid section %q", section)
	}
	res := &offercrawl.StoreResult{}
	if len(kws) == 0 {
		return res, nil
	}

	tx, err := s.db.BeginTx(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	if err := requireCompany(ctx, tx, companyID); err != nil {
		return nil, err
	}

	now := formatTime(time.Now())
	for _, kw := range kws.Sorted() {
		rec := &offercrawl.KeywordRecord{
			CompanyID:  companyID,
			Section:    section,
			Keyword:    kw.Text,
			Confidence: kw.Confidence,
			Method:     kw.Method,
			SourceURL:  kw.URL,
		}
		if rec.Validate() != nil {
			continue
		}
		isNew, err := storeKeyword(ctx, tx, rec, now)
		if err != nil {
			return nil, err
		}
		res.Total++
		if isNew {
			res.New++
		}
	}

	if err := refreshKeywordStats(ctx, tx, companyID, now); err != nil {
		return nil, err
	}
	return res, tx.Commit()
}

// storeKeyword upserts the master keyword and the company link. An
// existing link has its counters bumped and keeps the higher confidence.
func storeKeyword(ctx context.Context, tx *sql.Tx, rec *offercrawl.KeywordRecord, now string) (bool, error) {
	normalized := offercrawl.NormalizeKeyword(rec.Keyword)

	var keywordID string
	err := tx.QueryRowContext(ctx,
		"SELECT id FROM keywords_master WHERE normalized_keyword = ?", normalized).Scan(&keywordID)
	switch {
	case err == sql.ErrNoRows:
		keywordID = uuid.New().String()
		_, err = tx.ExecContext(ctx, `
			INSERT INTO keywords_master (id, keyword, normalized_keyword, first_seen, last_seen)
			VALUES (?, ?, ?, ?, ?)
		`, keywordID, strings.TrimSpace(rec.Keyword), normalized, now, now)
		if err != nil {
			return false, err
		}
	case err != nil:
		return false, err
	}

	var linkID string
	var confidence float64
	err = tx.QueryRowContext(ctx, `
		SELECT dk.id, dk.confidence
		FROM domain_keywords dk
		JOIN section_types st ON st.id = dk.section_type_id
		WHERE dk.company_id = ? AND dk.keyword_id = ? AND st.code = ?
	`, rec.CompanyID, keywordID, rec.Section).Scan(&linkID, &confidence)
	if err == sql.ErrNoRows {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO domain_keywords
				(id, company_id, keyword_id, section_type_id, confidence, method, source_url, first_seen, last_seen)
			SELECT ?, ?, ?, id, ?, ?, ?, ?, ?
			FROM section_types WHERE code = ?
		`, uuid.New().String(), rec.CompanyID, keywordID, rec.Confidence, rec.Method, rec.SourceURL,
			now, now, rec.Section)
		return err == nil, err
	}
	if err != nil {
		return false, err
	}

	if rec.Confidence > confidence {
		_, err = tx.ExecContext(ctx, `
			UPDATE domain_keywords
			SET page_count = page_count + 1, total_frequency = total_frequency + 1, last_seen = ?,
				confidence = ?, method = ?, source_url = ?
			WHERE id = ?
		`, now, rec.Confidence, rec.Method, rec.SourceURL, linkID)
	} else {
		_, err = tx.ExecContext(ctx, `
			UPDATE domain_keywords
			SET page_count = page_count + 1, total_frequency = total_frequency + 1, last_seen = ?
			WHERE id = ?
		`, now, linkID)
	}
	return false, err
}

// refreshKeywordStats recomputes the cross-company counters of every
// keyword linked to companyID.
func refreshKeywordStats(ctx context.Context, tx *sql.Tx, companyID, now string) error {
	_, err := tx.ExecContext(ctx, `
		UPDATE keywords_master
		SET unique_domains_count = (
				SELECT COUNT(DISTINCT company_id) FROM domain_keywords
				WHERE keyword_id = keywords_master.id
			),
			total_occurrences = (
				SELECT COALESCE(SUM(total_frequency), 0) FROM domain_keywords
				WHERE keyword_id = keywords_master.id
			),
			last_seen = ?
		WHERE id IN (SELECT keyword_id FROM domain_keywords WHERE company_id = ?)
	`, now, companyID)
	return err
}

// FindTopKeywords returns keywords ordered by the number of companies they
// were found on, then by total occurrences.
func (s *KeywordService) FindTopKeywords(ctx context.Context, limit int) ([]*offercrawl.KeywordStat, error) {
	var query strings.Builder
	var args []any

	query.WriteString(`
		SELECT keyword, normalized_keyword, unique_domains_count, total_occurrences, last_seen
		FROM keywords_master
		ORDER BY unique_domains_count DESC, total_occurrences DESC, normalized_keyword ASC`)
	appendPagination(&query, &args, limit, 0)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stats []*offercrawl.KeywordStat
	for rows.Next() {
		var st offercrawl.KeywordStat
		var lastSeen string
		if err := rows.Scan(&st.Keyword, &st.NormalizedKeyword, &st.UniqueDomains, &st.TotalOccurrences, &lastSeen); err != nil {
			return nil, err
		}
		if st.LastSeen, err = parseRFC3339(lastSeen, "last_seen"); err != nil {
			return nil, err
		}
		stats = append(stats, &st)
	}

	return stats, rows.Err()
}

// FindCompanyKeywords returns the keywords stored for a company ordered by
// section, then by descending confidence.
func (s *KeywordService) FindCompanyKeywords(ctx context.Context, companyID string) ([]*offercrawl.KeywordRecord, error) {
	if err := requireCompany(ctx, s.db, companyID); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT dk.company_id, st.code, km.keyword, dk.confidence, dk.method, dk.source_url
		FROM domain_keywords dk
		JOIN keywords_master km ON km.id = dk.keyword_id
		JOIN section_types st ON st.id = dk.section_type_id
		WHERE dk.company_id = ?
		ORDER BY st.id ASC, dk.confidence DESC, km.normalized_keyword ASC
	`, companyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var recs []*offercrawl.KeywordRecord
	for rows.Next() {
		var rec offercrawl.KeywordRecord
		if err := rows.Scan(&rec.CompanyID, &rec.Section, &rec.Keyword, &rec.Confidence, &rec.Method, &rec.SourceURL); err != nil {
			return nil, err
		}
		recs = append(recs, &rec)
	}

	return recs, rows.Err()
}
