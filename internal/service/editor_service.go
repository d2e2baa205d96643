package service

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/fernet/fernet-go"
	"github.com/google/uuid"

	"github.com/hjkwon/Asset-Dashboard-Backend/internal/apperrors"
	"github.com/hjkwon/Asset-Dashboard-Backend/internal/model"
	"github.com/hjkwon/Asset-Dashboard-Backend/internal/repository"
)

// EditorService manages session-persisted manual data entry. Each session
// holds a working set of rows a caller is preparing to paste back into the
// spreadsheet; sessions are addressed by a signed fernet token so they
// cannot be guessed or tampered with.
type EditorService struct {
	sessionRepo *repository.SessionRepository
	key         *fernet.Key
	ttl         time.Duration
}

// NewEditorService creates an EditorService. ttl bounds both token validity
// and how long idle sessions survive before PurgeExpired removes them.
func NewEditorService(sessionRepo *repository.SessionRepository, key *fernet.Key, ttl time.Duration) *EditorService {
	return &EditorService{
		sessionRepo: sessionRepo,
		key:         key,
		ttl:         ttl,
	}
}

// CreateSession starts a new empty editor session and returns the token the
// caller presents on subsequent editor requests.
func (s *EditorService) CreateSession() (string, error) {
	now := time.Now().UTC()
	session := model.EditorSession{
		ID:        uuid.NewString(),
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.sessionRepo.CreateSession(session); err != nil {
		return "", err
	}

	token, err := fernet.EncryptAndSign([]byte(session.ID), s.key)
	if err != nil {
		return "", fmt.Errorf("failed to sign session token: %w", err)
	}
	return string(token), nil
}

// sessionID verifies the token signature and TTL and confirms the session
// still exists. Tampered, expired and purged sessions all surface as typed
// errors, never as a panic or a silent empty session.
func (s *EditorService) sessionID(token string) (string, error) {
	msg := fernet.VerifyAndDecrypt([]byte(token), s.ttl, []*fernet.Key{s.key})
	if msg == nil {
		return "", apperrors.ErrInvalidSessionToken
	}

	id := string(msg)
	if _, err := uuid.Parse(id); err != nil {
		return "", apperrors.ErrInvalidSessionToken
	}

	if _, err := s.sessionRepo.GetSession(id); err != nil {
		return "", err
	}
	return id, nil
}

// LoadDefaults seeds the session with the latest-date rows of the given
// dataset, the usual starting point for entering the next day's figures, and
// returns them. Any previously stored rows are replaced. Callers are
// expected to pass an already access-scoped dataset; this service never
// widens visibility on its own.
func (s *EditorService) LoadDefaults(token string, ds *model.Dataset) ([]model.Row, error) {
	id, err := s.sessionID(token)
	if err != nil {
		return nil, err
	}

	defaults := []model.Row{}
	if _, end, ok := ds.Span(); ok {
		for _, r := range ds.Rows {
			if r.AsOfDate.Equal(end) {
				defaults = append(defaults, r)
			}
		}
	}

	if err := s.sessionRepo.ReplaceRows(id, defaults); err != nil {
		return nil, err
	}
	return defaults, nil
}

// Rows returns the session's current working set in insertion order.
func (s *EditorService) Rows(token string) ([]model.Row, error) {
	id, err := s.sessionID(token)
	if err != nil {
		return nil, err
	}
	return s.sessionRepo.GetRows(id)
}

// Replace swaps the session's working set for the given rows.
func (s *EditorService) Replace(token string, rows []model.Row) error {
	id, err := s.sessionID(token)
	if err != nil {
		return err
	}
	return s.sessionRepo.ReplaceRows(id, rows)
}

// Reset clears the session's working set.
func (s *EditorService) Reset(token string) error {
	id, err := s.sessionID(token)
	if err != nil {
		return err
	}
	return s.sessionRepo.DeleteRows(id)
}

// ExportTSV serializes the session's working set as tab-separated text in
// the source column order, with no header row and no index column, ready to
// paste directly into the spreadsheet. Re-ingesting the output through the
// normalization pipeline reproduces the same values.
func (s *EditorService) ExportTSV(token string) (string, error) {
	rows, err := s.Rows(token)
	if err != nil {
		return "", err
	}
	return FormatTSV(rows), nil
}

// tsvSanitizer collapses the characters that would break the tab-separated
// row structure. Tabs and newlines inside a text cell become spaces so one
// odd instrument name cannot shift every following column on paste.
var tsvSanitizer = strings.NewReplacer("\t", " ", "\n", " ", "\r", "")

// FormatTSV renders rows in the spreadsheet paste-back format. Column order
// follows model.ExportColumns.
func FormatTSV(rows []model.Row) string {
	var b strings.Builder
	for _, r := range rows {
		fields := []string{
			r.AsOfDate.Format("2006-01-02"),
			tsvSanitizer.Replace(r.Owner),
			tsvSanitizer.Replace(r.Broker),
			tsvSanitizer.Replace(r.Category),
			tsvSanitizer.Replace(r.InstrumentName),
			tsvSanitizer.Replace(r.Theme),
			formatMoney(r.Principal),
			formatMoney(r.MarketValue),
			formatMoney(r.UnrealizedGain),
		}
		b.WriteString(strings.Join(fields, "\t"))
		b.WriteString("\n")
	}
	return b.String()
}

// PurgeExpired removes sessions idle for longer than the service TTL.
// Scheduled from cmd/server; also safe to call ad hoc.
func (s *EditorService) PurgeExpired() (int64, error) {
	return s.sessionRepo.DeleteExpired(time.Now().UTC().Add(-s.ttl))
}

func formatMoney(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
