package storage

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var candidateCols = []string{
	"id", "job_id", "user_id", "name", "email", "phone", "resume_path",
	"match_score", "is_screened", "is_recommended", "status", "failure_count",
	"failure_reason", "is_deleted", "created_at", "updated_at",
}

func candidateRow(mock sqlmock.Sqlmock, id, jobID, userID uuid.UUID) *sqlmock.Rows {
	now := time.Now()
	return mock.NewRows(candidateCols).AddRow(
		id, jobID, userID, "Jane Dev", "jane@example.com", "+15550001111",
		"/uploads/jane.pdf", 0, false, RecommendedNotSet, StatusParsed, 0,
		"", false, now, now)
}

func TestClaimNextUnscreened(t *testing.T) {
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer conn.Close()
	db := NewDBFromConnection(conn)

	id, jobID, userID := uuid.New(), uuid.New(), uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT (.+) FROM candidates WHERE is_screened = FALSE(.+)FOR UPDATE SKIP LOCKED`).
		WithArgs(StatusFailedPermanently).
		WillReturnRows(candidateRow(mock, id, jobID, userID))
	mock.ExpectExec(`UPDATE candidates SET status = \$1, updated_at = NOW\(\) WHERE id = \$2`).
		WithArgs(StatusProcessing, id).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	c, err := db.ClaimNextUnscreened(context.Background())
	require.NoError(t, err)
	require.NotNil(t, c)
	assert.Equal(t, id, c.ID)
	assert.Equal(t, StatusProcessing, c.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestClaimNextUnscreenedEmptyQueue(t *testing.T) {
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer conn.Close()
	db := NewDBFromConnection(conn)

	mock.ExpectBegin()
	mock.ExpectQuery(`FOR UPDATE SKIP LOCKED`).
		WithArgs(StatusFailedPermanently).
		WillReturnRows(mock.NewRows(candidateCols))
	mock.ExpectRollback()

	c, err := db.ClaimNextUnscreened(context.Background())
	require.NoError(t, err)
	assert.Nil(t, c)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestClaimNextUnscreenedStatusFlipFails(t *testing.T) {
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer conn.Close()
	db := NewDBFromConnection(conn)

	id := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(`FOR UPDATE SKIP LOCKED`).
		WithArgs(StatusFailedPermanently).
		WillReturnRows(candidateRow(mock, id, uuid.New(), uuid.New()))
	mock.ExpectExec(`UPDATE candidates SET status`).
		WithArgs(StatusProcessing, id).
		WillReturnError(errors.New("connection reset"))
	mock.ExpectRollback()

	c, err := db.ClaimNextUnscreened(context.Background())
	assert.Error(t, err)
	assert.Nil(t, c)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMarkCandidateFailed(t *testing.T) {
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer conn.Close()
	db := NewDBFromConnection(conn)

	id := uuid.New()

	mock.ExpectExec(`UPDATE candidates\s+SET failure_count = failure_count \+ 1`).
		WithArgs(id, ReasonAIError, MaxFailureCount, StatusFailedPermanently, StatusFailed).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, db.MarkCandidateFailed(context.Background(), id, ReasonAIError))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetCandidateAbsentReturnsNil(t *testing.T) {
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer conn.Close()
	db := NewDBFromConnection(conn)

	id := uuid.New()
	mock.ExpectQuery(`SELECT (.+) FROM candidates WHERE id = \$1`).
		WithArgs(id).
		WillReturnRows(mock.NewRows(candidateCols))

	c, err := db.GetCandidate(context.Background(), id)
	require.NoError(t, err)
	assert.Nil(t, c)
}

func TestSearchCandidatesBuildsFilters(t *testing.T) {
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer conn.Close()
	db := NewDBFromConnection(conn)

	jobID := uuid.New()
	mock.ExpectQuery(`SELECT (.+) FROM candidates c WHERE c\.is_deleted = \$1 AND c\.job_id = \$2 AND c\.status = \$3 AND c\.name ILIKE \$4 AND EXISTS`).
		WithArgs(false, jobID, StatusScreened, "%jane%", "%go%").
		WillReturnRows(candidateRow(mock, uuid.New(), jobID, uuid.New()))

	res, err := db.SearchCandidates(context.Background(), &CandidateSearch{
		JobID:  &jobID,
		Status: StatusScreened,
		Name:   "jane",
		Skills: []string{"go"},
	})
	require.NoError(t, err)
	assert.Len(t, res, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSplitAndTrim(t *testing.T) {
	assert.Equal(t, []string{"go", "postgresql", "docker"}, SplitAndTrim("go, postgresql ,docker"))
	assert.Equal(t, []string{"go"}, SplitAndTrim("go,,  ,"))
	assert.Empty(t, SplitAndTrim(""))
}
