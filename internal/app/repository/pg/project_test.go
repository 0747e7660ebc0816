package pg

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"studyforge/internal/app/model"
	"studyforge/internal/app/repository"
)

func TestUpdateStatus(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewProjectRepository(db)

	mock.ExpectExec("UPDATE projects SET status").
		WithArgs(string(model.ProjectProcessing), sqlmock.AnyArg(), "p1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err = repo.UpdateStatus(context.Background(), "p1", model.ProjectProcessing)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateStatus_MissingRow(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewProjectRepository(db)

	mock.ExpectExec("UPDATE projects SET status").
		WithArgs(string(model.ProjectProcessing), sqlmock.AnyArg(), "ghost").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err = repo.UpdateStatus(context.Background(), "ghost", model.ProjectProcessing)
	assert.ErrorIs(t, err, repository.ErrProjectNotFound)
}

func TestCountByOwner(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewProjectRepository(db)

	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM projects WHERE owner_id").
		WithArgs("alice").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(4))

	// includeDeleted skips the deleted_at filter for lifetime quotas
	count, err := repo.CountByOwner(context.Background(), "alice", true)
	require.NoError(t, err)
	assert.Equal(t, 4, count)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateJobStatus_PhaseOrderRejectedBeforeWrite(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewProjectRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT transcription_status, content_generation_status, status").
		WithArgs("p1").
		WillReturnRows(sqlmock.NewRows(
			[]string{"transcription_status", "content_generation_status", "status"}).
			AddRow("running", "pending", "processing"))
	mock.ExpectRollback()

	running := model.PhaseRunning
	err = repo.UpdateJobStatus(context.Background(), "p1",
		model.JobStatusPatch{ContentGeneration: &running})
	assert.ErrorIs(t, err, repository.ErrPhaseOrder)
	assert.NoError(t, mock.ExpectationsWereMet())
}
