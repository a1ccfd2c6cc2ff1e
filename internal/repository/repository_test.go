package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"coachreports/internal/database"
	"coachreports/internal/models"
)

func newMockDB(t *testing.T, dialect database.Dialect) (*database.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })
	return &database.DB{DB: sqlDB, Dialect: dialect}, mock
}

func TestPlaceholders(t *testing.T) {
	tests := []struct {
		n    int
		want string
	}{
		{0, ""},
		{1, "?"},
		{3, "?, ?, ?"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, placeholders(tt.n))
	}
}

func TestClassroomRepository_CreateClassroom(t *testing.T) {
	tests := []struct {
		name      string
		setupMock func(mock sqlmock.Sqlmock)
		wantErr   error
		expectErr bool
	}{
		{
			name: "insert succeeds",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(regexp.QuoteMeta("INSERT INTO classrooms (id, name, name_key, created_at, updated_at) VALUES ($1, $2, $3, $4, $5)")).
					WithArgs("c-1", "Science", "science", sqlmock.AnyArg(), sqlmock.AnyArg()).
					WillReturnResult(sqlmock.NewResult(0, 1))
			},
		},
		{
			name: "unique violation maps to ErrDuplicateName",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec("INSERT INTO classrooms").
					WillReturnError(&pq.Error{Code: "23505"})
			},
			wantErr:   ErrDuplicateName,
			expectErr: true,
		},
		{
			name: "other errors are wrapped",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec("INSERT INTO classrooms").
					WillReturnError(assert.AnError)
			},
			wantErr:   assert.AnError,
			expectErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock := newMockDB(t, database.NewPostgresDialect())
			tt.setupMock(mock)

			classroom, err := NewClassroomRepository(db).CreateClassroom(context.Background(), "c-1", "Science")
			if tt.expectErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, classroom)
			} else {
				require.NoError(t, err)
				assert.Equal(t, "c-1", classroom.ID)
				assert.Equal(t, "Science", classroom.Name)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestClassroomRepository_ListClassrooms(t *testing.T) {
	db, mock := newMockDB(t, database.NewSQLiteDialect())
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

	mock.ExpectQuery("SELECT c.id, c.name").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "created_at", "updated_at", "count"}).
			AddRow("c-1", "Math", now, now, 3).
			AddRow("c-2", "Science", now, now, 0))

	classrooms, err := NewClassroomRepository(db).ListClassrooms(context.Background())
	require.NoError(t, err)
	require.Len(t, classrooms, 2)
	assert.Equal(t, "Math", classrooms[0].Name)
	assert.Equal(t, 3, classrooms[0].LearnerCount)
	assert.Equal(t, 0, classrooms[1].LearnerCount)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestClassroomRepository_GetClassroomByIDNotFound(t *testing.T) {
	db, mock := newMockDB(t, database.NewSQLiteDialect())
	mock.ExpectQuery("SELECT id, name, created_at, updated_at FROM classrooms").
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "created_at", "updated_at"}))

	classroom, err := NewClassroomRepository(db).GetClassroomByID(context.Background(), "missing")
	require.NoError(t, err)
	assert.Nil(t, classroom)
}

func TestSummaryLogRepository_ListLogs(t *testing.T) {
	t.Run("empty inputs skip the query", func(t *testing.T) {
		db, mock := newMockDB(t, database.NewSQLiteDialect())

		logs, err := NewSummaryLogRepository(db).ListLogs(context.Background(), nil, []string{"x"})
		require.NoError(t, err)
		assert.Empty(t, logs)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("postgres placeholders are numbered", func(t *testing.T) {
		db, mock := newMockDB(t, database.NewPostgresDialect())
		start := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)
		end := start.Add(5 * time.Minute)

		mock.ExpectQuery(regexp.QuoteMeta("WHERE user_id IN ($1, $2)")+`\s+`+regexp.QuoteMeta("AND content_id IN ($3)")).
			WithArgs("u1", "u2", "k1").
			WillReturnRows(sqlmock.NewRows([]string{
				"id", "user_id", "content_id", "channel_id", "kind", "progress", "time_spent",
				"start_timestamp", "end_timestamp", "completion_timestamp",
			}).
				AddRow(1, "u1", "k1", "ch", "exercise", 0.5, 30.0, start, end, nil).
				AddRow(2, "u2", "k1", "ch", "exercise", 1.0, 60.0, start, nil, end))

		logs, err := NewSummaryLogRepository(db).ListLogs(context.Background(), []string{"u1", "u2"}, []string{"k1"})
		require.NoError(t, err)
		require.Len(t, logs, 2)

		assert.Equal(t, models.KindExercise, logs[0].Kind)
		require.NotNil(t, logs[0].EndTimestamp)
		assert.True(t, logs[0].EndTimestamp.Equal(end))
		assert.Nil(t, logs[0].CompletionTimestamp)

		assert.Nil(t, logs[1].EndTimestamp)
		require.NotNil(t, logs[1].CompletionTimestamp)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestContentRepository_ListChannelNodes(t *testing.T) {
	db, mock := newMockDB(t, database.NewSQLiteDialect())

	mock.ExpectQuery("SELECT id, content_id, channel_id, parent_id, kind, title, sort_order FROM content_nodes WHERE channel_id").
		WithArgs("ch").
		WillReturnRows(sqlmock.NewRows([]string{"id", "content_id", "channel_id", "parent_id", "kind", "title", "sort_order"}).
			AddRow("root", "root-c", "ch", nil, "topic", "Channel", 0).
			AddRow("n1", "c1", "ch", "root", "video", "Intro", 1))

	nodes, err := NewContentRepository(db).ListChannelNodes(context.Background(), "ch")
	require.NoError(t, err)
	require.Len(t, nodes, 2)
	assert.True(t, nodes[0].IsRoot())
	require.NotNil(t, nodes[1].ParentID)
	assert.Equal(t, "root", *nodes[1].ParentID)
	assert.Equal(t, models.KindVideo, nodes[1].Kind)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_Sessions(t *testing.T) {
	db, mock := newMockDB(t, database.NewPostgresDialect())
	repo := NewUserRepository(db)
	ctx := context.Background()
	expires := time.Date(2026, 5, 2, 12, 0, 0, 0, time.UTC)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO sessions (id, user_id, expires_at, created_at) VALUES ($1, $2, $3, $4)")).
		WithArgs("sess-1", int64(7), expires, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	session := &models.Session{ID: "sess-1", UserID: 7, ExpiresAt: expires}
	require.NoError(t, repo.CreateSession(ctx, session))
	assert.False(t, session.CreatedAt.IsZero())

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, user_id, expires_at, created_at FROM sessions WHERE id = $1")).
		WithArgs("sess-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "expires_at", "created_at"}).
			AddRow("sess-1", 7, expires, expires.Add(-time.Hour)))
	got, err := repo.GetSession(ctx, "sess-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, int64(7), got.UserID)
	assert.True(t, got.ExpiresAt.Equal(expires))

	mock.ExpectQuery("SELECT id, user_id, expires_at, created_at FROM sessions").
		WithArgs("gone").
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "expires_at", "created_at"}))
	got, err = repo.GetSession(ctx, "gone")
	require.NoError(t, err)
	assert.Nil(t, got)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM sessions WHERE id = $1")).
		WithArgs("sess-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, repo.DeleteSession(ctx, "sess-1"))

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM sessions WHERE expires_at < $1")).
		WithArgs(expires).
		WillReturnResult(sqlmock.NewResult(0, 3))
	n, err := repo.DeleteExpiredSessions(ctx, expires)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLearnerRepository_FindLearner(t *testing.T) {
	db, mock := newMockDB(t, database.NewSQLiteDialect())
	repo := NewLearnerRepository(db)

	mock.ExpectQuery("SELECT id, username, full_name FROM learners WHERE id = \\? OR username = \\?").
		WithArgs("ana", "ana", "ana").
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "full_name"}).AddRow("l-ana", "ana", "Ana Ruiz"))
	learner, err := repo.FindLearner(context.Background(), "ana")
	require.NoError(t, err)
	require.NotNil(t, learner)
	assert.Equal(t, "l-ana", learner.ID)

	mock.ExpectQuery("SELECT id, username, full_name FROM learners").
		WithArgs("nobody", "nobody", "nobody").
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "full_name"}))
	learner, err = repo.FindLearner(context.Background(), "nobody")
	require.NoError(t, err)
	assert.Nil(t, learner)

	assert.NoError(t, mock.ExpectationsWereMet())
}
