package repository

import (
	"context"
	"path/filepath"
	"testing"

	"vmxsphere/internal/model"
	"vmxsphere/pkg/log"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

func newTestUserRepo(t *testing.T) (UserRepository, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	gdb, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      db,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{})
	require.NoError(t, err)

	conf := viper.New()
	conf.Set("log.log_file_name", filepath.Join(t.TempDir(), "test.log"))
	logger := log.NewLog(conf)

	return NewUserRepository(NewRepository(logger, gdb, nil)), mock
}

func userRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "user_id", "username", "nickname", "password", "email",
		"is_admin", "public_webhook_url", "private_webhook_url",
	})
}

func TestUserGetByID(t *testing.T) {
	repo, mock := newTestUserRepo(t)

	mock.ExpectQuery("SELECT \\* FROM `users` WHERE user_id = \\?").
		WillReturnRows(userRows().
			AddRow(1, "u-1001", "alice", "Alice", "hashed", "alice@example.com",
				false, "https://hooks.example.com/pub", ""))

	user, err := repo.GetByID(context.Background(), "u-1001")
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, "alice", user.Username)
	assert.Equal(t, "https://hooks.example.com/pub", user.PublicWebhookURL)
	assert.Empty(t, user.PrivateWebhookURL)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserGetByIDNotFound(t *testing.T) {
	repo, mock := newTestUserRepo(t)

	mock.ExpectQuery("SELECT \\* FROM `users` WHERE user_id = \\?").
		WillReturnRows(userRows())

	// 查不到不是错误，返回 nil 让上层决定怎么报
	user, err := repo.GetByID(context.Background(), "u-missing")
	require.NoError(t, err)
	assert.Nil(t, user)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserGetByAccount(t *testing.T) {
	repo, mock := newTestUserRepo(t)

	mock.ExpectQuery("SELECT \\* FROM `users`").
		WillReturnRows(userRows().
			AddRow(2, "u-1002", "bob", "Bob", "hashed", "bob@example.com",
				true, "", "https://hooks.example.com/priv"))

	user, err := repo.GetByAccount(context.Background(), "bob@example.com")
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, "u-1002", user.UserId)
	assert.True(t, user.IsAdmin)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserCreate(t *testing.T) {
	repo, mock := newTestUserRepo(t)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `users`").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	err := repo.Create(context.Background(), &model.User{
		UserId:   "u-1003",
		Username: "carol",
		Nickname: "Carol",
		Password: "hashed",
		Email:    "carol@example.com",
	})
	require.NoError(t, err)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserCount(t *testing.T) {
	repo, mock := newTestUserRepo(t)

	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `users`").
		WillReturnRows(sqlmock.NewRows([]string{"count(*)"}).AddRow(7))

	total, err := repo.Count(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 7, total)

	assert.NoError(t, mock.ExpectationsWereMet())
}
