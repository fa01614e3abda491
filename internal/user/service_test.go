// AngelaMos | 2026
// service_test.go

package user

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/boi-backend/internal/core"
)

func newService(t *testing.T) (*Service, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewService(NewRepository(sqlx.NewDb(db, "pgx"))), mock
}

var userCols = []string{
	"id", "name", "email", "password_hash", "role",
	"phone", "address", "created_at", "updated_at",
}

func userRow(id int64, role string) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows(userCols).
		AddRow(id, "Ann", "ann@example.com", "hash", role, "", "", now, now)
}

func TestCreateNormalizesEmail(t *testing.T) {
	svc, mock := newService(t)

	mock.ExpectQuery("INSERT INTO users").
		WithArgs("Ann", "ann@example.com", "hash", RoleUser, "", "").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).
			AddRow(7, time.Now(), time.Now()))

	info, err := svc.Create(context.Background(), " Ann ", " Ann@Example.COM ", "hash")
	require.NoError(t, err)
	assert.EqualValues(t, 7, info.ID)
	assert.Equal(t, "ann@example.com", info.Email)
	assert.Equal(t, RoleUser, info.Role)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateDuplicateEmail(t *testing.T) {
	svc, mock := newService(t)

	mock.ExpectQuery("INSERT INTO users").
		WillReturnError(&pgconn.PgError{Code: "23505"})

	_, err := svc.Create(context.Background(), "Ann", "ann@example.com", "hash")
	assert.ErrorIs(t, err, core.ErrDuplicateKey)
}

func TestUpdateProfileRejectsAdmin(t *testing.T) {
	svc, mock := newService(t)

	mock.ExpectQuery("SELECT .* FROM users WHERE id").
		WithArgs(int64(1)).
		WillReturnRows(userRow(1, RoleAdmin))

	_, err := svc.UpdateProfile(context.Background(), 1, "New", "", "")
	assert.ErrorIs(t, err, core.ErrForbidden)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateProfile(t *testing.T) {
	svc, mock := newService(t)

	mock.ExpectQuery("SELECT .* FROM users WHERE id").
		WithArgs(int64(3)).
		WillReturnRows(userRow(3, RoleUser))
	mock.ExpectQuery("UPDATE users").
		WithArgs(int64(3), "Bea", "555-0100", "1 Main St").
		WillReturnRows(sqlmock.NewRows([]string{"updated_at"}).AddRow(time.Now()))

	info, err := svc.UpdateProfile(context.Background(), 3, "Bea", " 555-0100 ", "1 Main St")
	require.NoError(t, err)
	assert.Equal(t, "Bea", info.Name)
	assert.Equal(t, "555-0100", info.Phone)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteUserRefusesAdmins(t *testing.T) {
	svc, mock := newService(t)

	mock.ExpectQuery("SELECT .* FROM users WHERE id").
		WithArgs(int64(1)).
		WillReturnRows(userRow(1, RoleAdmin))

	err := svc.DeleteUser(context.Background(), 1)
	assert.ErrorIs(t, err, core.ErrForbidden)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteUserMissing(t *testing.T) {
	svc, mock := newService(t)

	mock.ExpectQuery("SELECT .* FROM users WHERE id").
		WithArgs(int64(99)).
		WillReturnRows(sqlmock.NewRows(userCols))

	err := svc.DeleteUser(context.Background(), 99)
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestDeleteUser(t *testing.T) {
	svc, mock := newService(t)

	mock.ExpectQuery("SELECT .* FROM users WHERE id").
		WithArgs(int64(4)).
		WillReturnRows(userRow(4, RoleUser))
	mock.ExpectExec("DELETE FROM users").
		WithArgs(int64(4)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, svc.DeleteUser(context.Background(), 4))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateUserRoleValidates(t *testing.T) {
	svc, _ := newService(t)

	_, err := svc.UpdateUserRole(context.Background(), 1, "superuser")
	assert.ErrorIs(t, err, core.ErrInvalidInput)
}

func TestListUsersFiltersAndPaginates(t *testing.T) {
	svc, mock := newService(t)

	mock.ExpectQuery(regexp.QuoteMeta(
		"SELECT COUNT(*) FROM users u WHERE (u.name ILIKE $1 OR u.email ILIKE $2) AND u.role = $3",
	)).
		WithArgs("%ann%", "%ann%", RoleUser).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(21))

	now := time.Now()
	mock.ExpectQuery("GROUP BY u.id").
		WithArgs("%ann%", "%ann%", RoleUser, 20, 20).
		WillReturnRows(sqlmock.NewRows(append(userCols, "order_count")).
			AddRow(21, "Ann", "ann@example.com", "hash", RoleUser, "", "", now, now, 3))

	users, total, err := svc.ListUsers(context.Background(), ListUsersParams{
		Page:   2,
		Search: "ann",
		Role:   RoleUser,
	})
	require.NoError(t, err)
	assert.Equal(t, 21, total)
	require.Len(t, users, 1)
	assert.Equal(t, 3, users[0].OrderCount)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpsertAdminReportsInsert(t *testing.T) {
	svc, mock := newService(t)

	mock.ExpectQuery("INSERT INTO users .* ON CONFLICT \\(email\\)").
		WithArgs("Root", "root@boi.dev", "hash").
		WillReturnRows(sqlmock.NewRows([]string{"id", "inserted"}).AddRow(1, true))

	inserted, err := svc.UpsertAdmin(context.Background(), "Root", "ROOT@boi.dev", "hash")
	require.NoError(t, err)
	assert.True(t, inserted)
}
