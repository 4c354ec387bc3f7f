package persistence_test

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/require"

	"skallars-social/domain/model"
	"skallars-social/infrastructure/persistence"
)

func TestLinkedInAccountUpsert(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := persistence.NewLinkedInAccountRepository(db)

	memberURN := "urn:li:person:abc"
	expires := time.Now().UTC().Add(time.Hour)
	account := &model.LinkedInAccount{
		UserID:           "7",
		MemberURN:        &memberURN,
		AccessToken:      "token-abc",
		ExpiresAt:        &expires,
		Scopes:           "openid profile w_member_social",
		OrganizationURNs: []string{"urn:li:organization:55"},
	}

	mock.ExpectExec(regexp.QuoteMeta("ON CONFLICT (user_id) DO UPDATE SET")).
		WithArgs("7", &memberURN, nil, "token-abc", nil, &expires, "openid profile w_member_social",
			pq.Array([]string{"urn:li:organization:55"}), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Upsert(context.Background(), account))
	require.False(t, account.CreatedAt.IsZero())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestLinkedInAccountGet(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := persistence.NewLinkedInAccountRepository(db)

	now := time.Now().UTC()
	expires := now.Add(time.Hour)
	rows := sqlmock.NewRows([]string{
		"id", "user_id", "member_urn", "display_name", "access_token", "refresh_token",
		"expires_at", "scopes", "organization_urns", "created_at", "updated_at",
	}).AddRow(int64(1), "7", "urn:li:person:abc", "Jana Novak", "token-abc", nil,
		expires, "openid profile w_member_social", pq.StringArray{"urn:li:organization:55"}, now, now)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, user_id, member_urn, display_name, access_token, refresh_token, expires_at, scopes, organization_urns, created_at, updated_at FROM linkedin_accounts WHERE user_id=$1")).
		WithArgs("7").
		WillReturnRows(rows)

	account, err := repo.Get(context.Background(), "7")

	require.NoError(t, err)
	require.NotNil(t, account)
	require.Equal(t, "token-abc", account.AccessToken)
	require.NotNil(t, account.MemberURN)
	require.Equal(t, "urn:li:person:abc", *account.MemberURN)
	require.Nil(t, account.RefreshToken)
	require.Equal(t, []string{"urn:li:organization:55"}, account.OrganizationURNs)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestLinkedInAccountGet_NotConnected(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := persistence.NewLinkedInAccountRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM linkedin_accounts WHERE user_id=$1")).
		WithArgs("7").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	account, err := repo.Get(context.Background(), "7")

	// No row means not connected, never an error.
	require.NoError(t, err)
	require.Nil(t, account)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestLinkedInAccountDelete(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := persistence.NewLinkedInAccountRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM linkedin_accounts WHERE user_id=$1")).
		WithArgs("7").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Delete(context.Background(), "7"))
	require.NoError(t, mock.ExpectationsWereMet())
}
