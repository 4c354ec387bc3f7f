package persistence

import (
	"context"
	"database/sql"

	"skallars-social/domain/model"
	"skallars-social/infrastructure/logger"
)

// UserRepositoryMssql is the Azure SQL variant of the user store.
type UserRepositoryMssql struct {
	db *sql.DB
}

func NewUserRepositoryMssql(db *sql.DB) *UserRepositoryMssql {
	return &UserRepositoryMssql{db: db}
}

func (repo *UserRepositoryMssql) GetById(ctx context.Context, id int) (model.User, error) {
	var user model.User
	stmt, err := repo.db.PrepareContext(ctx, `SELECT u.id, u.name, u.user_name, u.password, u.created_at, u.updated_at
	FROM dbo.[user] AS u
	WHERE u.id = @p1`)
	if err != nil {
		logger.GetLogger().WithField("error", err).Error("prepare GetById")
		return user, err
	}
	defer stmt.Close()

	err = stmt.QueryRowContext(ctx, id).Scan(&user.ID, &user.Name, &user.UserName, &user.Password, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		return user, err
	}
	return user, nil
}

func (repo *UserRepositoryMssql) GetByUserName(ctx context.Context, userName string) (model.User, error) {
	var user model.User
	stmt, err := repo.db.PrepareContext(ctx, `SELECT u.id, u.name, u.user_name, u.password, u.created_at, u.updated_at
	FROM dbo.[user] AS u
	WHERE u.user_name = @p1`)
	if err != nil {
		logger.GetLogger().WithField("error", err).Error("prepare GetByUserName")
		return user, err
	}
	defer stmt.Close()

	err = stmt.QueryRowContext(ctx, userName).Scan(&user.ID, &user.Name, &user.UserName, &user.Password, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		return user, err
	}
	return user, nil
}

func (repo *UserRepositoryMssql) CreateUser(ctx context.Context, user model.User) error {
	stmt, err := repo.db.PrepareContext(ctx, `INSERT INTO dbo.[user] (name, user_name, password) VALUES (@p1, @p2, @p3)`)
	if err != nil {
		logger.GetLogger().WithField("error", err).Error("prepare CreateUser")
		return err
	}
	defer stmt.Close()

	_, err = stmt.ExecContext(ctx, user.Name, user.UserName, user.Password)
	return err
}
