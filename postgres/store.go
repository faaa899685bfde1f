package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/adminkit/authcore"
	"github.com/adminkit/authcore/permission"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const findCredentialsQuery = `
select id, user_name, password_hash, disabled
from sys_user
where user_name = $1`

const findUserQuery = `
select u.user_name,
       coalesce(u.nick_name, ''),
       coalesce(u.avatar, ''),
       coalesce((
           select string_agg(distinct r.role_name, ',')
           from sys_user_role ur
           join sys_role r on r.id = ur.role_id and not r.disabled
           where ur.user_id = u.id
       ), '')
from sys_user u
where u.id = $1 and not u.disabled`

const findPermissionRowsQuery = `
select distinct p.id,
       coalesce(p.pid, 0),
       p.name,
       coalesce(p.path, ''),
       coalesce(p.permission, ''),
       p.type,
       coalesce(p.component, ''),
       p.cache,
       p.hidden,
       coalesce(p.icon, ''),
       coalesce(p.redirect, ''),
       coalesce(p.props, ''),
       p.sort
from sys_user_role ur
join sys_role r on r.id = ur.role_id and not r.disabled
join sys_role_permission rp on rp.role_id = ur.role_id
join sys_permission p on p.id = rp.permission_id and not p.disabled
where ur.user_id = $1
order by p.sort desc, p.id`

// Store implements authcore.CredentialStore over a pgx pool.
type Store struct {
	pool *pgxpool.Pool
}

var _ authcore.CredentialStore = (*Store)(nil)

// NewStore wraps an existing pool; the caller keeps ownership.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// FindCredentials returns the credential record for userName, or (nil, nil)
// when absent.
func (s *Store) FindCredentials(ctx context.Context, userName string) (*authcore.Credentials, error) {
	var creds authcore.Credentials
	err := s.pool.QueryRow(ctx, findCredentialsQuery, userName).
		Scan(&creds.ID, &creds.UserName, &creds.PasswordHash, &creds.Disabled)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find credentials: %w", err)
	}
	return &creds, nil
}

// FindUserPermissionRows returns the flattened rows for userID. An absent
// or disabled user yields an empty slice; an active user with no reachable
// permission nodes yields one row carrying user fields only.
func (s *Store) FindUserPermissionRows(ctx context.Context, userID int64) ([]permission.Row, error) {
	var user permission.Row
	err := s.pool.QueryRow(ctx, findUserQuery, userID).
		Scan(&user.UserName, &user.NickName, &user.Avatar, &user.RoleNames)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}

	rows, err := s.pool.Query(ctx, findPermissionRowsQuery, userID)
	if err != nil {
		return nil, fmt.Errorf("find permission rows: %w", err)
	}
	defer rows.Close()

	var result []permission.Row
	for rows.Next() {
		row := user
		var nodeType string
		if err := rows.Scan(
			&row.ID, &row.PID, &row.Name, &row.Path, &row.Permission, &nodeType,
			&row.Component, &row.Cache, &row.Hidden, &row.Icon, &row.Redirect,
			&row.Props, &row.Sort,
		); err != nil {
			return nil, fmt.Errorf("scan permission row: %w", err)
		}
		row.Type = permission.NodeType(nodeType)
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate permission rows: %w", err)
	}

	if len(result) == 0 {
		// Active user, no reachable nodes: the engine still needs the
		// profile fields.
		return []permission.Row{user}, nil
	}
	return result, nil
}
