package repo

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/arju-vk/Bug-Tracker/internal/config"
	"github.com/arju-vk/Bug-Tracker/internal/domain"
)

type DB struct {
	Pool *pgxpool.Pool
	log  zerolog.Logger
}

func MustOpen(ctx context.Context, cfg config.Config, log zerolog.Logger) *DB {
	pool, err := pgxpool.New(ctx, cfg.DBDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("db connect failed")
	}
	ctx2, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := pool.Ping(ctx2); err != nil {
		log.Fatal().Err(err).Msg("db ping failed")
	}
	db := &DB{Pool: pool, log: log}
	if err := db.migrate(ctx); err != nil {
		log.Fatal().Err(err).Msg("db migrate failed")
	}
	return db
}

func (d *DB) Close() { d.Pool.Close() }

type Repository struct {
	db  *DB
	log zerolog.Logger
}

func NewRepository(d *DB, log zerolog.Logger) *Repository {
	return &Repository{db: d, log: log}
}

func (r *Repository) TryAdvisoryLock(ctx context.Context, key int64) (bool, error) {
	var ok bool
	err := r.db.Pool.QueryRow(ctx, "SELECT pg_try_advisory_lock($1)", key).Scan(&ok)
	return ok, err
}

func (r *Repository) AdvisoryUnlock(ctx context.Context, key int64) error {
	var ok bool
	err := r.db.Pool.QueryRow(ctx, "SELECT pg_advisory_unlock($1)", key).Scan(&ok)
	if !ok && err == nil {
		return errors.New("advisory unlock returned false")
	}
	return err
}

// ---- users ----

func (r *Repository) CreateUser(ctx context.Context, u domain.User) error {
	const q = `INSERT INTO users(id, name, email, avatar, password_hash, created_at, updated_at)
		VALUES($1,$2,$3,$4,$5,$6,$7)`
	_, err := r.db.Pool.Exec(ctx, q, u.ID, u.Name, u.Email, u.Avatar, u.PasswordHash, u.CreatedAt, u.UpdatedAt)
	return err
}

func (r *Repository) UserByID(ctx context.Context, id string) (*domain.User, error) {
	const q = `SELECT id, name, email, COALESCE(avatar,''), password_hash, created_at, updated_at
		FROM users WHERE id=$1`
	return r.scanUser(r.db.Pool.QueryRow(ctx, q, id))
}

func (r *Repository) UserByEmail(ctx context.Context, email string) (*domain.User, error) {
	const q = `SELECT id, name, email, COALESCE(avatar,''), password_hash, created_at, updated_at
		FROM users WHERE email=$1`
	return r.scanUser(r.db.Pool.QueryRow(ctx, q, email))
}

func (r *Repository) scanUser(row pgx.Row) (*domain.User, error) {
	var u domain.User
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.Avatar, &u.PasswordHash, &u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *Repository) ListUsers(ctx context.Context) ([]domain.User, error) {
	const q = `SELECT id, name, email, COALESCE(avatar,''), password_hash, created_at, updated_at
		FROM users ORDER BY name`
	rows, err := r.db.Pool.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []domain.User
	for rows.Next() {
		var u domain.User
		if err := rows.Scan(&u.ID, &u.Name, &u.Email, &u.Avatar, &u.PasswordHash, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

// ---- projects ----

func (r *Repository) CreateProject(ctx context.Context, p domain.Project) error {
	tx, err := r.db.Pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()
	const q = `INSERT INTO projects(id, name, description, key, owner, created_at, updated_at)
		VALUES($1,$2,$3,$4,$5,$6,$7)`
	if _, err := tx.Exec(ctx, q, p.ID, p.Name, p.Description, p.Key, p.Owner, p.CreatedAt, p.UpdatedAt); err != nil {
		return err
	}
	for _, m := range p.Members {
		if err := insertMember(ctx, tx, p.ID, m); err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}

func insertMember(ctx context.Context, tx pgx.Tx, projectID string, m domain.Member) error {
	const q = `INSERT INTO project_members(project_id, user_id, role)
		VALUES($1,$2,$3) ON CONFLICT (project_id, user_id) DO NOTHING`
	_, err := tx.Exec(ctx, q, projectID, m.User, m.Role)
	return err
}

func (r *Repository) ProjectByID(ctx context.Context, id string) (*domain.Project, error) {
	const q = `SELECT id, name, COALESCE(description,''), key, owner, created_at, updated_at
		FROM projects WHERE id=$1`
	var p domain.Project
	err := r.db.Pool.QueryRow(ctx, q, id).Scan(&p.ID, &p.Name, &p.Description, &p.Key, &p.Owner, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	members, err := r.membersFor(ctx, []string{p.ID})
	if err != nil {
		return nil, err
	}
	p.Members = members[p.ID]
	if p.Members == nil {
		p.Members = []domain.Member{}
	}
	return &p, nil
}

func (r *Repository) ProjectsForUser(ctx context.Context, userID string) ([]domain.Project, error) {
	const q = `SELECT p.id, p.name, COALESCE(p.description,''), p.key, p.owner, p.created_at, p.updated_at
		FROM projects p
		WHERE p.owner=$1
		   OR EXISTS (SELECT 1 FROM project_members m WHERE m.project_id=p.id AND m.user_id=$1)
		ORDER BY p.created_at DESC`
	rows, err := r.db.Pool.Query(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []domain.Project
	var ids []string
	for rows.Next() {
		var p domain.Project
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.Key, &p.Owner, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
		ids = append(ids, p.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	members, err := r.membersFor(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range out {
		out[i].Members = members[out[i].ID]
		if out[i].Members == nil {
			out[i].Members = []domain.Member{}
		}
	}
	return out, nil
}

func (r *Repository) membersFor(ctx context.Context, projectIDs []string) (map[string][]domain.Member, error) {
	out := map[string][]domain.Member{}
	if len(projectIDs) == 0 {
		return out, nil
	}
	const q = `SELECT project_id, user_id, role FROM project_members
		WHERE project_id = ANY($1) ORDER BY project_id, user_id`
	rows, err := r.db.Pool.Query(ctx, q, projectIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var pid string
		var m domain.Member
		if err := rows.Scan(&pid, &m.User, &m.Role); err != nil {
			return nil, err
		}
		out[pid] = append(out[pid], m)
	}
	return out, rows.Err()
}

func (r *Repository) UpdateProject(ctx context.Context, p domain.Project) error {
	const q = `UPDATE projects SET name=$2, description=$3, updated_at=$4 WHERE id=$1`
	_, err := r.db.Pool.Exec(ctx, q, p.ID, p.Name, p.Description, p.UpdatedAt)
	return err
}

// DeleteProjectCascade drops the project's tickets, its membership rows, its
// key counter and finally the project row, in one transaction. Comments stay
// for the orphan sweeper. Re-running on an absent project deletes nothing.
func (r *Repository) DeleteProjectCascade(ctx context.Context, id string) error {
	tx, err := r.db.Pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()
	for _, q := range []string{
		`DELETE FROM tickets WHERE project_id=$1`,
		`DELETE FROM project_members WHERE project_id=$1`,
		`DELETE FROM project_counters WHERE project_id=$1`,
		`DELETE FROM projects WHERE id=$1`,
	} {
		if _, err := tx.Exec(ctx, q, id); err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}

func (r *Repository) AddMember(ctx context.Context, projectID string, m domain.Member) error {
	const q = `INSERT INTO project_members(project_id, user_id, role)
		VALUES($1,$2,$3) ON CONFLICT (project_id, user_id) DO NOTHING`
	_, err := r.db.Pool.Exec(ctx, q, projectID, m.User, m.Role)
	return err
}

func (r *Repository) RemoveMember(ctx context.Context, projectID, userID string) error {
	_, err := r.db.Pool.Exec(ctx, `DELETE FROM project_members WHERE project_id=$1 AND user_id=$2`, projectID, userID)
	return err
}

// ---- tickets ----

// NextTicketSeq atomically advances the per-project counter. The upsert makes
// the first ticket in a project start at 1; RETURNING keeps read and bump in
// one statement so concurrent creations serialize on the row.
func (r *Repository) NextTicketSeq(ctx context.Context, projectID string) (int64, error) {
	const q = `INSERT INTO project_counters(project_id, seq) VALUES($1, 1)
		ON CONFLICT (project_id) DO UPDATE SET seq = project_counters.seq + 1
		RETURNING seq`
	var seq int64
	err := r.db.Pool.QueryRow(ctx, q, projectID).Scan(&seq)
	return seq, err
}

const ticketCols = `id, title, COALESCE(description,''), project_id, ticket_key, status, priority, type,
	reporter, COALESCE(assignee,''), COALESCE(labels,'{}'), due_at, created_at, updated_at`

func (r *Repository) CreateTicket(ctx context.Context, t domain.Ticket) error {
	const q = `INSERT INTO tickets(id, title, description, project_id, ticket_key, status, priority, type,
			reporter, assignee, labels, due_at, created_at, updated_at)
		VALUES($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)`
	_, err := r.db.Pool.Exec(ctx, q, t.ID, t.Title, t.Description, t.Project, t.TicketKey,
		t.Status, t.Priority, t.Type, t.Reporter, t.Assignee, t.Labels, t.DueDate, t.CreatedAt, t.UpdatedAt)
	return err
}

func (r *Repository) TicketByID(ctx context.Context, id string) (*domain.Ticket, error) {
	row := r.db.Pool.QueryRow(ctx, `SELECT `+ticketCols+` FROM tickets WHERE id=$1`, id)
	t, err := scanTicket(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return t, nil
}

func scanTicket(row pgx.Row) (*domain.Ticket, error) {
	var t domain.Ticket
	err := row.Scan(&t.ID, &t.Title, &t.Description, &t.Project, &t.TicketKey, &t.Status, &t.Priority,
		&t.Type, &t.Reporter, &t.Assignee, &t.Labels, &t.DueDate, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if t.Labels == nil {
		t.Labels = []string{}
	}
	return &t, nil
}

func (r *Repository) TicketsByProject(ctx context.Context, projectID string, f domain.TicketFilter) ([]domain.Ticket, error) {
	q := `SELECT ` + ticketCols + ` FROM tickets WHERE project_id=$1`
	args := []any{projectID}
	if f.Status != "" {
		args = append(args, f.Status)
		q += ` AND status=$` + strconv.Itoa(len(args))
	}
	if f.Priority != "" {
		args = append(args, f.Priority)
		q += ` AND priority=$` + strconv.Itoa(len(args))
	}
	if f.Assignee == domain.AssigneeUnassigned {
		q += ` AND assignee=''`
	} else if f.Assignee != "" {
		args = append(args, f.Assignee)
		q += ` AND assignee=$` + strconv.Itoa(len(args))
	}
	if s := strings.TrimSpace(f.Search); s != "" {
		args = append(args, "%"+s+"%")
		n := strconv.Itoa(len(args))
		q += ` AND (title ILIKE $` + n + ` OR description ILIKE $` + n + ` OR ticket_key ILIKE $` + n + `)`
	}
	q += ` ORDER BY created_at DESC`

	rows, err := r.db.Pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []domain.Ticket
	for rows.Next() {
		t, err := scanTicket(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *t)
	}
	return out, rows.Err()
}

func (r *Repository) UpdateTicket(ctx context.Context, t domain.Ticket) error {
	const q = `UPDATE tickets SET title=$2, description=$3, status=$4, priority=$5, type=$6,
		assignee=$7, labels=$8, due_at=$9, updated_at=$10 WHERE id=$1`
	_, err := r.db.Pool.Exec(ctx, q, t.ID, t.Title, t.Description, t.Status, t.Priority, t.Type,
		t.Assignee, t.Labels, t.DueDate, t.UpdatedAt)
	return err
}

func (r *Repository) DeleteTicket(ctx context.Context, id string) error {
	_, err := r.db.Pool.Exec(ctx, `DELETE FROM tickets WHERE id=$1`, id)
	return err
}

// ---- comments ----

func (r *Repository) CreateComment(ctx context.Context, c domain.Comment) error {
	const q = `INSERT INTO comments(id, ticket_id, user_id, body, mentions, created_at, updated_at)
		VALUES($1,$2,$3,$4,$5,$6,$7)`
	_, err := r.db.Pool.Exec(ctx, q, c.ID, c.Ticket, c.User, c.Text, c.Mentions, c.CreatedAt, c.UpdatedAt)
	return err
}

func (r *Repository) CommentByID(ctx context.Context, id string) (*domain.Comment, error) {
	const q = `SELECT id, ticket_id, user_id, body, COALESCE(mentions,'{}'), created_at, updated_at
		FROM comments WHERE id=$1`
	var c domain.Comment
	err := r.db.Pool.QueryRow(ctx, q, id).Scan(&c.ID, &c.Ticket, &c.User, &c.Text, &c.Mentions, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *Repository) CommentsByTicket(ctx context.Context, ticketID string) ([]domain.Comment, error) {
	const q = `SELECT id, ticket_id, user_id, body, COALESCE(mentions,'{}'), created_at, updated_at
		FROM comments WHERE ticket_id=$1 ORDER BY created_at ASC`
	rows, err := r.db.Pool.Query(ctx, q, ticketID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []domain.Comment
	for rows.Next() {
		var c domain.Comment
		if err := rows.Scan(&c.ID, &c.Ticket, &c.User, &c.Text, &c.Mentions, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		if c.Mentions == nil {
			c.Mentions = []string{}
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *Repository) UpdateComment(ctx context.Context, c domain.Comment) error {
	const q = `UPDATE comments SET body=$2, mentions=$3, updated_at=$4 WHERE id=$1`
	_, err := r.db.Pool.Exec(ctx, q, c.ID, c.Text, c.Mentions, c.UpdatedAt)
	return err
}

func (r *Repository) DeleteComment(ctx context.Context, id string) error {
	_, err := r.db.Pool.Exec(ctx, `DELETE FROM comments WHERE id=$1`, id)
	return err
}

func (r *Repository) DeleteOrphanComments(ctx context.Context) (int64, error) {
	tag, err := r.db.Pool.Exec(ctx,
		`DELETE FROM comments c WHERE NOT EXISTS (SELECT 1 FROM tickets t WHERE t.id = c.ticket_id)`)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
