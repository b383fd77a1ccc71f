package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"field-tech-api/internal/model"
	"field-tech-api/internal/util"
)

const clientColumns = `c.cpf, c.name, c.phone, c.birth_date, c.cep, c.city, c.address, c.number,
	c.complement, c.plan_id, c.pppoe, c.pppoe_password, c.due_day, c.observation,
	c.installer, c.status, c.active, c.serial, c.contract, c.latitude, c.longitude,
	c.accuracy, c.created_at, c.updated_at`

type ClientRepository struct {
	pool *pgxpool.Pool
}

func NewClientRepository(pool *pgxpool.Pool) *ClientRepository {
	return &ClientRepository{pool: pool}
}

func (r *ClientRepository) Exists(ctx context.Context, cpf string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM clients WHERE cpf = $1)`, cpf).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check client exists: %w", err)
	}
	return exists, nil
}

// Insert stores a fully defaulted client. A duplicate cpf, including one
// that slipped past an earlier existence check, yields ErrClientAlreadyExists.
func (r *ClientRepository) Insert(ctx context.Context, c model.Client) error {
	var birthDate *time.Time
	if c.BirthDate != nil {
		parsed, err := time.Parse(time.DateOnly, *c.BirthDate)
		if err != nil {
			return fmt.Errorf("parse birth date: %w", err)
		}
		birthDate = &parsed
	}

	_, err := r.pool.Exec(ctx,
		`INSERT INTO clients
		 (cpf, name, phone, birth_date, cep, city, address, number, complement, plan_id,
		  pppoe, pppoe_password, due_day, observation, installer, status, active,
		  serial, contract, latitude, longitude, accuracy, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16,
		         $17, $18, $19, $20, $21, $22, $23)`,
		c.CPF, c.Name, c.Phone, birthDate, c.CEP, c.City, c.Address, c.Number, c.Complement,
		c.PlanID, c.PPPoE, c.PPPoEPassword, c.DueDay, c.Observation, c.Installer, c.Status,
		c.Active, c.Serial, c.Contract, c.Latitude, c.Longitude, c.Accuracy, c.CreatedAt)
	if isUniqueViolation(err) {
		return model.ErrClientAlreadyExists
	}
	if err != nil {
		return fmt.Errorf("insert client: %w", err)
	}
	return nil
}

// FindByCPF returns the client when it exists and is visible under scope.
func (r *ClientRepository) FindByCPF(ctx context.Context, cpf string, scope model.Scope) (model.Client, error) {
	b := &whereBuilder{}
	b.add("c.cpf = $%d", cpf)
	applyScope(b, scope, "c")

	row := r.pool.QueryRow(ctx, fmt.Sprintf(`SELECT %s FROM clients c %s`, clientColumns, b.String()), b.args...)
	client, err := scanClient(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Client{}, model.ErrClientNotFound
	}
	if err != nil {
		return model.Client{}, fmt.Errorf("find client: %w", err)
	}
	return client, nil
}

// Search pages through clients matching the term within scope. The count
// and the page share the same predicate.
func (r *ClientRepository) Search(ctx context.Context, query model.ClientQuery) ([]model.Client, int, error) {
	b := &whereBuilder{}
	applySearchTerm(b, query.Term)
	applyScope(b, query.Scope, "c")
	where := b.String()

	var total int
	if err := r.pool.QueryRow(ctx, fmt.Sprintf(`SELECT COUNT(*) FROM clients c %s`, where), b.args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count clients: %w", err)
	}

	limitIdx := b.next(query.Limit)
	offsetIdx := b.next((query.Page - 1) * query.Limit)

	rows, err := r.pool.Query(ctx, fmt.Sprintf(
		`SELECT %s FROM clients c %s ORDER BY c.created_at DESC, c.cpf LIMIT $%d OFFSET $%d`,
		clientColumns, where, limitIdx, offsetIdx), b.args...)
	if err != nil {
		return nil, 0, fmt.Errorf("search clients: %w", err)
	}
	defer rows.Close()

	clients := make([]model.Client, 0)
	for rows.Next() {
		client, err := scanClient(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan client: %w", err)
		}
		clients = append(clients, client)
	}

	return clients, total, rows.Err()
}

func applySearchTerm(b *whereBuilder, term string) {
	term = strings.TrimSpace(term)
	if term == "" {
		return
	}

	pattern := "%" + escapeLike(term) + "%"
	digits := util.OnlyDigits(term)
	if digits == "" {
		b.add("(c.name ILIKE $%[1]d OR c.phone ILIKE $%[1]d OR c.city ILIKE $%[1]d OR c.cpf LIKE $%[1]d)", pattern)
		return
	}

	b.args = append(b.args, pattern, "%"+digits+"%")
	n := len(b.args)
	b.clauses = append(b.clauses, fmt.Sprintf(
		"(c.name ILIKE $%[1]d OR c.phone ILIKE $%[1]d OR c.city ILIKE $%[1]d OR c.cpf LIKE $%[2]d OR regexp_replace(COALESCE(c.phone, ''), '\\D', '', 'g') LIKE $%[2]d)",
		n-1, n))
}

// Update applies the non-nil fields of patch. Column names come from a
// fixed list in patchAssignments, never from input.
func (r *ClientRepository) Update(ctx context.Context, cpf string, patch model.ClientPatch, at time.Time) error {
	sets, args := patchAssignments(patch)
	if len(sets) == 0 {
		return model.ErrNothingToUpdate
	}

	args = append(args, at)
	sets = append(sets, fmt.Sprintf("updated_at = $%d", len(args)))
	args = append(args, cpf)

	tag, err := r.pool.Exec(ctx, fmt.Sprintf(`UPDATE clients SET %s WHERE cpf = $%d`,
		strings.Join(sets, ", "), len(args)), args...)
	if err != nil {
		return fmt.Errorf("update client: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrClientNotFound
	}
	return nil
}

func patchAssignments(p model.ClientPatch) ([]string, []any) {
	sets := make([]string, 0, 18)
	args := make([]any, 0, 18)

	set := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if p.Name != nil {
		set("name", *p.Name)
	}
	if p.Phone != nil {
		set("phone", *p.Phone)
	}
	if p.BirthDate != nil {
		set("birth_date", *p.BirthDate)
	}
	if p.CEP != nil {
		set("cep", *p.CEP)
	}
	if p.City != nil {
		set("city", *p.City)
	}
	if p.Address != nil {
		set("address", *p.Address)
	}
	if p.Number != nil {
		set("number", *p.Number)
	}
	if p.Complement != nil {
		set("complement", *p.Complement)
	}
	if p.PlanID != nil {
		set("plan_id", *p.PlanID)
	}
	if p.PPPoE != nil {
		set("pppoe", *p.PPPoE)
	}
	if p.PPPoEPassword != nil {
		set("pppoe_password", *p.PPPoEPassword)
	}
	if p.DueDay != nil {
		set("due_day", *p.DueDay)
	}
	if p.Installer != nil {
		set("installer", *p.Installer)
	}
	if p.Observation != nil {
		set("observation", *p.Observation)
	}
	if p.Status != nil {
		set("status", *p.Status)
	}
	if p.Active != nil {
		set("active", *p.Active)
	}
	if p.Serial != nil {
		set("serial", *p.Serial)
	}
	if p.Contract != nil {
		set("contract", *p.Contract)
	}

	return sets, args
}

func (r *ClientRepository) Delete(ctx context.Context, cpf string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM clients WHERE cpf = $1`, cpf)
	if err != nil {
		return fmt.Errorf("delete client: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrClientNotFound
	}
	return nil
}

func scanClient(row pgx.Row) (model.Client, error) {
	var c model.Client
	var birthDate *time.Time

	err := row.Scan(&c.CPF, &c.Name, &c.Phone, &birthDate, &c.CEP, &c.City, &c.Address, &c.Number,
		&c.Complement, &c.PlanID, &c.PPPoE, &c.PPPoEPassword, &c.DueDay, &c.Observation,
		&c.Installer, &c.Status, &c.Active, &c.Serial, &c.Contract, &c.Latitude, &c.Longitude,
		&c.Accuracy, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return model.Client{}, err
	}

	if birthDate != nil {
		formatted := birthDate.Format(time.DateOnly)
		c.BirthDate = &formatted
	}

	return c, nil
}
