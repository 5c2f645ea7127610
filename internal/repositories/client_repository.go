package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"clients_admin/internal/models"

	"github.com/lib/pq" // For pq.Error
)

const birthDateLayout = "2006-01-02"

const clientColumns = `id, surname, firstname, fathers_name, birth_date, phone_number, pasport, email, balance`

// ClientRepository defines the interface for client-related database operations.
type ClientRepository interface {
	CreateClient(executor SQLExecutor, client *models.Client) (int64, error)
	GetClientByID(id int64) (*models.Client, error)
	GetClients(filter models.ClientFilter) ([]models.Client, error)
	UpdateClient(executor SQLExecutor, client *models.Client) error
	DeleteClient(executor SQLExecutor, id int64) error
}

type clientRepository struct {
	db *sql.DB
}

// NewClientRepository creates a new instance of ClientRepository.
func NewClientRepository(db *sql.DB) ClientRepository {
	return &clientRepository{db: db}
}

func scanClient(row scanner) (*models.Client, error) {
	client := &models.Client{}
	var birthDate sql.NullTime
	var balance sql.NullFloat64
	if err := row.Scan(
		&client.ID, &client.Surname, &client.Firstname, &client.FathersName, &birthDate,
		&client.PhoneNumber, &client.Pasport, &client.Email, &balance,
	); err != nil {
		return nil, err
	}
	if birthDate.Valid {
		formatted := birthDate.Time.Format(birthDateLayout)
		client.BirthDate = &formatted
	}
	if balance.Valid {
		client.Balance = &balance.Float64
	}
	return client, nil
}

// translatePQError maps driver errors onto the repository sentinels.
func translatePQError(err error, action string) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code.Name() {
		case "unique_violation":
			return fmt.Errorf("%w: %s (constraint: %s)", ErrDuplicateKey, pqErr.Message, pqErr.Constraint)
		case "not_null_violation", "check_violation", "invalid_datetime_format", "datetime_field_overflow", "string_data_right_truncation", "numeric_value_out_of_range":
			return fmt.Errorf("%w: %s", ErrConstraint, pqErr.Message)
		}
	}
	return fmt.Errorf("%w: %s: %v", ErrDatabaseError, action, err)
}

// CreateClient inserts a new client into the database.
func (r *clientRepository) CreateClient(executor SQLExecutor, client *models.Client) (int64, error) {
	query := `INSERT INTO clients (surname, firstname, fathers_name, birth_date, phone_number, pasport, email, balance)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	          RETURNING id`

	err := executor.QueryRow(query,
		client.Surname, client.Firstname, client.FathersName, client.BirthDate,
		client.PhoneNumber, client.Pasport, client.Email, client.Balance,
	).Scan(&client.ID)
	if err != nil {
		return 0, translatePQError(err, "creating client")
	}
	return client.ID, nil
}

// GetClientByID retrieves a client by their ID.
func (r *clientRepository) GetClientByID(id int64) (*models.Client, error) {
	query := `SELECT ` + clientColumns + ` FROM clients WHERE id = $1`

	client, err := scanClient(r.db.QueryRow(query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting client by ID %d: %v", ErrDatabaseError, id, err)
	}
	return client, nil
}

// buildClientListQuery renders the list query with one condition per set filter criterion.
func buildClientListQuery(filter models.ClientFilter) (string, []interface{}) {
	var queryBuilder strings.Builder
	queryBuilder.WriteString(`SELECT ` + clientColumns + ` FROM clients`)

	var conditions []string
	var args []interface{}
	argCount := 1

	// Rows without a balance never satisfy a balance bound.
	if filter.MinBalance != nil {
		conditions = append(conditions, fmt.Sprintf("(balance IS NOT NULL AND balance >= $%d)", argCount))
		args = append(args, *filter.MinBalance)
		argCount++
	}
	if filter.MaxBalance != nil {
		conditions = append(conditions, fmt.Sprintf("(balance IS NOT NULL AND balance <= $%d)", argCount))
		args = append(args, *filter.MaxBalance)
		argCount++
	}
	if filter.HasEmail != nil {
		if *filter.HasEmail {
			conditions = append(conditions, "(email IS NOT NULL AND email <> '')")
		} else {
			conditions = append(conditions, "(email IS NULL OR email = '')")
		}
	}
	if filter.SurnamePrefix != nil && *filter.SurnamePrefix != "" {
		conditions = append(conditions, fmt.Sprintf(`LOWER(surname) LIKE $%d ESCAPE '\'`, argCount))
		args = append(args, escapeLike(strings.ToLower(*filter.SurnamePrefix))+"%")
		argCount++
	}

	if len(conditions) > 0 {
		queryBuilder.WriteString(" WHERE " + strings.Join(conditions, " AND "))
	}
	queryBuilder.WriteString(" ORDER BY id ASC")

	return queryBuilder.String(), args
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

// GetClients retrieves all clients matching the filter, ordered by id.
func (r *clientRepository) GetClients(filter models.ClientFilter) ([]models.Client, error) {
	clients := []models.Client{}

	query, args := buildClientListQuery(filter)
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: querying clients: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	for rows.Next() {
		client, err := scanClient(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanning client: %v", ErrDatabaseError, err)
		}
		clients = append(clients, *client)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating client rows: %v", ErrDatabaseError, err)
	}
	return clients, nil
}

// UpdateClient replaces every editable field of an existing client.
func (r *clientRepository) UpdateClient(executor SQLExecutor, client *models.Client) error {
	query := `UPDATE clients SET
	            surname = $1, firstname = $2, fathers_name = $3, birth_date = $4,
	            phone_number = $5, pasport = $6, email = $7, balance = $8
	          WHERE id = $9`

	result, err := executor.Exec(query,
		client.Surname, client.Firstname, client.FathersName, client.BirthDate,
		client.PhoneNumber, client.Pasport, client.Email, client.Balance, client.ID,
	)
	if err != nil {
		return translatePQError(err, fmt.Sprintf("updating client ID %d", client.ID))
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: getting rows affected for updating client ID %d: %v", ErrDatabaseError, client.ID, err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteClient removes a client from the database.
func (r *clientRepository) DeleteClient(executor SQLExecutor, id int64) error {
	query := `DELETE FROM clients WHERE id = $1`
	result, err := executor.Exec(query, id)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23503" { // foreign_key_violation
			return fmt.Errorf("%w: client ID %d is referenced by other records (constraint: %s)", ErrConstraint, id, pqErr.Constraint)
		}
		return fmt.Errorf("%w: deleting client ID %d: %v", ErrDatabaseError, id, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: getting rows affected for deleting client ID %d: %v", ErrDatabaseError, id, err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
