package services

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"clients_admin/internal/models"
	"clients_admin/internal/repositories"
	"clients_admin/pkg/utils"

	"github.com/go-playground/validator/v10"
)

// --- Custom Service Errors for Client ---
var (
	ErrClientNotFound   = errors.New("client not found")
	ErrClientValidation = errors.New("client data validation error")
	ErrClientInUse      = errors.New("client cannot be deleted as they are referenced in other records")
)

const birthDateLayout = "2006-01-02"

// legacyBirthDateLayout is accepted on input and normalized to birthDateLayout.
const legacyBirthDateLayout = "02.01.2006"

// ValidationError carries a message that is safe to show to the user.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func (e *ValidationError) Unwrap() error { return ErrClientValidation }

// ClientRequest is the body of both create and full-update requests.
// Absent and null fields are treated alike: the stored value becomes NULL.
type ClientRequest struct {
	Surname     *string  `json:"surname"`
	Firstname   *string  `json:"firstname"`
	FathersName *string  `json:"fathers_name"`
	BirthDate   *string  `json:"birth_date"`
	PhoneNumber *string  `json:"phone_number"`
	Pasport     *string  `json:"pasport"`
	Email       *string  `json:"email"`
	Balance     *float64 `json:"balance"`
}

// clientInput is the normalized request the validator runs against.
type clientInput struct {
	Surname     string `validate:"required,max=100,excludesall=0123456789"`
	Firstname   string `validate:"required,max=100,excludesall=0123456789"`
	FathersName string `validate:"omitempty,max=100,excludesall=0123456789"`
	BirthDate   string `validate:"required"`
	PhoneNumber string `validate:"omitempty,max=32"`
	Pasport     string `validate:"omitempty,max=32"`
	Email       string `validate:"omitempty,email,max=255"`
}

var fieldLabels = map[string]string{
	"Surname":     "фамилия",
	"Firstname":   "имя",
	"FathersName": "отчество",
	"BirthDate":   "дата рождения",
	"PhoneNumber": "телефон",
	"Pasport":     "паспорт",
	"Email":       "email",
}

// --- ClientService Interface ---
type ClientService interface {
	CreateClient(req ClientRequest) (*models.Client, error)
	GetClientByID(clientID int64) (*models.Client, error)
	GetClients(filter models.ClientFilter) ([]models.Client, error)
	UpdateClient(clientID int64, req ClientRequest) (*models.Client, error)
	DeleteClient(clientID int64) error
}

type clientService struct {
	clientRepo repositories.ClientRepository
	db         *sql.DB
	validate   *validator.Validate
	now        func() time.Time
}

// NewClientService creates a new instance of ClientService.
func NewClientService(repo repositories.ClientRepository, db *sql.DB) ClientService {
	return &clientService{
		clientRepo: repo,
		db:         db,
		validate:   validator.New(),
		now:        time.Now,
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return strings.TrimSpace(*s)
}

// buildClient validates req and turns it into a storable client.
func (s *clientService) buildClient(req ClientRequest) (*models.Client, error) {
	input := clientInput{
		Surname:     deref(req.Surname),
		Firstname:   deref(req.Firstname),
		FathersName: deref(req.FathersName),
		BirthDate:   deref(req.BirthDate),
		PhoneNumber: deref(req.PhoneNumber),
		Pasport:     deref(req.Pasport),
		Email:       deref(req.Email),
	}

	if err := s.validate.Struct(input); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			return nil, translateFieldError(fieldErrs[0])
		}
		return nil, fmt.Errorf("%w: %v", ErrClientValidation, err)
	}

	birthDate, err := s.parseBirthDate(input.BirthDate)
	if err != nil {
		return nil, err
	}

	return &models.Client{
		Surname:     input.Surname,
		Firstname:   input.Firstname,
		FathersName: utils.NewNullString(input.FathersName),
		BirthDate:   &birthDate,
		PhoneNumber: utils.NewNullString(input.PhoneNumber),
		Pasport:     utils.NewNullString(input.Pasport),
		Email:       utils.NewNullString(strings.ToLower(input.Email)),
		Balance:     req.Balance,
	}, nil
}

func translateFieldError(fe validator.FieldError) error {
	label := fieldLabels[fe.Field()]
	var msg string
	switch fe.Tag() {
	case "required":
		msg = "Заполните обязательные поля: фамилия, имя, дата рождения."
	case "excludesall":
		msg = fmt.Sprintf("Поле «%s» не должно содержать цифр", label)
	case "email":
		msg = "Некорректный формат email"
	case "max":
		msg = fmt.Sprintf("Поле «%s» слишком длинное", label)
	default:
		msg = fmt.Sprintf("Некорректное значение поля «%s»", label)
	}
	return &ValidationError{Field: fe.Field(), Message: msg}
}

// parseBirthDate accepts YYYY-MM-DD or DD.MM.YYYY and returns YYYY-MM-DD.
func (s *clientService) parseBirthDate(raw string) (string, error) {
	dob, err := time.Parse(birthDateLayout, raw)
	if err != nil {
		dob, err = time.Parse(legacyBirthDateLayout, raw)
		if err != nil {
			return "", &ValidationError{Field: "BirthDate", Message: "Неверный формат даты. Используйте ГГГГ-ММ-ДД"}
		}
	}
	if dob.After(s.now()) {
		return "", &ValidationError{Field: "BirthDate", Message: "Дата рождения не может быть в будущем"}
	}
	return dob.Format(birthDateLayout), nil
}

func (s *clientService) CreateClient(req ClientRequest) (*models.Client, error) {
	client, err := s.buildClient(req)
	if err != nil {
		return nil, err
	}

	id, err := s.clientRepo.CreateClient(s.db, client)
	if err != nil {
		if errors.Is(err, repositories.ErrConstraint) || errors.Is(err, repositories.ErrDuplicateKey) {
			return nil, &ValidationError{Message: "Данные клиента отклонены базой данных"}
		}
		return nil, fmt.Errorf("failed to create client in repository: %w", err)
	}
	return s.clientRepo.GetClientByID(id)
}

func (s *clientService) GetClientByID(clientID int64) (*models.Client, error) {
	client, err := s.clientRepo.GetClientByID(clientID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrClientNotFound
		}
		return nil, fmt.Errorf("failed to get client by ID: %w", err)
	}
	return client, nil
}

func (s *clientService) GetClients(filter models.ClientFilter) ([]models.Client, error) {
	if filter.MinBalance != nil && filter.MaxBalance != nil && *filter.MinBalance > *filter.MaxBalance {
		return []models.Client{}, nil
	}
	clients, err := s.clientRepo.GetClients(filter)
	if err != nil {
		return nil, fmt.Errorf("failed to get clients: %w", err)
	}
	return clients, nil
}

// UpdateClient replaces every editable field of the client.
func (s *clientService) UpdateClient(clientID int64, req ClientRequest) (*models.Client, error) {
	client, err := s.buildClient(req)
	if err != nil {
		return nil, err
	}
	client.ID = clientID

	err = s.clientRepo.UpdateClient(s.db, client)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrClientNotFound
		}
		if errors.Is(err, repositories.ErrConstraint) || errors.Is(err, repositories.ErrDuplicateKey) {
			return nil, &ValidationError{Message: "Данные клиента отклонены базой данных"}
		}
		return nil, fmt.Errorf("failed to update client in repository: %w", err)
	}
	return s.clientRepo.GetClientByID(clientID)
}

func (s *clientService) DeleteClient(clientID int64) error {
	err := s.clientRepo.DeleteClient(s.db, clientID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrClientNotFound
		}
		if errors.Is(err, repositories.ErrConstraint) {
			return ErrClientInUse
		}
		return fmt.Errorf("failed to delete client: %w", err)
	}
	return nil
}
