package admin

import (
	"errors"
	"math"
	"net/url"
	"strings"

	"clients_admin/pkg/utils"
)

// FormMode selects between creating a new client and editing an existing one.
type FormMode int

const (
	ModeCreate FormMode = iota
	ModeEdit
)

func (m FormMode) String() string {
	if m == ModeEdit {
		return "edit"
	}
	return "create"
}

// ParseMode reads the "mode" query parameter. Anything but "edit" means create.
func ParseMode(raw string) FormMode {
	if raw == "edit" {
		return ModeEdit
	}
	return ModeCreate
}

// FormFields lists the editable client fields in form order.
var FormFields = []string{
	"surname",
	"firstname",
	"fathers_name",
	"birth_date",
	"phone_number",
	"pasport",
	"email",
	"balance",
}

// RequiredFields must be present after serialization.
var RequiredFields = []string{"surname", "firstname", "birth_date"}

var (
	ErrValidation = errors.New("form validation failed")
	ErrMissingID  = errors.New("client id is missing")
)

const (
	msgRequiredFields  = "Заполните обязательные поля: фамилия, имя, дата рождения."
	msgBalanceNotANum  = "Баланс должен быть числом"
	msgInvalidClientID = "Некорректный идентификатор клиента"
)

// FormError is a local failure whose Message is shown as-is.
type FormError struct {
	Err     error
	Message string
}

func (e *FormError) Error() string { return e.Message }

func (e *FormError) Unwrap() error { return e.Err }

// Payload is the JSON body of a create or update request. A key mapped to nil is
// sent as an explicit null.
type Payload map[string]interface{}

// Serialize converts form values field by field: values are trimmed, empty values are
// omitted in create mode and set to null in edit mode, and a non-empty balance becomes
// a number.
func Serialize(mode FormMode, values url.Values) (Payload, error) {
	payload := Payload{}
	for _, field := range FormFields {
		trimmed := strings.TrimSpace(values.Get(field))
		if trimmed == "" {
			if mode == ModeEdit {
				payload[field] = nil
			}
			continue
		}
		if field == "balance" {
			balance, err := utils.StrToFloat64(trimmed)
			if err != nil || math.IsNaN(balance) || math.IsInf(balance, 0) {
				return nil, &FormError{Err: ErrValidation, Message: msgBalanceNotANum}
			}
			payload[field] = balance
			continue
		}
		payload[field] = trimmed
	}
	return payload, nil
}

// Validate checks that every required field carries a non-empty value.
func Validate(payload Payload, required []string) error {
	for _, field := range required {
		value, ok := payload[field]
		if !ok || value == nil {
			return &FormError{Err: ErrValidation, Message: msgRequiredFields}
		}
		if s, isString := value.(string); isString && s == "" {
			return &FormError{Err: ErrValidation, Message: msgRequiredFields}
		}
	}
	return nil
}

// formValues renders a loaded client back into form values.
func formValues(surname, firstname string, optional map[string]*string, balance *float64) url.Values {
	values := url.Values{}
	values.Set("surname", surname)
	values.Set("firstname", firstname)
	for field, value := range optional {
		if value != nil {
			values.Set(field, *value)
		} else {
			values.Set(field, "")
		}
	}
	if balance != nil {
		values.Set("balance", utils.Float64ToStr(*balance))
	} else {
		values.Set("balance", "")
	}
	return values
}
