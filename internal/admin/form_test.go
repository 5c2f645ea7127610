package admin

import (
	"errors"
	"net/url"
	"reflect"
	"testing"
)

func TestSerialize(t *testing.T) {
	values := url.Values{
		"surname":      {"  Ivanov "},
		"firstname":    {"Ivan"},
		"fathers_name": {"   "},
		"birth_date":   {"1990-01-01"},
		"phone_number": {""},
		"email":        {""},
		"balance":      {"100.50"},
	}

	tests := []struct {
		name string
		mode FormMode
		want Payload
	}{
		{
			name: "create omits empty fields",
			mode: ModeCreate,
			want: Payload{"surname": "Ivanov", "firstname": "Ivan", "birth_date": "1990-01-01", "balance": 100.5},
		},
		{
			name: "edit sends empty fields as null",
			mode: ModeEdit,
			want: Payload{
				"surname": "Ivanov", "firstname": "Ivan", "birth_date": "1990-01-01", "balance": 100.5,
				"fathers_name": nil, "phone_number": nil, "pasport": nil, "email": nil,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Serialize(tt.mode, values)
			if err != nil {
				t.Fatalf("Serialize() error = %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Serialize() = %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestSerialize_BalanceIsNeverAString(t *testing.T) {
	for _, raw := range []string{"0", "-3", "1e3", " 42 ", "100.50"} {
		payload, err := Serialize(ModeCreate, url.Values{"balance": {raw}})
		if err != nil {
			t.Fatalf("Serialize(%q) error = %v", raw, err)
		}
		if _, ok := payload["balance"].(float64); !ok {
			t.Errorf("balance %q serialized as %T", raw, payload["balance"])
		}
	}

	for _, raw := range []string{"много", "NaN", "Inf", "-infinity", "+Inf"} {
		_, err := Serialize(ModeCreate, url.Values{"balance": {raw}})
		if !errors.Is(err, ErrValidation) || err.Error() != "Баланс должен быть числом" {
			t.Errorf("Serialize(%q) error = %v, want local balance validation error", raw, err)
		}
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		payload Payload
		wantErr bool
	}{
		{name: "complete", payload: Payload{"surname": "A", "firstname": "B", "birth_date": "1990-01-01"}},
		{name: "missing surname", payload: Payload{"firstname": "B", "birth_date": "1990-01-01"}, wantErr: true},
		{name: "null firstname", payload: Payload{"surname": "A", "firstname": nil, "birth_date": "1990-01-01"}, wantErr: true},
		{name: "empty birth date", payload: Payload{"surname": "A", "firstname": "B", "birth_date": ""}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.payload, RequiredFields)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && err.Error() != "Заполните обязательные поля: фамилия, имя, дата рождения." {
				t.Errorf("message = %q", err.Error())
			}
		})
	}
}

func TestParseMode(t *testing.T) {
	if ParseMode("edit") != ModeEdit {
		t.Error("edit should parse as ModeEdit")
	}
	for _, raw := range []string{"", "create", "EDIT", "view"} {
		if ParseMode(raw) != ModeCreate {
			t.Errorf("ParseMode(%q) should be create", raw)
		}
	}
}
