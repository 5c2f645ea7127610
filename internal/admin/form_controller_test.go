package admin

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"clients_admin/internal/apiclient"
	"clients_admin/internal/models"
)

func TestFormController_CreatePostsSerializedBody(t *testing.T) {
	var gotMethod, gotPath string
	var gotBody map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod, gotPath = r.Method, r.URL.Path
		raw, _ := io.ReadAll(r.Body)
		json.Unmarshal(raw, &gotBody)
		w.WriteHeader(http.StatusCreated)
		io.WriteString(w, `{"id":11,"surname":"Ivanov","firstname":"Ivan"}`)
	}))
	defer srv.Close()

	events := &recordingPublisher{}
	ctrl := NewFormController(apiclient.New(srv.URL, 0), events, LegacyCreateForm, ModeCreate, "", 800*time.Millisecond)
	page, err := ctrl.Submit(context.Background(), url.Values{
		"surname":    {"Ivanov"},
		"firstname":  {"Ivan"},
		"birth_date": {"1990-01-01"},
		"balance":    {"100.50"},
		"email":      {""},
	})
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}

	if gotMethod != http.MethodPost || gotPath != "/api/clients" {
		t.Errorf("request = %s %s", gotMethod, gotPath)
	}
	want := map[string]interface{}{"surname": "Ivanov", "firstname": "Ivan", "birth_date": "1990-01-01", "balance": 100.5}
	if len(gotBody) != len(want) {
		t.Errorf("body = %v, want %v", gotBody, want)
	}
	for k, v := range want {
		if gotBody[k] != v {
			t.Errorf("body[%s] = %v, want %v", k, gotBody[k], v)
		}
	}

	if !page.Saved || page.Message.Text != "Клиент создан. Окно закроется..." {
		t.Errorf("page = %+v", page)
	}
	if page.Notification != "client-added" || page.CloseAfter != 800*time.Millisecond {
		t.Errorf("notification = %q, close after %v", page.Notification, page.CloseAfter)
	}
	if len(events.events) != 1 || events.events[0] != (Event{Kind: EventCreated, ID: 11}) {
		t.Errorf("events = %+v", events.events)
	}
}

func TestFormController_EditClearedEmailIsNull(t *testing.T) {
	api := &fakeAPI{client: &models.Client{ID: 7, Surname: "Ivanov", Firstname: "Ivan", BirthDate: strPtr("1990-01-01"), Email: strPtr("old@example.com")}}
	events := &recordingPublisher{}
	ctrl := NewFormController(api, events, UnifiedForm, ModeEdit, "7", time.Second)

	opened := ctrl.Open(context.Background())
	if opened.Values.Get("email") != "old@example.com" || opened.Heading != "Ivanov Ivan" {
		t.Fatalf("form not pre-populated: %+v", opened)
	}

	values := opened.Values
	values.Set("email", "")
	page, err := ctrl.Submit(context.Background(), values)
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}

	calls := api.Calls()
	last := calls[len(calls)-1]
	if last.Method != "PUT" || last.ID != 7 {
		t.Fatalf("last call = %+v", last)
	}
	payload := last.Payload.(Payload)
	if v, ok := payload["email"]; !ok || v != nil {
		t.Errorf("email = %v (present %v), want explicit null", v, ok)
	}
	if page.Notification != "client-updated" || page.Message.Text != "Данные сохранены. Окно закроется..." {
		t.Errorf("page = %+v", page)
	}
	if len(events.events) != 1 || events.events[0] != (Event{Kind: EventUpdated, ID: 7}) {
		t.Errorf("events = %+v", events.events)
	}
}

func TestFormController_ValidationSkipsNetwork(t *testing.T) {
	cases := []url.Values{
		{"firstname": {"Ivan"}, "birth_date": {"1990-01-01"}},
		{"surname": {"Ivanov"}, "birth_date": {"1990-01-01"}},
		{"surname": {"Ivanov"}, "firstname": {"Ivan"}, "birth_date": {"  "}},
	}
	for _, mode := range []FormMode{ModeCreate, ModeEdit} {
		for i, values := range cases {
			api := &fakeAPI{}
			ctrl := NewFormController(api, nil, UnifiedForm, mode, "3", 0)
			page, err := ctrl.Submit(context.Background(), values)
			if err != nil {
				t.Fatalf("%s case %d: error = %v", mode, i, err)
			}
			if len(api.Calls()) != 0 {
				t.Errorf("%s case %d: validation failure reached the API: %+v", mode, i, api.Calls())
			}
			if page.Message.Text != "Заполните обязательные поля: фамилия, имя, дата рождения." || !page.Message.IsError {
				t.Errorf("%s case %d: message = %+v", mode, i, page.Message)
			}
			if page.Saved {
				t.Errorf("%s case %d: page marked saved", mode, i)
			}
		}
	}
}

func TestFormController_EditWithoutID(t *testing.T) {
	api := &fakeAPI{}
	ctrl := NewFormController(api, nil, UnifiedForm, ModeEdit, "", 0)

	page := ctrl.Open(context.Background())
	if !page.Disabled || page.Message.Text != "Не указан ID клиента" {
		t.Errorf("open page = %+v", page)
	}

	page, _ = ctrl.Submit(context.Background(), url.Values{"surname": {"A"}, "firstname": {"B"}, "birth_date": {"1990-01-01"}})
	if page.Message.Text != "Не указан ID клиента для редактирования." {
		t.Errorf("submit message = %+v", page.Message)
	}
	if len(api.Calls()) != 0 {
		t.Errorf("calls = %+v, want none", api.Calls())
	}
}

func TestFormController_LoadFailureKeepsFormUsable(t *testing.T) {
	api := &fakeAPI{getErr: &apiclient.APIError{StatusCode: 404, Message: "Клиент не найден"}}
	page := NewFormController(api, nil, LegacyEditForm, ModeEdit, "8", 0).Open(context.Background())

	if page.Message.Text != "Клиент не найден" || page.Disabled {
		t.Errorf("page = %+v", page)
	}
}

func TestFormController_SaveErrors(t *testing.T) {
	valid := url.Values{"surname": {"A"}, "firstname": {"B"}, "birth_date": {"1990-01-01"}}

	tests := []struct {
		name    string
		variant FormVariant
		mode    FormMode
		err     error
		want    string
	}{
		{name: "server text", variant: UnifiedForm, mode: ModeCreate, err: &apiclient.APIError{StatusCode: 400, Message: "Некорректный формат email"}, want: "Некорректный формат email"},
		{name: "create fallback", variant: LegacyCreateForm, mode: ModeCreate, err: errors.New("network down"), want: "Не удалось создать клиента"},
		{name: "update fallback", variant: LegacyEditForm, mode: ModeEdit, err: &apiclient.APIError{StatusCode: 502}, want: "Не удалось обновить клиента"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			events := &recordingPublisher{}
			api := &fakeAPI{saveErr: tt.err}
			page, err := NewFormController(api, events, tt.variant, tt.mode, "4", 0).Submit(context.Background(), valid)
			if err != nil {
				t.Fatalf("Submit() error = %v", err)
			}
			if page.Message.Text != tt.want || !page.Message.IsError || page.Saved {
				t.Errorf("page = %+v", page)
			}
			if len(events.events) != 0 {
				t.Errorf("failed save published %+v", events.events)
			}
		})
	}
}

func TestFormController_GateRejectsOverlap(t *testing.T) {
	api := &fakeAPI{block: make(chan struct{}), entered: make(chan struct{}, 1)}
	ctrl := NewFormController(api, nil, UnifiedForm, ModeCreate, "", 0)
	valid := url.Values{"surname": {"A"}, "firstname": {"B"}, "birth_date": {"1990-01-01"}}

	first := make(chan FormPage, 1)
	go func() {
		page, _ := ctrl.Submit(context.Background(), valid)
		first <- page
	}()

	select {
	case <-api.entered:
	case <-time.After(time.Second):
		t.Fatal("first submission never reached the API")
	}

	if _, err := ctrl.Submit(context.Background(), valid); !errors.Is(err, ErrSubmitInProgress) {
		t.Fatalf("overlapping Submit() error = %v, want ErrSubmitInProgress", err)
	}

	close(api.block)
	select {
	case page := <-first:
		if !page.Saved {
			t.Errorf("first submission page = %+v", page)
		}
	case <-time.After(time.Second):
		t.Fatal("first submission never settled")
	}

	// The gate is open again once the request settles.
	api.block = nil
	if _, err := ctrl.Submit(context.Background(), valid); err != nil {
		t.Errorf("Submit() after settle error = %v", err)
	}
}

func TestFormController_NonFiniteBalanceNeverSent(t *testing.T) {
	hits := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.WriteHeader(http.StatusCreated)
		io.WriteString(w, `{"id":1}`)
	}))
	defer srv.Close()

	for _, balance := range []string{"NaN", "Inf", "-Inf"} {
		ctrl := NewFormController(apiclient.New(srv.URL, 0), nil, UnifiedForm, ModeCreate, "", 0)
		page, err := ctrl.Submit(context.Background(), url.Values{
			"surname":    {"Ivanov"},
			"firstname":  {"Ivan"},
			"birth_date": {"1990-01-01"},
			"balance":    {balance},
		})
		if err != nil {
			t.Fatalf("Submit(%q) error = %v", balance, err)
		}
		if page.Message.Text != "Баланс должен быть числом" || !page.Message.IsError || page.Saved {
			t.Errorf("balance %q: page = %+v", balance, page)
		}
	}
	if hits != 0 {
		t.Errorf("server received %d requests, want none", hits)
	}
}
