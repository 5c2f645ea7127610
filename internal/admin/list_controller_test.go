package admin

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"clients_admin/internal/apiclient"
	"clients_admin/internal/models"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func TestListController_Load(t *testing.T) {
	t.Run("no clients", func(t *testing.T) {
		api := &fakeAPI{clients: []models.Client{}}
		page := NewListController(api, FullListVariant).Load(context.Background(), ListFilter{})

		if len(page.Rows) != 0 {
			t.Errorf("rows = %d, want 0", len(page.Rows))
		}
		if page.Message.Text != "Клиенты не найдены" || page.Message.IsError {
			t.Errorf("message = %+v", page.Message)
		}
	})

	t.Run("rows with placeholders", func(t *testing.T) {
		api := &fakeAPI{clients: []models.Client{
			{ID: 1, Surname: "Ivanov", Firstname: "Ivan", Email: strPtr("ivan@example.com"), BirthDate: strPtr("1990-01-01")},
			{ID: 2, Surname: "Petrov", Firstname: "Petr"},
		}}
		page := NewListController(api, ListVariant{}).Load(context.Background(), ListFilter{HasEmail: true})

		if !page.Message.Hidden() {
			t.Errorf("message should be hidden, got %+v", page.Message)
		}
		if len(page.Rows) != 2 {
			t.Fatalf("rows = %d, want 2", len(page.Rows))
		}
		if page.Rows[0].Email != "ivan@example.com" || page.Rows[0].BirthDate != "1990-01-01" {
			t.Errorf("row 0 = %+v", page.Rows[0])
		}
		if page.Rows[1].Email != Placeholder || page.Rows[1].BirthDate != Placeholder {
			t.Errorf("row 1 = %+v", page.Rows[1])
		}
		if page.Rows[0].CanEdit || page.Rows[0].CanDelete {
			t.Errorf("read-only variant should not offer edit/delete")
		}
		if got := api.Calls()[0].Query.Encode(); got != "has_email=true" {
			t.Errorf("query = %q", got)
		}
	})

	t.Run("failure", func(t *testing.T) {
		api := &fakeAPI{listErr: &apiclient.APIError{StatusCode: 500, Message: "boom"}}
		page := NewListController(api, FullListVariant).Load(context.Background(), ListFilter{})

		if page.Message.Text != "Не удалось загрузить список клиентов" || !page.Message.IsError {
			t.Errorf("message = %+v", page.Message)
		}
	})
}

func TestListController_Delete(t *testing.T) {
	t.Run("confirmed", func(t *testing.T) {
		api := &fakeAPI{clients: []models.Client{{ID: 1, Surname: "Ivanov", Firstname: "Ivan"}}}
		page := NewListController(api, FullListVariant).Delete(context.Background(), 5, true, ListFilter{})

		calls := api.Calls()
		if len(calls) != 2 || calls[0].Method != "DELETE" || calls[0].ID != 5 || calls[1].Method != "GET" {
			t.Fatalf("calls = %+v, want DELETE 5 then reload", calls)
		}
		if page.Message.Text != "Клиент удален" || page.Message.IsError {
			t.Errorf("message = %+v", page.Message)
		}
		if len(page.Rows) != 1 {
			t.Errorf("rows = %d, want reloaded list", len(page.Rows))
		}
	})

	t.Run("not confirmed", func(t *testing.T) {
		api := &fakeAPI{clients: []models.Client{}}
		NewListController(api, FullListVariant).Delete(context.Background(), 5, false, ListFilter{})

		for _, call := range api.Calls() {
			if call.Method == "DELETE" {
				t.Fatalf("unconfirmed delete issued a DELETE")
			}
		}
	})

	t.Run("server error text", func(t *testing.T) {
		api := &fakeAPI{clients: []models.Client{}, deleteErr: &apiclient.APIError{StatusCode: 404, Message: "Клиент не найден"}}
		page := NewListController(api, FullListVariant).Delete(context.Background(), 5, true, ListFilter{})

		if page.Message.Text != "Клиент не найден" || !page.Message.IsError {
			t.Errorf("message = %+v", page.Message)
		}
	})

	t.Run("delete and reload both fail", func(t *testing.T) {
		var buf bytes.Buffer
		prevLogger, prevLevel := log.Logger, zerolog.GlobalLevel()
		log.Logger = zerolog.New(&buf)
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
		defer func() {
			log.Logger = prevLogger
			zerolog.SetGlobalLevel(prevLevel)
		}()

		api := &fakeAPI{
			listErr:   errors.New("connection reset"),
			deleteErr: &apiclient.APIError{StatusCode: 500, Message: "Ошибка базы данных"},
		}
		page := NewListController(api, FullListVariant).Delete(context.Background(), 5, true, ListFilter{})

		if page.Message.Text != "Не удалось загрузить список клиентов" {
			t.Errorf("message = %+v, want the load failure", page.Message)
		}
		logged := buf.String()
		if !strings.Contains(logged, "Client delete failed") || !strings.Contains(logged, "Ошибка базы данных") {
			t.Errorf("delete failure not logged: %s", logged)
		}
	})

	t.Run("generic fallback", func(t *testing.T) {
		api := &fakeAPI{clients: []models.Client{}, deleteErr: errors.New("dial tcp: refused")}
		page := NewListController(api, FullListVariant).Delete(context.Background(), 5, true, ListFilter{})

		if page.Message.Text != "Не удалось удалить клиента" {
			t.Errorf("message = %+v", page.Message)
		}
	})
}

func TestListController_Reset(t *testing.T) {
	api := &fakeAPI{clients: []models.Client{}}
	NewListController(api, FullListVariant).Reset(context.Background())

	if q := api.Calls()[0].Query; len(q) != 0 {
		t.Errorf("reset should load unfiltered, query = %v", q)
	}
}

func TestListController_Watch(t *testing.T) {
	broker := NewBroker(4)
	events, cancel := broker.Subscribe()
	defer cancel()

	ctx, stop := context.WithCancel(context.Background())
	reloads := make(chan Event, 4)
	done := make(chan struct{})
	go func() {
		NewListController(&fakeAPI{}, FullListVariant).Watch(ctx, events, func(e Event) { reloads <- e })
		close(done)
	}()

	broker.Publish(Event{Kind: EventCreated, ID: 1})
	broker.Publish(Event{Kind: EventKind(42), ID: 2})
	broker.Publish(Event{Kind: EventUpdated, ID: 3})

	for _, want := range []int64{1, 3} {
		select {
		case got := <-reloads:
			if got.ID != want {
				t.Errorf("reload for %d, want %d", got.ID, want)
			}
		case <-time.After(time.Second):
			t.Fatalf("no reload for event %d", want)
		}
	}

	stop()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Watch did not return after cancel")
	}
}
