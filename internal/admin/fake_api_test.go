package admin

import (
	"context"
	"net/url"
	"sync"

	"clients_admin/internal/models"
)

type apiCall struct {
	Method  string
	ID      int64
	Query   url.Values
	Payload interface{}
}

// fakeAPI records every call and answers from its fields.
type fakeAPI struct {
	mu    sync.Mutex
	calls []apiCall

	clients   []models.Client
	client    *models.Client
	listErr   error
	getErr    error
	saveErr   error
	deleteErr error

	// block, when set, stalls saves until it is closed.
	block   chan struct{}
	entered chan struct{}
}

func (f *fakeAPI) record(call apiCall) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call)
}

func (f *fakeAPI) Calls() []apiCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]apiCall(nil), f.calls...)
}

func (f *fakeAPI) ListClients(_ context.Context, query url.Values) ([]models.Client, error) {
	f.record(apiCall{Method: "GET", Query: query})
	return f.clients, f.listErr
}

func (f *fakeAPI) GetClient(_ context.Context, id int64) (*models.Client, error) {
	f.record(apiCall{Method: "GET", ID: id})
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.client, nil
}

func (f *fakeAPI) save(call apiCall) (*models.Client, error) {
	f.record(call)
	if f.block != nil {
		if f.entered != nil {
			f.entered <- struct{}{}
		}
		<-f.block
	}
	if f.saveErr != nil {
		return nil, f.saveErr
	}
	return &models.Client{ID: 99}, nil
}

func (f *fakeAPI) CreateClient(_ context.Context, payload interface{}) (*models.Client, error) {
	return f.save(apiCall{Method: "POST", Payload: payload})
}

func (f *fakeAPI) UpdateClient(_ context.Context, id int64, payload interface{}) (*models.Client, error) {
	return f.save(apiCall{Method: "PUT", ID: id, Payload: payload})
}

func (f *fakeAPI) DeleteClient(_ context.Context, id int64) error {
	f.record(apiCall{Method: "DELETE", ID: id})
	return f.deleteErr
}

type recordingPublisher struct {
	events []Event
}

func (p *recordingPublisher) Publish(e Event) { p.events = append(p.events, e) }

func strPtr(s string) *string     { return &s }
func floatPtr(f float64) *float64 { return &f }
