// Package admin holds the page controllers of the clients admin UI.
//
// Each controller runs one operation at a time against the REST API and returns a
// page model for the view to render. Controllers keep no client data between calls.
package admin

import (
	"context"
	"net/url"

	"clients_admin/internal/models"
)

// Placeholder is shown for absent values.
const Placeholder = "—"

// ClientsAPI is the REST collaborator the controllers depend on.
type ClientsAPI interface {
	ListClients(ctx context.Context, query url.Values) ([]models.Client, error)
	GetClient(ctx context.Context, id int64) (*models.Client, error)
	CreateClient(ctx context.Context, payload interface{}) (*models.Client, error)
	UpdateClient(ctx context.Context, id int64, payload interface{}) (*models.Client, error)
	DeleteClient(ctx context.Context, id int64) error
}

// Message is the content of a page's message region. A zero Message is hidden.
type Message struct {
	Text    string
	IsError bool
}

func (m Message) Hidden() bool { return m.Text == "" }

func infoMessage(text string) Message  { return Message{Text: text} }
func errorMessage(text string) Message { return Message{Text: text, IsError: true} }
