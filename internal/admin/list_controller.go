package admin

import (
	"context"

	"clients_admin/internal/apiclient"
	"clients_admin/internal/models"
	"clients_admin/pkg/utils"
)

const (
	msgNoClients      = "Клиенты не найдены"
	msgListLoadFailed = "Не удалось загрузить список клиентов"
	msgClientDeleted  = "Клиент удален"
	msgDeleteFailed   = "Не удалось удалить клиента"
)

// ListVariant selects which row actions the list offers. Details is always available.
type ListVariant struct {
	AllowEdit   bool
	AllowDelete bool
}

// FullListVariant offers every action.
var FullListVariant = ListVariant{AllowEdit: true, AllowDelete: true}

type ListRow struct {
	ID        int64
	Surname   string
	Firstname string
	Email     string
	BirthDate string
	CanEdit   bool
	CanDelete bool
}

type ListPage struct {
	Filter  ListFilter
	Rows    []ListRow
	Message Message
}

type ListController struct {
	api     ClientsAPI
	variant ListVariant
}

func NewListController(api ClientsAPI, variant ListVariant) *ListController {
	return &ListController{api: api, variant: variant}
}

func (c *ListController) row(client models.Client) ListRow {
	return ListRow{
		ID:        client.ID,
		Surname:   client.Surname,
		Firstname: client.Firstname,
		Email:     utils.StringOr(client.Email, Placeholder),
		BirthDate: utils.StringOr(client.BirthDate, Placeholder),
		CanEdit:   c.variant.AllowEdit,
		CanDelete: c.variant.AllowDelete,
	}
}

// Load fetches the clients matching filter.
func (c *ListController) Load(ctx context.Context, filter ListFilter) ListPage {
	page := ListPage{Filter: filter}

	clients, err := c.api.ListClients(ctx, filter.Query())
	if err != nil {
		utils.LogDebug("Client list load failed", map[string]interface{}{"error": err.Error()})
		page.Message = errorMessage(msgListLoadFailed)
		return page
	}
	if len(clients) == 0 {
		page.Message = infoMessage(msgNoClients)
		return page
	}

	page.Rows = make([]ListRow, 0, len(clients))
	for _, client := range clients {
		page.Rows = append(page.Rows, c.row(client))
	}
	return page
}

// Reset clears the filters and reloads.
func (c *ListController) Reset(ctx context.Context) ListPage {
	return c.Load(ctx, ListFilter{})
}

// Delete removes the client when confirmed and reloads the list. An unconfirmed
// delete issues no DELETE request. The outcome of the delete replaces the load
// message unless the reload itself failed.
func (c *ListController) Delete(ctx context.Context, id int64, confirmed bool, filter ListFilter) ListPage {
	if !confirmed || !c.variant.AllowDelete {
		return c.Load(ctx, filter)
	}

	err := c.api.DeleteClient(ctx, id)
	if err != nil {
		utils.LogDebug("Client delete failed", map[string]interface{}{"client_id": id, "error": err.Error()})
	}
	page := c.Load(ctx, filter)
	if page.Message.IsError {
		return page
	}
	if err != nil {
		page.Message = errorMessage(apiclient.ErrorMessage(err, msgDeleteFailed))
		return page
	}
	page.Message = infoMessage(msgClientDeleted)
	return page
}

// Watch calls onReload for every create/update notification until ctx is done or
// events is closed.
func (c *ListController) Watch(ctx context.Context, events <-chan Event, onReload func(Event)) {
	for {
		select {
		case <-ctx.Done():
			return
		case e, ok := <-events:
			if !ok {
				return
			}
			if e.Kind == EventCreated || e.Kind == EventUpdated {
				onReload(e)
			}
		}
	}
}
