package admin

import (
	"context"
	"strings"

	"clients_admin/internal/apiclient"
	"clients_admin/pkg/utils"
)

const (
	msgMissingClientID  = "Не передан идентификатор клиента"
	msgDetailLoadFailed = "Не удалось загрузить данные клиента"
)

// Field is one label/value pair of the detail view.
type Field struct {
	Label string
	Value string
}

type DetailPage struct {
	Title   string
	Fields  []Field
	Message Message
}

type DetailController struct {
	api ClientsAPI
}

func NewDetailController(api ClientsAPI) *DetailController {
	return &DetailController{api: api}
}

// Load renders the client identified by rawID, the page's "id" query parameter.
func (c *DetailController) Load(ctx context.Context, rawID string) DetailPage {
	rawID = strings.TrimSpace(rawID)
	if rawID == "" {
		return DetailPage{Message: errorMessage(msgMissingClientID)}
	}
	id, err := utils.StrToInt64(rawID)
	if err != nil || id <= 0 {
		return DetailPage{Message: errorMessage(msgInvalidClientID)}
	}

	client, err := c.api.GetClient(ctx, id)
	if err != nil {
		utils.LogDebug("Client detail load failed", map[string]interface{}{"client_id": id, "error": err.Error()})
		return DetailPage{Message: errorMessage(apiclient.ErrorMessage(err, msgDetailLoadFailed))}
	}

	balance := Placeholder
	if client.Balance != nil {
		balance = utils.Float64ToStr(*client.Balance)
	}

	return DetailPage{
		Title: client.Surname + " " + client.Firstname,
		Fields: []Field{
			{Label: "ID", Value: utils.Int64ToStr(client.ID)},
			{Label: "Фамилия", Value: client.Surname},
			{Label: "Имя", Value: client.Firstname},
			{Label: "Отчество", Value: utils.StringOr(client.FathersName, Placeholder)},
			{Label: "Дата рождения", Value: utils.StringOr(client.BirthDate, Placeholder)},
			{Label: "Телефон", Value: utils.StringOr(client.PhoneNumber, Placeholder)},
			{Label: "Паспорт", Value: utils.StringOr(client.Pasport, Placeholder)},
			{Label: "Email", Value: utils.StringOr(client.Email, Placeholder)},
			{Label: "Баланс", Value: balance},
		},
	}
}
