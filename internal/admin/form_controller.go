package admin

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"sync"
	"time"

	"clients_admin/internal/apiclient"
	"clients_admin/internal/models"
	"clients_admin/pkg/utils"
)

// ErrSubmitInProgress is returned when a submission overlaps one still in flight.
var ErrSubmitInProgress = errors.New("submission already in progress")

const (
	msgNoIDOnOpen     = "Не указан ID клиента"
	msgSubmitInFlight = "Сохранение уже выполняется"
)

// FormVariant carries the texts that differ between the form pages.
type FormVariant struct {
	Name            string
	CreateTitle     string
	EditTitle       string
	SuccessText     string
	LoadFallback    string
	SaveFallback    string
	MissingIDSubmit string
}

var (
	// UnifiedForm serves both modes from client_form.html.
	UnifiedForm = FormVariant{
		Name:            "client_form",
		CreateTitle:     "Создание клиента",
		EditTitle:       "Редактирование клиента",
		SuccessText:     "Данные сохранены. Окно закроется...",
		LoadFallback:    "Не удалось загрузить клиента",
		SaveFallback:    "Не удалось сохранить клиента",
		MissingIDSubmit: "Не указан ID клиента для редактирования.",
	}
	// LegacyCreateForm is new_client.html.
	LegacyCreateForm = FormVariant{
		Name:         "new_client",
		CreateTitle:  "Новый клиент",
		SuccessText:  "Клиент создан. Окно закроется...",
		SaveFallback: "Не удалось создать клиента",
	}
	// LegacyEditForm is edit_client.html.
	LegacyEditForm = FormVariant{
		Name:            "edit_client",
		EditTitle:       "Редактирование клиента",
		SuccessText:     "Клиент обновлен. Окно закроется...",
		LoadFallback:    "Не удалось загрузить клиента",
		SaveFallback:    "Не удалось обновить клиента",
		MissingIDSubmit: msgNoIDOnOpen,
	}
)

// FormPage is the state of a form window after an operation.
type FormPage struct {
	Mode    FormMode
	RawID   string
	Title   string
	Heading string
	Values  url.Values
	Message Message
	// Disabled keeps the submit control off for good (edit without an id).
	Disabled bool
	Saved    bool
	// Notification is the wire string to post to the opener after a save.
	Notification string
	CloseAfter   time.Duration
}

// FormController drives one form window. The submit gate admits one submission at a time.
type FormController struct {
	api        ClientsAPI
	events     Publisher
	variant    FormVariant
	mode       FormMode
	rawID      string
	id         int64
	hasID      bool
	closeDelay time.Duration

	gate sync.Mutex
}

// NewFormController builds the controller for a form window. rawID is the "id" query
// parameter; events may be nil when there is no one to notify.
func NewFormController(api ClientsAPI, events Publisher, variant FormVariant, mode FormMode, rawID string, closeDelay time.Duration) *FormController {
	c := &FormController{
		api:        api,
		events:     events,
		variant:    variant,
		mode:       mode,
		rawID:      strings.TrimSpace(rawID),
		closeDelay: closeDelay,
	}
	if id, err := utils.StrToInt64(c.rawID); err == nil && id > 0 {
		c.id, c.hasID = id, true
	}
	return c
}

func (c *FormController) Mode() FormMode { return c.mode }

func (c *FormController) basePage() FormPage {
	page := FormPage{Mode: c.mode, RawID: c.rawID, Values: url.Values{}}
	page.Disabled = c.mode == ModeEdit && !c.hasID
	if c.mode == ModeEdit {
		page.Title = c.variant.EditTitle
		page.Heading = "Редактировать запись"
	} else {
		page.Title = c.variant.CreateTitle
		page.Heading = "Новая запись"
	}
	return page
}

// Open prepares the form. In edit mode the existing client is fetched and every
// editable field is pre-populated; without an id the form is disabled and nothing
// is fetched.
func (c *FormController) Open(ctx context.Context) FormPage {
	page := c.basePage()
	if c.mode != ModeEdit {
		return page
	}
	if !c.hasID {
		page.Message = errorMessage(msgNoIDOnOpen)
		return page
	}

	client, err := c.api.GetClient(ctx, c.id)
	if err != nil {
		utils.LogDebug("Client form load failed", map[string]interface{}{"client_id": c.id, "error": err.Error()})
		page.Message = errorMessage(apiclient.ErrorMessage(err, c.variant.LoadFallback))
		return page
	}
	page.Heading = client.Surname + " " + client.Firstname
	page.Values = clientFormValues(client)
	return page
}

func clientFormValues(client *models.Client) url.Values {
	return formValues(client.Surname, client.Firstname, map[string]*string{
		"fathers_name": client.FathersName,
		"birth_date":   client.BirthDate,
		"phone_number": client.PhoneNumber,
		"pasport":      client.Pasport,
		"email":        client.Email,
	}, client.Balance)
}

// Submit serializes, validates and saves values. Local failures never reach the API.
// A submission that overlaps one in flight is rejected with ErrSubmitInProgress.
func (c *FormController) Submit(ctx context.Context, values url.Values) (FormPage, error) {
	page := c.basePage()
	page.Values = values

	if !c.gate.TryLock() {
		page.Message = errorMessage(msgSubmitInFlight)
		return page, ErrSubmitInProgress
	}
	defer c.gate.Unlock()

	payload, err := Serialize(c.mode, values)
	if err == nil {
		err = Validate(payload, RequiredFields)
	}
	if err == nil && c.mode == ModeEdit && !c.hasID {
		err = &FormError{Err: ErrMissingID, Message: c.variant.MissingIDSubmit}
	}
	if err != nil {
		page.Message = errorMessage(err.Error())
		return page, nil
	}

	var saved *models.Client
	if c.mode == ModeEdit {
		saved, err = c.api.UpdateClient(ctx, c.id, payload)
	} else {
		saved, err = c.api.CreateClient(ctx, payload)
	}
	if err != nil {
		utils.LogDebug("Client save failed", map[string]interface{}{"mode": c.mode.String(), "error": err.Error()})
		page.Message = errorMessage(apiclient.ErrorMessage(err, c.variant.SaveFallback))
		return page, nil
	}

	event := Event{Kind: EventCreated, ID: saved.ID}
	if c.mode == ModeEdit {
		event = Event{Kind: EventUpdated, ID: c.id}
	}
	if c.events != nil {
		c.events.Publish(event)
	}

	page.Saved = true
	page.Message = infoMessage(c.variant.SuccessText)
	page.Notification = event.Kind.Wire()
	page.CloseAfter = c.closeDelay
	return page, nil
}
