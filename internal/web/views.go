package web

import (
	"html/template"
	"net/url"

	"clients_admin/internal/admin"
)

type listView struct {
	Page admin.ListPage
	// ListQuery is "" or "?" plus the encoded filter, appended to list links.
	ListQuery   template.URL
	ReloadURL   string
	WireAdded   string
	WireUpdated string
}

type detailView struct {
	Page admin.DetailPage
}

type formField struct {
	Name     string
	Label    string
	Type     string
	Value    string
	Required bool
}

type formView struct {
	Page        admin.FormPage
	Action      string
	Token       string
	Fields      []formField
	CloseMillis int64
}

var fieldLabels = map[string]string{
	"surname":      "Фамилия",
	"firstname":    "Имя",
	"fathers_name": "Отчество",
	"birth_date":   "Дата рождения",
	"phone_number": "Телефон",
	"pasport":      "Паспорт",
	"email":        "Email",
	"balance":      "Баланс",
}

var fieldTypes = map[string]string{
	"birth_date":   "date",
	"phone_number": "tel",
	"email":        "email",
}

func newListView(page admin.ListPage) listView {
	query := page.Filter.Query()
	view := listView{
		Page:        page,
		ReloadURL:   "/",
		WireAdded:   admin.WireClientAdded,
		WireUpdated: admin.WireClientUpdated,
	}
	if len(query) > 0 {
		view.ListQuery = template.URL("?" + query.Encode())
		view.ReloadURL = "/?" + query.Encode()
	}
	return view
}

func newFormView(page admin.FormPage, action, token string) formView {
	required := make(map[string]bool, len(admin.RequiredFields))
	for _, name := range admin.RequiredFields {
		required[name] = true
	}

	values := page.Values
	if values == nil {
		values = url.Values{}
	}
	fields := make([]formField, 0, len(admin.FormFields))
	for _, name := range admin.FormFields {
		inputType, ok := fieldTypes[name]
		if !ok {
			inputType = "text"
		}
		fields = append(fields, formField{
			Name:     name,
			Label:    fieldLabels[name],
			Type:     inputType,
			Value:    values.Get(name),
			Required: required[name],
		})
	}

	return formView{
		Page:        page,
		Action:      action,
		Token:       token,
		Fields:      fields,
		CloseMillis: page.CloseAfter.Milliseconds(),
	}
}
