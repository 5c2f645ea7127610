// Package web serves the admin pages over gin.
package web

import (
	"embed"
	"errors"
	"html/template"
	"io"
	"io/fs"
	"net/http"
	"time"

	"clients_admin/internal/admin"
	"clients_admin/internal/config"
	"clients_admin/internal/middleware"
	"clients_admin/pkg/utils"

	"github.com/gin-gonic/gin"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

const msgBadClientID = "Некорректный идентификатор клиента"

type Handler struct {
	api        admin.ClientsAPI
	broker     *admin.Broker
	list       *admin.ListController
	detail     *admin.DetailController
	forms      *formRegistry
	closeDelay time.Duration
	tmpl       *template.Template
}

func NewHandler(api admin.ClientsAPI, broker *admin.Broker, cfg config.AdminConfig) (*Handler, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, err
	}
	return &Handler{
		api:        api,
		broker:     broker,
		list:       admin.NewListController(api, admin.FullListVariant),
		detail:     admin.NewDetailController(api),
		forms:      newFormRegistry(cfg.FormTTL),
		closeDelay: cfg.CloseDelay,
		tmpl:       tmpl,
	}, nil
}

type formRoute struct {
	path    string
	variant admin.FormVariant
	mode    func(c *gin.Context) admin.FormMode
}

func fixedMode(mode admin.FormMode) func(*gin.Context) admin.FormMode {
	return func(*gin.Context) admin.FormMode { return mode }
}

var formRoutes = []formRoute{
	{
		path:    "/client_form.html",
		variant: admin.UnifiedForm,
		mode:    func(c *gin.Context) admin.FormMode { return admin.ParseMode(c.Query("mode")) },
	},
	{path: "/new_client.html", variant: admin.LegacyCreateForm, mode: fixedMode(admin.ModeCreate)},
	{path: "/edit_client.html", variant: admin.LegacyEditForm, mode: fixedMode(admin.ModeEdit)},
}

// Register mounts the admin routes and templates on engine.
func (h *Handler) Register(engine *gin.Engine) {
	engine.SetHTMLTemplate(h.tmpl)
	engine.Use(middleware.SecurityHeaders())

	static, _ := fs.Sub(staticFS, "static")
	engine.StaticFS("/static", http.FS(static))

	engine.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})
	engine.GET("/", h.listClients)
	engine.POST("/clients/:id/delete", h.deleteClient)
	engine.GET("/client.html", h.showClient)
	engine.GET("/events", h.streamEvents)

	for _, route := range formRoutes {
		engine.GET(route.path, h.openForm(route))
		engine.POST(route.path, h.submitForm(route))
	}
}

func (h *Handler) listClients(c *gin.Context) {
	var page admin.ListPage
	if c.Query("reset") != "" {
		page = h.list.Reset(c.Request.Context())
	} else {
		page = h.list.Load(c.Request.Context(), admin.ListFilterFromValues(c.Request.URL.Query()))
	}
	c.HTML(http.StatusOK, "list.html", newListView(page))
}

func (h *Handler) deleteClient(c *gin.Context) {
	filter := admin.ListFilterFromValues(c.Request.URL.Query())

	id, err := utils.StrToInt64(c.Param("id"))
	if err != nil || id <= 0 {
		page := h.list.Load(c.Request.Context(), filter)
		if !page.Message.IsError {
			page.Message = admin.Message{Text: msgBadClientID, IsError: true}
		}
		c.HTML(http.StatusBadRequest, "list.html", newListView(page))
		return
	}

	confirmed := c.PostForm("confirmed") == "1"
	page := h.list.Delete(c.Request.Context(), id, confirmed, filter)
	c.HTML(http.StatusOK, "list.html", newListView(page))
}

func (h *Handler) showClient(c *gin.Context) {
	page := h.detail.Load(c.Request.Context(), c.Query("id"))
	c.HTML(http.StatusOK, "client.html", detailView{Page: page})
}

func (h *Handler) newFormController(c *gin.Context, route formRoute) *admin.FormController {
	return admin.NewFormController(h.api, h.broker, route.variant, route.mode(c), c.Query("id"), h.closeDelay)
}

func (h *Handler) openForm(route formRoute) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctrl := h.newFormController(c, route)
		token := h.forms.put(ctrl)
		page := ctrl.Open(c.Request.Context())
		c.HTML(http.StatusOK, "form.html", newFormView(page, c.Request.URL.RequestURI(), token))
	}
}

func (h *Handler) submitForm(route formRoute) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := c.Request.ParseForm(); err != nil {
			utils.RespondValidationFailed(c, "Некорректные данные формы", err.Error())
			return
		}

		token := c.Request.PostForm.Get("form_token")
		ctrl, ok := h.forms.get(token)
		if !ok {
			ctrl = h.newFormController(c, route)
			token = h.forms.put(ctrl)
		}

		page, err := ctrl.Submit(c.Request.Context(), c.Request.PostForm)
		status := http.StatusOK
		if errors.Is(err, admin.ErrSubmitInProgress) {
			status = http.StatusConflict
		}
		if page.Saved {
			h.forms.remove(token)
		}
		c.HTML(status, "form.html", newFormView(page, c.Request.URL.RequestURI(), token))
	}
}

// streamEvents relays create/update notifications to the list page as
// Server-Sent Events carrying the wire string.
func (h *Handler) streamEvents(c *gin.Context) {
	events, cancel := h.broker.Subscribe()
	defer cancel()

	ctx := c.Request.Context()
	reloads := make(chan admin.Event, 4)
	go h.list.Watch(ctx, events, func(e admin.Event) {
		select {
		case reloads <- e:
		default:
		}
	})

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("X-Accel-Buffering", "no")
	c.Status(http.StatusOK)
	c.Writer.Flush()

	c.Stream(func(w io.Writer) bool {
		select {
		case e := <-reloads:
			c.SSEvent("message", e.Kind.Wire())
			return true
		case <-ctx.Done():
			return false
		}
	})
}
