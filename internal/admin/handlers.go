package admin

import (
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/wanderly-dev/storefront/internal/auth"
	"github.com/wanderly-dev/storefront/internal/backend"
	"github.com/wanderly-dev/storefront/internal/forms"
	"github.com/wanderly-dev/storefront/internal/models"
	"github.com/wanderly-dev/storefront/internal/pages"
)

const requestFailed = "Request failed"

// Link is one dashboard entry
type Link struct {
	Href  string
	Label string
}

// Handler serves the admin pages
type Handler struct {
	client    *backend.Client
	renderer  *pages.Renderer
	validate  *validator.Validate
	logger    zerolog.Logger
	resources []Resource
}

// NewHandler creates the admin handler over the catalog resources
func NewHandler(client *backend.Client, renderer *pages.Renderer, validate *validator.Validate, log zerolog.Logger) *Handler {
	return &Handler{
		client:    client,
		renderer:  renderer,
		validate:  validate,
		logger:    log,
		resources: Resources(),
	}
}

// Register mounts the admin routes on group, which is expected to be /admin
func (h *Handler) Register(group *gin.RouterGroup) {
	group.GET("", h.dashboard)

	for _, resource := range h.resources {
		r := resource
		group.GET("/"+r.Name, func(c *gin.Context) { h.list(c, r) })
		group.POST("/"+r.Name, func(c *gin.Context) { h.create(c, r) })
		group.POST("/"+r.Name+"/:id", func(c *gin.Context) { h.update(c, r) })
		group.POST("/"+r.Name+"/:id/delete", func(c *gin.Context) { h.delete(c, r) })
	}

	group.GET("/users", h.users)
	group.POST("/users/:id/role", h.updateRole)

	group.GET("/transactions", h.transactions)
	group.POST("/transactions/:id/status", h.updateStatus)

	group.GET("/payment-methods", h.paymentMethods)
	group.POST("/payment-methods/generate", h.generatePaymentMethods)
}

// Links returns the dashboard entries in display order
func (h *Handler) Links() []Link {
	links := []Link{{Href: "/admin/users", Label: "Users"}}
	for _, r := range h.resources {
		links = append(links, Link{Href: "/admin/" + r.Name, Label: r.Title})
	}
	return append(links,
		Link{Href: "/admin/transactions", Label: "Transactions"},
		Link{Href: "/admin/payment-methods", Label: "Payment methods"},
	)
}

func (h *Handler) dashboard(c *gin.Context) {
	h.renderer.HTML(c, http.StatusOK, "admin_dashboard", pages.View{Title: "Admin", Data: h.Links()})
}

type resourcePage struct {
	Resource Resource
	Items    []Item
	Form     map[string]string // create form values kept after a failed submit
}

func (h *Handler) list(c *gin.Context, r Resource) {
	h.renderResource(c, r, http.StatusOK, "", nil)
}

func (h *Handler) renderResource(c *gin.Context, r Resource, status int, errMsg string, form map[string]string) {
	session := auth.GetSession(c)

	raw, err := h.client.List(c.Request.Context(), session.Token, r.ListPath)
	if err != nil {
		h.logger.Warn().Err(err).Str("resource", r.Name).Msg("Failed to list resource")
		if errMsg == "" {
			errMsg = backend.UserMessage(err, requestFailed)
		}
	}

	h.renderer.HTML(c, status, "admin_resource", pages.View{
		Title: r.Title,
		Error: errMsg,
		Data:  resourcePage{Resource: r, Items: r.Items(raw), Form: form},
	})
}

func (h *Handler) create(c *gin.Context, r Resource) {
	if err := c.Request.ParseForm(); err != nil {
		h.renderResource(c, r, http.StatusBadRequest, requestFailed, nil)
		return
	}
	submitted := submittedValues(c.Request.PostForm)

	payload, err := r.Payload(c.Request.PostForm, h.validate)
	if err != nil {
		h.renderResource(c, r, http.StatusBadRequest, err.Error(), submitted)
		return
	}

	session := auth.GetSession(c)
	if _, err := h.client.Create(c.Request.Context(), session.Token, r.CreatePath, payload); err != nil {
		h.logger.Warn().Err(err).Str("resource", r.Name).Msg("Failed to create item")
		h.renderResource(c, r, pages.StatusFor(err), backend.UserMessage(err, requestFailed), submitted)
		return
	}

	h.logger.Info().Str("resource", r.Name).Msg("Item created")
	pages.Redirect(c, "/admin/"+r.Name, "notice", r.Title+": item created")
}

func (h *Handler) update(c *gin.Context, r Resource) {
	id := c.Param("id")
	if err := c.Request.ParseForm(); err != nil {
		h.renderResource(c, r, http.StatusBadRequest, requestFailed, nil)
		return
	}

	payload, err := r.Payload(c.Request.PostForm, h.validate)
	if err != nil {
		h.renderResource(c, r, http.StatusBadRequest, err.Error(), nil)
		return
	}

	session := auth.GetSession(c)
	if _, err := h.client.Update(c.Request.Context(), session.Token, r.UpdatePath(id), payload); err != nil {
		h.logger.Warn().Err(err).Str("resource", r.Name).Str("id", id).Msg("Failed to update item")
		h.renderResource(c, r, pages.StatusFor(err), backend.UserMessage(err, requestFailed), nil)
		return
	}

	h.logger.Info().Str("resource", r.Name).Str("id", id).Msg("Item updated")
	pages.Redirect(c, "/admin/"+r.Name, "notice", r.Title+": item updated")
}

func (h *Handler) delete(c *gin.Context, r Resource) {
	id := c.Param("id")
	session := auth.GetSession(c)

	if err := h.client.Delete(c.Request.Context(), session.Token, r.DeletePath(id)); err != nil {
		h.logger.Warn().Err(err).Str("resource", r.Name).Str("id", id).Msg("Failed to delete item")
		h.renderResource(c, r, pages.StatusFor(err), backend.UserMessage(err, requestFailed), nil)
		return
	}

	h.logger.Info().Str("resource", r.Name).Str("id", id).Msg("Item deleted")
	pages.Redirect(c, "/admin/"+r.Name, "notice", r.Title+": item deleted")
}

func (h *Handler) users(c *gin.Context) {
	session := auth.GetSession(c)

	users, err := h.client.Users(c.Request.Context(), session.Token)
	view := pages.View{Title: "Users", Data: users}
	if err != nil {
		h.logger.Warn().Err(err).Msg("Failed to list users")
		view.Error = backend.UserMessage(err, requestFailed)
	}
	h.renderer.HTML(c, http.StatusOK, "admin_users", view)
}

func (h *Handler) updateRole(c *gin.Context) {
	var payload models.UpdateRolePayload
	if err := forms.Bind(c, h.validate, &payload); err != nil {
		pages.Redirect(c, "/admin/users", "error", forms.Message(err, requestFailed))
		return
	}

	id := c.Param("id")
	session := auth.GetSession(c)
	if _, err := h.client.UpdateRole(c.Request.Context(), session.Token, id, payload.Role); err != nil {
		pages.Redirect(c, "/admin/users", "error", backend.UserMessage(err, requestFailed))
		return
	}

	h.logger.Info().Str("user_id", id).Str("role", string(payload.Role)).Msg("User role updated")
	pages.Redirect(c, "/admin/users", "notice", "Role updated")
}

func (h *Handler) transactions(c *gin.Context) {
	session := auth.GetSession(c)

	txs, err := h.client.AllTransactions(c.Request.Context(), session.Token)
	view := pages.View{Title: "Transactions", Data: txs}
	if err != nil {
		h.logger.Warn().Err(err).Msg("Failed to list transactions")
		view.Error = backend.UserMessage(err, requestFailed)
	}
	h.renderer.HTML(c, http.StatusOK, "admin_transactions", view)
}

func (h *Handler) updateStatus(c *gin.Context) {
	var payload models.UpdateStatusPayload
	if err := forms.Bind(c, h.validate, &payload); err != nil {
		pages.Redirect(c, "/admin/transactions", "error", forms.Message(err, requestFailed))
		return
	}

	id := c.Param("id")
	session := auth.GetSession(c)
	if _, err := h.client.UpdateTransactionStatus(c.Request.Context(), session.Token, id, payload.Status); err != nil {
		pages.Redirect(c, "/admin/transactions", "error", backend.UserMessage(err, requestFailed))
		return
	}

	h.logger.Info().Str("transaction_id", id).Str("status", string(payload.Status)).Msg("Transaction status updated")
	pages.Redirect(c, "/admin/transactions", "notice", "Status updated")
}

func (h *Handler) paymentMethods(c *gin.Context) {
	session := auth.GetSession(c)

	methods, err := h.client.PaymentMethods(c.Request.Context(), session.Token)
	view := pages.View{Title: "Payment methods", Data: methods}
	if err != nil {
		h.logger.Warn().Err(err).Msg("Failed to list payment methods")
		view.Error = backend.UserMessage(err, requestFailed)
	}
	h.renderer.HTML(c, http.StatusOK, "admin_payment_methods", view)
}

func (h *Handler) generatePaymentMethods(c *gin.Context) {
	session := auth.GetSession(c)
	if err := h.client.GeneratePaymentMethods(c.Request.Context(), session.Token); err != nil {
		pages.Redirect(c, "/admin/payment-methods", "error", backend.UserMessage(err, "Generate failed"))
		return
	}
	pages.Redirect(c, "/admin/payment-methods", "notice", "Payment methods generated")
}

func submittedValues(form url.Values) map[string]string {
	values := make(map[string]string, len(form))
	for key := range form {
		values[key] = form.Get(key)
	}
	return values
}
