package pages

import (
	"context"
	"errors"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/wanderly-dev/storefront/internal/auth"
	"github.com/wanderly-dev/storefront/internal/backend"
	"github.com/wanderly-dev/storefront/internal/forms"
	"github.com/wanderly-dev/storefront/internal/models"
)

// maxProofUpload caps proof image uploads
const maxProofUpload = 10 << 20

// Home page section sizes
const (
	homePromoLimit    = 6
	homeCategoryLimit = 8
	homeActivityLimit = 6
)

// Handler serves the storefront pages
type Handler struct {
	client   *backend.Client
	renderer *Renderer
	validate *validator.Validate
	logger   zerolog.Logger
}

// NewHandler creates the page handler
func NewHandler(client *backend.Client, renderer *Renderer, validate *validator.Validate, log zerolog.Logger) *Handler {
	return &Handler{
		client:   client,
		renderer: renderer,
		validate: validate,
		logger:   log,
	}
}

// Register mounts the page routes. The caller applies the route guard.
func (h *Handler) Register(r gin.IRoutes) {
	r.GET("/", h.home)
	r.GET("/banners/:id", h.banner)
	r.GET("/promos/:id", h.promo)
	r.GET("/categories/:id", h.category)
	r.GET("/activities/:id", h.activity)

	r.GET("/login", h.static("login", "Login"))
	r.GET("/register", h.static("register", "Register"))

	r.GET("/account", h.account)
	r.POST("/account", h.updateAccount)

	r.GET("/cart", h.cart)
	r.POST("/cart/add", h.addToCart)
	r.POST("/cart/checkout", h.checkout)
	r.POST("/cart/items/:id", h.updateCartItem)
	r.POST("/cart/items/:id/delete", h.deleteCartItem)

	r.GET("/transactions", h.transactions)
	r.GET("/transactions/:id", h.transaction)
	r.POST("/transactions/:id/cancel", h.cancelTransaction)
	r.POST("/transactions/:id/proof", h.updateProof)
	r.POST("/transactions/:id/proof/upload", h.uploadProof)
}

// NotFound is the fallback for unknown routes
func (h *Handler) NotFound(c *gin.Context) {
	h.renderer.NotFound(c, "")
}

func (h *Handler) static(page, title string) gin.HandlerFunc {
	return func(c *gin.Context) {
		h.renderer.HTML(c, http.StatusOK, page, View{Title: title})
	}
}

type homeData struct {
	Banners    []models.Banner
	Promos     []models.Promo
	Categories []models.Category
	Activities []models.Activity
}

// home fetches the four catalog lists concurrently. A failed list renders
// empty and does not affect the others.
func (h *Handler) home(c *gin.Context) {
	var data homeData
	g, ctx := errgroup.WithContext(c.Request.Context())

	g.Go(func() error {
		banners, err := h.client.Banners(ctx, "")
		h.logFetch(err, "banners")
		data.Banners = banners
		return nil
	})
	g.Go(func() error {
		promos, err := h.client.Promos(ctx, "")
		h.logFetch(err, "promos")
		data.Promos = limit(promos, homePromoLimit)
		return nil
	})
	g.Go(func() error {
		categories, err := h.client.Categories(ctx, "")
		h.logFetch(err, "categories")
		data.Categories = limit(categories, homeCategoryLimit)
		return nil
	})
	g.Go(func() error {
		activities, err := h.client.Activities(ctx, "")
		h.logFetch(err, "activities")
		data.Activities = limit(activities, homeActivityLimit)
		return nil
	})
	_ = g.Wait()

	h.renderer.HTML(c, http.StatusOK, "home", View{Data: data})
}

func (h *Handler) banner(c *gin.Context) {
	banner, err := h.client.Banner(c.Request.Context(), "", c.Param("id"))
	if err != nil {
		h.notFound(c, err, "banner", "Banner not found.")
		return
	}
	h.renderer.HTML(c, http.StatusOK, "banner", View{Title: banner.Name, Data: banner})
}

func (h *Handler) promo(c *gin.Context) {
	promo, err := h.client.Promo(c.Request.Context(), "", c.Param("id"))
	if err != nil {
		h.notFound(c, err, "promo", "Promo not found.")
		return
	}
	h.renderer.HTML(c, http.StatusOK, "promo", View{Title: promo.Title, Data: promo})
}

type categoryData struct {
	Category   models.Category
	Activities []models.Activity
}

func (h *Handler) category(c *gin.Context) {
	ctx := c.Request.Context()
	id := c.Param("id")

	category, err := h.client.Category(ctx, "", id)
	if err != nil {
		h.notFound(c, err, "category", "Category not found.")
		return
	}

	activities, err := h.client.ActivitiesByCategory(ctx, "", id)
	h.logFetch(err, "activities by category")

	h.renderer.HTML(c, http.StatusOK, "category", View{
		Title: category.Name,
		Data:  categoryData{Category: category, Activities: activities},
	})
}

func (h *Handler) activity(c *gin.Context) {
	activity, err := h.client.Activity(c.Request.Context(), "", c.Param("id"))
	if err != nil {
		h.notFound(c, err, "activity", "Activity not found.")
		return
	}
	h.renderer.HTML(c, http.StatusOK, "activity", View{Title: activity.Title, Data: activity})
}

func (h *Handler) account(c *gin.Context) {
	session := auth.GetSession(c)

	user, err := h.client.Me(c.Request.Context(), session.Token)
	if err != nil {
		h.logFetch(err, "account")
		h.renderer.HTML(c, StatusFor(err), "account", View{
			Title: "Account",
			Error: backend.UserMessage(err, "Unable to load account"),
		})
		return
	}

	h.renderer.HTML(c, http.StatusOK, "account", View{Title: "Account", Data: user})
}

func (h *Handler) updateAccount(c *gin.Context) {
	var payload models.UpdateProfilePayload
	if err := forms.Bind(c, h.validate, &payload); err != nil {
		Redirect(c, "/account", "error", forms.Message(err, "Invalid profile"))
		return
	}

	session := auth.GetSession(c)
	if _, err := h.client.UpdateProfile(c.Request.Context(), session.Token, payload); err != nil {
		Redirect(c, "/account", "error", backend.UserMessage(err, "Failed to update profile"))
		return
	}

	Redirect(c, "/account", "notice", "Profile updated")
}

type cartData struct {
	Carts          []models.Cart
	PaymentMethods []models.PaymentMethod
	Total          float64
}

func (h *Handler) cart(c *gin.Context) {
	session := auth.GetSession(c)
	var data cartData
	g, ctx := errgroup.WithContext(c.Request.Context())

	g.Go(func() error {
		carts, err := h.client.Carts(ctx, session.Token)
		h.logFetch(err, "carts")
		data.Carts = carts
		return nil
	})
	g.Go(func() error {
		methods, err := h.client.PaymentMethods(ctx, session.Token)
		h.logFetch(err, "payment methods")
		data.PaymentMethods = methods
		return nil
	})
	_ = g.Wait()

	data.Total = models.CartTotal(data.Carts)
	h.renderer.HTML(c, http.StatusOK, "cart", View{Title: "Cart", Data: data})
}

func (h *Handler) addToCart(c *gin.Context) {
	var payload models.AddCartPayload
	if err := forms.Bind(c, h.validate, &payload); err != nil {
		Redirect(c, "/cart", "error", forms.Message(err, "Invalid cart item"))
		return
	}

	session := auth.GetSession(c)
	if _, err := h.client.AddCart(c.Request.Context(), session.Token, payload.ActivityID); err != nil {
		Redirect(c, "/activities/"+url.PathEscape(payload.ActivityID), "error", backend.UserMessage(err, "Failed to add cart"))
		return
	}

	Redirect(c, "/cart", "notice", "Added to cart")
}

func (h *Handler) updateCartItem(c *gin.Context) {
	var payload models.UpdateCartPayload
	if err := forms.Bind(c, h.validate, &payload); err != nil {
		Redirect(c, "/cart", "error", forms.Message(err, "Invalid quantity"))
		return
	}

	session := auth.GetSession(c)
	if _, err := h.client.UpdateCart(c.Request.Context(), session.Token, c.Param("id"), payload.Quantity); err != nil {
		Redirect(c, "/cart", "error", backend.UserMessage(err, "Failed to update cart"))
		return
	}

	Redirect(c, "/cart", "notice", "Cart updated")
}

func (h *Handler) deleteCartItem(c *gin.Context) {
	session := auth.GetSession(c)
	if err := h.client.DeleteCart(c.Request.Context(), session.Token, c.Param("id")); err != nil {
		Redirect(c, "/cart", "error", backend.UserMessage(err, "Failed to delete cart"))
		return
	}

	Redirect(c, "/cart", "notice", "Cart item removed")
}

func (h *Handler) checkout(c *gin.Context) {
	var payload models.CreateTransactionPayload
	if err := forms.Bind(c, h.validate, &payload); err != nil {
		Redirect(c, "/cart", "error", forms.Message(err, "Invalid checkout"))
		return
	}

	session := auth.GetSession(c)
	tx, err := h.client.CreateTransaction(c.Request.Context(), session.Token, payload)
	if err != nil {
		Redirect(c, "/cart", "error", backend.UserMessage(err, "Failed to create transaction"))
		return
	}

	if tx.ID == "" {
		Redirect(c, "/transactions", "notice", "Transaction created")
		return
	}
	Redirect(c, "/transactions/"+url.PathEscape(tx.ID), "notice", "Transaction created")
}

func (h *Handler) transactions(c *gin.Context) {
	session := auth.GetSession(c)

	txs, err := h.client.MyTransactions(c.Request.Context(), session.Token)
	h.logFetch(err, "transactions")

	view := View{Title: "Transactions", Data: txs}
	if err != nil {
		view.Error = backend.UserMessage(err, "Unable to load transactions")
	}
	h.renderer.HTML(c, http.StatusOK, "transactions", view)
}

func (h *Handler) transaction(c *gin.Context) {
	session := auth.GetSession(c)

	tx, err := h.client.Transaction(c.Request.Context(), session.Token, c.Param("id"))
	if err != nil {
		h.notFound(c, err, "transaction", "Transaction not found.")
		return
	}
	h.renderer.HTML(c, http.StatusOK, "transaction", View{Title: "Transaction", Data: tx})
}

func (h *Handler) cancelTransaction(c *gin.Context) {
	id := c.Param("id")
	target := "/transactions/" + url.PathEscape(id)
	session := auth.GetSession(c)

	if _, err := h.client.CancelTransaction(c.Request.Context(), session.Token, id); err != nil {
		Redirect(c, target, "error", backend.UserMessage(err, "Failed to cancel transaction"))
		return
	}

	Redirect(c, target, "notice", "Transaction cancelled")
}

func (h *Handler) updateProof(c *gin.Context) {
	id := c.Param("id")
	target := "/transactions/" + url.PathEscape(id)

	var payload models.UpdateProofPayload
	if err := forms.Bind(c, h.validate, &payload); err != nil {
		Redirect(c, target, "error", forms.Message(err, "Invalid proof payment URL"))
		return
	}

	session := auth.GetSession(c)
	if _, err := h.client.UpdateTransactionProof(c.Request.Context(), session.Token, id, payload.ProofPaymentURL); err != nil {
		Redirect(c, target, "error", backend.UserMessage(err, "Failed to update proof"))
		return
	}

	Redirect(c, target, "notice", "Proof payment updated")
}

// uploadProof relays the multipart form to the backend upload endpoint
// byte for byte, then stores the returned image URL as the payment proof
func (h *Handler) uploadProof(c *gin.Context) {
	id := c.Param("id")
	target := "/transactions/" + url.PathEscape(id)

	if c.ContentType() != binding.MIMEMultipartPOSTForm {
		Redirect(c, target, "error", "Choose an image to upload")
		return
	}

	session := auth.GetSession(c)
	body := http.MaxBytesReader(c.Writer, c.Request.Body, maxProofUpload)
	imageURL, err := h.client.UploadImage(c.Request.Context(), session.Token, c.GetHeader("Content-Type"), body)
	if err != nil {
		h.logger.Info().Err(err).Str("transaction_id", id).Msg("Proof upload failed")
		message := backend.UserMessage(err, "Upload image failed")
		if errors.Is(err, backend.ErrNoImageURL) {
			message = "Image uploaded but URL was not found in response"
		}
		Redirect(c, target, "error", message)
		return
	}

	if _, err := h.client.UpdateTransactionProof(c.Request.Context(), session.Token, id, imageURL); err != nil {
		Redirect(c, target, "error", backend.UserMessage(err, "Failed to update proof"))
		return
	}

	Redirect(c, target, "notice", "Image uploaded, proof payment updated")
}

// notFound answers a failed detail fetch: the not-found page for a backend
// 404 or an unconfigured backend, an error page with StatusFor otherwise
func (h *Handler) notFound(c *gin.Context, err error, what, detail string) {
	if backend.IsNotFound(err) || errors.Is(err, backend.ErrNotConfigured) {
		h.logger.Debug().Err(err).Str("entity", what).Str("id", c.Param("id")).Msg("Detail page unavailable")
		h.renderer.NotFound(c, detail)
		return
	}

	h.logger.Warn().Err(err).Str("entity", what).Str("id", c.Param("id")).Msg("Detail page fetch failed")
	h.renderer.HTML(c, StatusFor(err), "not_found", View{
		Title: "Unavailable",
		Data:  backend.UserMessage(err, "This page is temporarily unavailable. Please try again later."),
	})
}

// logFetch records a failed backend read. Reads against an unconfigured
// backend are expected and only logged at debug.
func (h *Handler) logFetch(err error, what string) {
	if err == nil {
		return
	}
	if errors.Is(err, backend.ErrNotConfigured) || errors.Is(err, context.Canceled) {
		h.logger.Debug().Err(err).Str("resource", what).Msg("Backend fetch skipped")
		return
	}
	h.logger.Warn().Err(err).Str("resource", what).Msg("Backend fetch failed")
}

// Redirect sends a 303 to target carrying a one-line message in the query
// string under key ("notice" or "error")
func Redirect(c *gin.Context, target, key, message string) {
	if message != "" {
		target += "?" + url.Values{key: {message}}.Encode()
	}
	c.Redirect(http.StatusSeeOther, target)
}

// StatusFor maps a backend error to the status of the page reporting it
func StatusFor(err error) int {
	var apiErr *backend.APIError
	switch {
	case errors.As(err, &apiErr) && apiErr.Status >= 400:
		return apiErr.Status
	case errors.Is(err, backend.ErrNotConfigured):
		return http.StatusServiceUnavailable
	default:
		return http.StatusBadGateway
	}
}

func limit[T any](items []T, n int) []T {
	if len(items) > n {
		return items[:n]
	}
	return items
}
