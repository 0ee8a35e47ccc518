package backend

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/wanderly-dev/storefront/internal/models"
)

// loginResponse covers the token locations the backend has used
type loginResponse struct {
	Token       string `json:"token"`
	AccessToken string `json:"accessToken"`
	Data        *struct {
		Token       string `json:"token"`
		AccessToken string `json:"accessToken"`
	} `json:"data"`
}

func (r loginResponse) token() string {
	switch {
	case r.Token != "":
		return r.Token
	case r.AccessToken != "":
		return r.AccessToken
	case r.Data != nil && r.Data.Token != "":
		return r.Data.Token
	case r.Data != nil:
		return r.Data.AccessToken
	}
	return ""
}

// Login exchanges credentials for a session token
func (c *Client) Login(ctx context.Context, payload models.LoginPayload) (string, error) {
	raw, err := c.Do(ctx, http.MethodPost, PathLogin, "", payload)
	if err != nil {
		return "", err
	}

	var resp loginResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return "", ErrNoToken
	}
	token := resp.token()
	if token == "" {
		return "", ErrNoToken
	}
	return token, nil
}

// Logout invalidates token on the backend
func (c *Client) Logout(ctx context.Context, token string) error {
	_, err := c.Do(ctx, http.MethodGet, PathLogout, token, nil)
	return err
}

// Register creates an account
func (c *Client) Register(ctx context.Context, payload models.RegisterPayload) (models.User, error) {
	return post[models.User](ctx, c, PathRegister, "", payload)
}

// Me returns the user owning token
func (c *Client) Me(ctx context.Context, token string) (models.User, error) {
	return get[models.User](ctx, c, PathMe, token)
}

func (c *Client) Users(ctx context.Context, token string) ([]models.User, error) {
	return get[[]models.User](ctx, c, PathAllUsers, token)
}

func (c *Client) UpdateProfile(ctx context.Context, token string, payload models.UpdateProfilePayload) (models.User, error) {
	return post[models.User](ctx, c, PathUpdateProfile, token, payload)
}

func (c *Client) UpdateRole(ctx context.Context, token, userID string, role models.Role) (models.User, error) {
	return post[models.User](ctx, c, PathUpdateRole(userID), token, models.UpdateRolePayload{Role: role})
}

// Catalog

func (c *Client) Banners(ctx context.Context, token string) ([]models.Banner, error) {
	return get[[]models.Banner](ctx, c, PathBanners, token)
}

func (c *Client) Banner(ctx context.Context, token, id string) (models.Banner, error) {
	return get[models.Banner](ctx, c, PathBanner(id), token)
}

func (c *Client) Promos(ctx context.Context, token string) ([]models.Promo, error) {
	return get[[]models.Promo](ctx, c, PathPromos, token)
}

func (c *Client) Promo(ctx context.Context, token, id string) (models.Promo, error) {
	return get[models.Promo](ctx, c, PathPromo(id), token)
}

func (c *Client) Categories(ctx context.Context, token string) ([]models.Category, error) {
	return get[[]models.Category](ctx, c, PathCategories, token)
}

func (c *Client) Category(ctx context.Context, token, id string) (models.Category, error) {
	return get[models.Category](ctx, c, PathCategory(id), token)
}

func (c *Client) Activities(ctx context.Context, token string) ([]models.Activity, error) {
	return get[[]models.Activity](ctx, c, PathActivities, token)
}

func (c *Client) Activity(ctx context.Context, token, id string) (models.Activity, error) {
	return get[models.Activity](ctx, c, PathActivity(id), token)
}

func (c *Client) ActivitiesByCategory(ctx context.Context, token, categoryID string) ([]models.Activity, error) {
	return get[[]models.Activity](ctx, c, PathActivitiesByCategory(categoryID), token)
}

// Generic catalog mutations used by the admin resources

// Create posts payload to path and returns the unwrapped response
func (c *Client) Create(ctx context.Context, token, path string, payload any) (json.RawMessage, error) {
	return post[json.RawMessage](ctx, c, path, token, payload)
}

// Update posts payload to path; the backend uses POST for updates
func (c *Client) Update(ctx context.Context, token, path string, payload any) (json.RawMessage, error) {
	return post[json.RawMessage](ctx, c, path, token, payload)
}

// Delete issues a DELETE to path
func (c *Client) Delete(ctx context.Context, token, path string) error {
	return c.remove(ctx, path, token)
}

// List fetches path and returns the unwrapped list as raw JSON items
func (c *Client) List(ctx context.Context, token, path string) ([]json.RawMessage, error) {
	return get[[]json.RawMessage](ctx, c, path, token)
}

// Payment methods

func (c *Client) PaymentMethods(ctx context.Context, token string) ([]models.PaymentMethod, error) {
	return get[[]models.PaymentMethod](ctx, c, PathPaymentMethods, token)
}

func (c *Client) GeneratePaymentMethods(ctx context.Context, token string) error {
	_, err := c.Do(ctx, http.MethodPost, PathGeneratePaymentMethods, token, nil)
	return err
}

// Carts

func (c *Client) Carts(ctx context.Context, token string) ([]models.Cart, error) {
	return get[[]models.Cart](ctx, c, PathCarts, token)
}

func (c *Client) AddCart(ctx context.Context, token, activityID string) (models.Cart, error) {
	return post[models.Cart](ctx, c, PathAddCart, token, models.AddCartPayload{ActivityID: activityID})
}

func (c *Client) UpdateCart(ctx context.Context, token, cartID string, quantity int) (models.Cart, error) {
	return post[models.Cart](ctx, c, PathUpdateCart(cartID), token, models.UpdateCartPayload{Quantity: quantity})
}

func (c *Client) DeleteCart(ctx context.Context, token, cartID string) error {
	return c.remove(ctx, PathDeleteCart(cartID), token)
}

// Transactions

func (c *Client) MyTransactions(ctx context.Context, token string) ([]models.Transaction, error) {
	return get[[]models.Transaction](ctx, c, PathMyTransactions, token)
}

func (c *Client) AllTransactions(ctx context.Context, token string) ([]models.Transaction, error) {
	return get[[]models.Transaction](ctx, c, PathAllTransactions, token)
}

func (c *Client) Transaction(ctx context.Context, token, id string) (models.Transaction, error) {
	return get[models.Transaction](ctx, c, PathTransaction(id), token)
}

func (c *Client) CreateTransaction(ctx context.Context, token string, payload models.CreateTransactionPayload) (models.Transaction, error) {
	return post[models.Transaction](ctx, c, PathCreateTransaction, token, payload)
}

func (c *Client) CancelTransaction(ctx context.Context, token, id string) (models.Transaction, error) {
	return post[models.Transaction](ctx, c, PathCancelTransaction(id), token, nil)
}

func (c *Client) UpdateTransactionProof(ctx context.Context, token, id, proofURL string) (models.Transaction, error) {
	return post[models.Transaction](ctx, c, PathUpdateTransactionProof(id), token, models.UpdateProofPayload{ProofPaymentURL: proofURL})
}

// ErrNoImageURL is returned when an upload succeeds but the response names no URL
var ErrNoImageURL = errors.New("image uploaded but URL was not found in response")

// imageResponse covers the URL locations the upload endpoint has used
type imageResponse struct {
	URL      string `json:"url"`
	ImageURL string `json:"imageUrl"`
	Data     *struct {
		URL      string `json:"url"`
		ImageURL string `json:"imageUrl"`
	} `json:"data"`
}

func (r imageResponse) url() string {
	switch {
	case r.URL != "":
		return r.URL
	case r.ImageURL != "":
		return r.ImageURL
	case r.Data != nil && r.Data.URL != "":
		return r.Data.URL
	case r.Data != nil:
		return r.Data.ImageURL
	}
	return ""
}

// UploadImage streams an already-encoded multipart body (field "image")
// unchanged under contentType, boundary included, and returns the hosted URL
func (c *Client) UploadImage(ctx context.Context, token, contentType string, body io.Reader) (string, error) {
	raw, err := c.send(ctx, http.MethodPost, PathUploadImage, token, contentType, body)
	if err != nil {
		return "", err
	}

	var resp imageResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return "", ErrNoImageURL
	}
	if u := resp.url(); u != "" {
		return u, nil
	}
	return "", ErrNoImageURL
}

func (c *Client) UpdateTransactionStatus(ctx context.Context, token, id string, status models.TransactionStatus) (models.Transaction, error) {
	return post[models.Transaction](ctx, c, PathUpdateTransactionStatus(id), token, models.UpdateStatusPayload{Status: status})
}
