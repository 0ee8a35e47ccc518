package models

// Role is the role claim carried by a session token and returned by the backend
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Valid reports whether r is one of the known roles
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

// ApiMeta is the optional metadata block of a backend envelope
type ApiMeta struct {
	Message string `json:"message,omitempty"`
	Total   int    `json:"total,omitempty"`
}

// User represents an account as returned by the backend
type User struct {
	ID                string `json:"id"`
	Name              string `json:"name,omitempty"`
	Email             string `json:"email"`
	Role              Role   `json:"role"`
	ProfilePictureURL string `json:"profilePictureUrl,omitempty"`
	PhoneNumber       string `json:"phoneNumber,omitempty"`
}

// Banner is a home page hero banner
type Banner struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	ImageURL  string `json:"imageUrl"`
	CreatedAt string `json:"createdAt,omitempty"`
	UpdatedAt string `json:"updatedAt,omitempty"`
}

// Promo is a discount code with its display content
type Promo struct {
	ID                 string  `json:"id"`
	Title              string  `json:"title"`
	Description        string  `json:"description"`
	ImageURL           string  `json:"imageUrl"`
	TermsCondition     string  `json:"terms_condition"`
	PromoCode          string  `json:"promo_code"`
	PromoDiscountPrice float64 `json:"promo_discount_price"`
	MinimumClaimPrice  float64 `json:"minimum_claim_price"`
	CreatedAt          string  `json:"createdAt,omitempty"`
	UpdatedAt          string  `json:"updatedAt,omitempty"`
}

// Category groups activities
type Category struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	ImageURL  string `json:"imageUrl"`
	CreatedAt string `json:"createdAt,omitempty"`
	UpdatedAt string `json:"updatedAt,omitempty"`
}

// Activity is a bookable tour or experience
type Activity struct {
	ID            string   `json:"id"`
	CategoryID    string   `json:"categoryId"`
	Title         string   `json:"title"`
	Description   string   `json:"description"`
	ImageURLs     []string `json:"imageUrls"`
	Price         float64  `json:"price"`
	PriceDiscount float64  `json:"price_discount"`
	Rating        float64  `json:"rating"`
	TotalReviews  int      `json:"total_reviews"`
	Facilities    string   `json:"facilities"`
	Address       string   `json:"address"`
	Province      string   `json:"province"`
	City          string   `json:"city"`
	LocationMaps  string   `json:"location_maps"`
	CreatedAt     string   `json:"createdAt,omitempty"`
	UpdatedAt     string   `json:"updatedAt,omitempty"`
}

// UnitPrice is the price charged per item: the discounted price when set
func (a Activity) UnitPrice() float64 {
	if a.PriceDiscount > 0 {
		return a.PriceDiscount
	}
	return a.Price
}

// Cart is one cart line owned by the current user
type Cart struct {
	ID         string    `json:"id"`
	ActivityID string    `json:"activityId"`
	Quantity   int       `json:"quantity"`
	UserID     string    `json:"userId,omitempty"`
	Activity   *Activity `json:"activity,omitempty"`
}

// Subtotal returns the line total, zero when the activity is not expanded
func (c Cart) Subtotal() float64 {
	if c.Activity == nil {
		return 0
	}
	return c.Activity.UnitPrice() * float64(c.Quantity)
}

// CartTotal sums the subtotals of carts
func CartTotal(carts []Cart) float64 {
	var total float64
	for _, c := range carts {
		total += c.Subtotal()
	}
	return total
}

// PaymentMethod is a checkout payment option
type PaymentMethod struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	ImageURL  string `json:"imageUrl,omitempty"`
	CreatedAt string `json:"createdAt,omitempty"`
	UpdatedAt string `json:"updatedAt,omitempty"`
}

// TransactionStatus is the lifecycle state of a transaction
type TransactionStatus string

const (
	TransactionPending   TransactionStatus = "pending"
	TransactionSuccess   TransactionStatus = "success"
	TransactionFailed    TransactionStatus = "failed"
	TransactionCancelled TransactionStatus = "cancelled"
)

// Transaction is a checkout of one or more carts
type Transaction struct {
	ID              string            `json:"id"`
	UserID          string            `json:"userId"`
	Carts           []Cart            `json:"carts"`
	TotalAmount     float64           `json:"totalAmount,omitempty"`
	ProofPaymentURL string            `json:"proofPaymentUrl,omitempty"`
	PaymentMethodID string            `json:"paymentMethodId,omitempty"`
	PaymentMethod   *PaymentMethod    `json:"paymentMethod,omitempty"`
	Status          TransactionStatus `json:"status"`
	CreatedAt       string            `json:"createdAt,omitempty"`
	UpdatedAt       string            `json:"updatedAt,omitempty"`
}

// Total returns TotalAmount when the backend provided it, else the cart sum
func (t Transaction) Total() float64 {
	if t.TotalAmount > 0 {
		return t.TotalAmount
	}
	return CartTotal(t.Carts)
}
