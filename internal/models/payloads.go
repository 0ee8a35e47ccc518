package models

// LoginPayload is sent to the backend login endpoint
type LoginPayload struct {
	Email    string `json:"email" form:"email" validate:"required,email"`
	Password string `json:"password" form:"password" validate:"required"`
}

// RegisterPayload is sent to the backend register endpoint
type RegisterPayload struct {
	Name              string `json:"name,omitempty" form:"name" validate:"omitempty,max=100"`
	Email             string `json:"email" form:"email" validate:"required,email"`
	Password          string `json:"password" form:"password" validate:"required,min=6"`
	PasswordRepeat    string `json:"passwordRepeat" form:"passwordRepeat" validate:"required,eqfield=Password"`
	Role              Role   `json:"role,omitempty" form:"role" validate:"omitempty,oneof=user admin"`
	ProfilePictureURL string `json:"profilePictureUrl,omitempty" form:"profilePictureUrl" validate:"omitempty,url"`
	PhoneNumber       string `json:"phoneNumber,omitempty" form:"phoneNumber"`
}

// UpdateProfilePayload updates the current user's profile
type UpdateProfilePayload struct {
	Name              string `json:"name" form:"name" validate:"required"`
	Email             string `json:"email" form:"email" validate:"required,email"`
	ProfilePictureURL string `json:"profilePictureUrl,omitempty" form:"profilePictureUrl" validate:"omitempty,url"`
	PhoneNumber       string `json:"phoneNumber,omitempty" form:"phoneNumber"`
}

// UpdateRolePayload changes another user's role (admin only)
type UpdateRolePayload struct {
	Role Role `json:"role" form:"role" validate:"required,oneof=user admin"`
}

// AddCartPayload adds an activity to the cart
type AddCartPayload struct {
	ActivityID string `json:"activityId" form:"activityId" validate:"required"`
}

// UpdateCartPayload changes a cart line quantity
type UpdateCartPayload struct {
	Quantity int `json:"quantity" form:"quantity" validate:"min=1"`
}

// CreateTransactionPayload checks out the selected carts
type CreateTransactionPayload struct {
	CartIDs         []string `json:"cartIds" form:"cartIds" validate:"required,min=1"`
	PaymentMethodID string   `json:"paymentMethodId" form:"paymentMethodId" validate:"required"`
}

// UpdateProofPayload attaches a payment proof image
type UpdateProofPayload struct {
	ProofPaymentURL string `json:"proofPaymentUrl" form:"proofPaymentUrl" validate:"required,url"`
}

// UpdateStatusPayload settles a transaction (admin only)
type UpdateStatusPayload struct {
	Status TransactionStatus `json:"status" form:"status" validate:"required,oneof=success failed"`
}
