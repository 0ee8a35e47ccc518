package backend

import "net/url"

// Backend REST paths. Detail and mutation paths take an escaped id.
const (
	PathRegister = "/api/v1/register"
	PathLogin    = "/api/v1/login"
	PathLogout   = "/api/v1/logout"

	PathMe            = "/api/v1/user"
	PathAllUsers      = "/api/v1/all-user"
	PathUpdateProfile = "/api/v1/update-profile"

	PathBanners      = "/api/v1/banners"
	PathCreateBanner = "/api/v1/create-banner"

	PathPromos      = "/api/v1/promos"
	PathCreatePromo = "/api/v1/create-promo"

	PathCategories     = "/api/v1/categories"
	PathCreateCategory = "/api/v1/create-category"

	PathActivities     = "/api/v1/activities"
	PathCreateActivity = "/api/v1/create-activity"

	PathPaymentMethods         = "/api/v1/payment-methods"
	PathGeneratePaymentMethods = "/api/v1/generate-payment-methods"

	PathCarts   = "/api/v1/carts"
	PathAddCart = "/api/v1/add-cart"

	PathMyTransactions    = "/api/v1/my-transactions"
	PathAllTransactions   = "/api/v1/all-transactions"
	PathCreateTransaction = "/api/v1/create-transaction"

	PathUploadImage = "/api/v1/upload-image"
)

func withID(prefix, id string) string {
	return prefix + url.PathEscape(id)
}

func PathUpdateRole(userID string) string { return withID("/api/v1/update-user-role/", userID) }

func PathBanner(id string) string       { return withID("/api/v1/banner/", id) }
func PathUpdateBanner(id string) string { return withID("/api/v1/update-banner/", id) }
func PathDeleteBanner(id string) string { return withID("/api/v1/delete-banner/", id) }

func PathPromo(id string) string       { return withID("/api/v1/promo/", id) }
func PathUpdatePromo(id string) string { return withID("/api/v1/update-promo/", id) }
func PathDeletePromo(id string) string { return withID("/api/v1/delete-promo/", id) }

func PathCategory(id string) string       { return withID("/api/v1/category/", id) }
func PathUpdateCategory(id string) string { return withID("/api/v1/update-category/", id) }
func PathDeleteCategory(id string) string { return withID("/api/v1/delete-category/", id) }

func PathActivity(id string) string { return withID("/api/v1/activity/", id) }
func PathActivitiesByCategory(categoryID string) string {
	return withID("/api/v1/activities-by-category/", categoryID)
}
func PathUpdateActivity(id string) string { return withID("/api/v1/update-activity/", id) }
func PathDeleteActivity(id string) string { return withID("/api/v1/delete-activity/", id) }

func PathUpdateCart(id string) string { return withID("/api/v1/update-cart/", id) }
func PathDeleteCart(id string) string { return withID("/api/v1/delete-cart/", id) }

func PathTransaction(id string) string       { return withID("/api/v1/transaction/", id) }
func PathCancelTransaction(id string) string { return withID("/api/v1/cancel-transaction/", id) }
func PathUpdateTransactionProof(id string) string {
	return withID("/api/v1/update-transaction-proof-payment/", id)
}
func PathUpdateTransactionStatus(id string) string {
	return withID("/api/v1/update-transaction-status/", id)
}
