package entities

// PaymentStatus is the typed outcome stream of the fiat payment widget.
type PaymentStatus string

const (
	PaymentStatusSuccess  PaymentStatus = "success"
	PaymentStatusFailed   PaymentStatus = "failed"
	PaymentStatusCanceled PaymentStatus = "canceled"
	PaymentStatusProgress PaymentStatus = "progress"
)

// Known reports whether the status is one the widget documents. Unknown
// statuses are dropped by the dispatcher instead of reaching flow state.
func (s PaymentStatus) Known() bool {
	switch s {
	case PaymentStatusSuccess, PaymentStatusFailed, PaymentStatusCanceled, PaymentStatusProgress:
		return true
	}
	return false
}

// SignedCheckout is the off-chain authorization handed to the payment widget.
// Everything here is passed verbatim; the service never moves funds itself.
type SignedCheckout struct {
	Address         string `json:"address"`
	Commodity       string `json:"commodity"`
	CommodityAmount string `json:"commodity_amount"`
	Network         string `json:"network"`
	SCAddress       string `json:"sc_address"`
	SCInputData     string `json:"sc_input_data"`
	Signature       string `json:"signature"`
}

// CheckoutItemInfo is the display metadata shown inside the widget.
type CheckoutItemInfo struct {
	Name           string `json:"name"`
	ImageURL       string `json:"image_url"`
	Seller         string `json:"seller"`
	Author         string `json:"author"`
	AuthorImageURL string `json:"author_image_url"`
}

// CheckoutOptions is the static widget configuration joined with per-item
// display info.
type CheckoutOptions struct {
	PartnerID string           `json:"partner_id"`
	Commodity string           `json:"commodity"`
	ClickID   string           `json:"click_id"`
	Origin    string           `json:"origin"`
	Width     int              `json:"width"`
	Height    int              `json:"height"`
	ItemInfo  CheckoutItemInfo `json:"item_info"`
}

// CheckoutResponse bundles the signed payload and display options for one
// open checkout.
type CheckoutResponse struct {
	Signed  SignedCheckout  `json:"signed"`
	Options CheckoutOptions `json:"options"`
}
